package heuristics

import (
	"path"
	"regexp"
	"strings"

	"github.com/repoaudit/repoaudit/internal/ingest"
	"github.com/repoaudit/repoaudit/internal/redact"
	"github.com/repoaudit/repoaudit/internal/types"
)

// Finding type identifiers. Each check emits exactly one type.
const (
	TypeSQLInjectionRisk     = "SQL_INJECTION_RISK"
	TypePathTraversalRisk    = "PATH_TRAVERSAL_RISK"
	TypeHardcodedSecret      = "HARDCODED_SECRET"
	TypeUngitignoredEnv      = "UNGITIGNORED_ENV"
	TypeInsecureHTTP         = "INSECURE_HTTP"
	TypeDangerousEval        = "DANGEROUS_EVAL"
	TypeDebugCode            = "DEBUG_CODE"
	TypeTodoMarker           = "TODO_MARKER"
	TypeSensitiveFile        = "SENSITIVE_FILE"
	TypeSuspiciousPostinst   = "SUSPICIOUS_POSTINSTALL"
	TypeMissingReadme        = "MISSING_README"
	TypeMissingLicense       = "MISSING_LICENSE"
	TypeMissingGitignore     = "MISSING_GITIGNORE"
)

var sqlKeywords = []string{
	"select ", "insert ", "update ", "delete ", "drop ", "from ", "where ",
}

// identifier prefixes that contain a keyword but are not SQL
var sqlFalsePositives = []string{
	"selected_", "updated_", "inserted_", "deleted_", "from_", "where_",
}

var dynamicConstruction = []string{
	"format!", "format(", ".format(", "sprintf", "fmt.sprintf",
	"string.concat", " + ", "${", "f\"", "f'", "`+",
}

var (
	reSecretAssign = regexp.MustCompile(`(?i)^\s*(?:export\s+)?([A-Z0-9_]*(?:SECRET|TOKEN|PASSWORD|API_?KEY)[A-Z0-9_]*)\s*=\s*["']?\S{8,}`)
	reInsecureHTTP = regexp.MustCompile(`http://[a-zA-Z0-9.\-]+`)
	reEvalCall     = regexp.MustCompile(`\b(?:eval|exec)\s*\(`)
	reDebugLine    = regexp.MustCompile(`\b(?:console\.log|println!|dbg!|print\s*\(|debugger\b|binding\.pry)`)
	reTodoMarker   = regexp.MustCompile(`\b(?:TODO|FIXME|XXX|HACK)\b`)
	rePathConcat   = regexp.MustCompile(`(?:\.\./|\.\.\\)|(?:path\.join|filepath\.Join|os\.path\.join|Path::new)\s*\([^)]*(?:\+|%s|\{)`)
)

var sensitiveFileNames = map[string]bool{
	".env":            true,
	".env.local":      true,
	".env.production": true,
	"id_rsa":          true,
	"id_ed25519":      true,
	".npmrc":          true,
	".pypirc":         true,
	"credentials":     true,
	".netrc":          true,
	".htpasswd":       true,
}

var commentPrefixes = []string{"//", "#", "--", "*", "/*", ";", "<!--"}

func isCommentLine(line string) bool {
	t := strings.TrimSpace(line)
	for _, p := range commentPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

func truncateSnippet(line string, max int) string {
	t := strings.TrimSpace(line)
	if len(t) > max {
		return t[:max]
	}
	return t
}

// checkFile runs every per-file check and returns its findings in line
// order. Checks are pure functions of path plus content.
func checkFile(f ingest.ScannedFile) []types.LocalFinding {
	var out []types.LocalFinding

	base := path.Base(f.RelPath)
	if sensitiveFileNames[strings.ToLower(base)] {
		out = append(out, types.LocalFinding{
			FindingType: TypeSensitiveFile,
			Description: "Sensitive file committed to the repository: " + f.RelPath,
			FilePath:    f.RelPath,
			Severity:    types.SevHigh,
			Remedy:      "Remove the file from version control and rotate any credentials it contains.",
		})
	}
	if f.Excluded != "" {
		return out
	}

	skipSecretChecks := redact.IsDocFile(f.RelPath) || redact.IsFixturePath(f.RelPath)

	if base == "package.json" {
		out = append(out, checkPostinstall(f)...)
	}

	lines := strings.Split(f.Content, "\n")
	for i, line := range lines {
		n := i + 1
		lower := strings.ToLower(line)

		if m := reTodoMarker.FindString(line); m != "" {
			out = append(out, types.LocalFinding{
				FindingType: TypeTodoMarker,
				Description: "Unresolved " + m + " marker",
				FilePath:    f.RelPath,
				Severity:    types.SevInfo,
				LineNumber:  n,
				Snippet:     truncateSnippet(line, 160),
			})
		}

		if isCommentLine(line) {
			continue
		}

		if !skipSecretChecks {
			if m := reSecretAssign.FindStringSubmatch(line); m != nil {
				out = append(out, types.LocalFinding{
					FindingType: TypeHardcodedSecret,
					Description: "Possible hardcoded credential assigned to " + m[1],
					FilePath:    f.RelPath,
					Severity:    types.SevCritical,
					LineNumber:  n,
					Snippet:     m[1] + "=***REDACTED***",
					Remedy:      "Move the value to environment configuration and rotate it.",
				})
			}
		}

		if checkSQLInjection(lower) {
			out = append(out, types.LocalFinding{
				FindingType: TypeSQLInjectionRisk,
				Description: "SQL statement built with dynamic string construction",
				FilePath:    f.RelPath,
				Severity:    types.SevHigh,
				LineNumber:  n,
				Snippet:     truncateSnippet(line, 160),
				Remedy:      "Use parameterized queries instead of string interpolation.",
			})
		}

		if rePathConcat.MatchString(line) && strings.Contains(lower, "..") {
			out = append(out, types.LocalFinding{
				FindingType: TypePathTraversalRisk,
				Description: "Path built from components that allow parent-directory traversal",
				FilePath:    f.RelPath,
				Severity:    types.SevHigh,
				LineNumber:  n,
				Snippet:     truncateSnippet(line, 160),
				Remedy:      "Canonicalize and validate paths before use.",
			})
		}

		if m := reInsecureHTTP.FindString(line); m != "" &&
			!strings.Contains(m, "localhost") && !strings.Contains(m, "127.0.0.1") &&
			!strings.Contains(m, "0.0.0.0") {
			out = append(out, types.LocalFinding{
				FindingType: TypeInsecureHTTP,
				Description: "Plain HTTP URL to a non-local host",
				FilePath:    f.RelPath,
				Severity:    types.SevMedium,
				LineNumber:  n,
				Snippet:     truncateSnippet(line, 160),
				Remedy:      "Use HTTPS for non-local endpoints.",
			})
		}

		if reEvalCall.MatchString(line) && !strings.Contains(lower, "safe_eval") {
			out = append(out, types.LocalFinding{
				FindingType: TypeDangerousEval,
				Description: "Dynamic code evaluation",
				FilePath:    f.RelPath,
				Severity:    types.SevHigh,
				LineNumber:  n,
				Snippet:     truncateSnippet(line, 160),
			})
		}

		if reDebugLine.MatchString(line) {
			out = append(out, types.LocalFinding{
				FindingType: TypeDebugCode,
				Description: "Debug statement left in source",
				FilePath:    f.RelPath,
				Severity:    types.SevLow,
				LineNumber:  n,
				Snippet:     truncateSnippet(line, 160),
			})
		}
	}
	return out
}

// checkSQLInjection requires a conjunction of two independent signals:
// a SQL keyword must be present AND a dynamic-construction marker must be
// present. Each side is grouped explicitly; a keyword alone never fires.
func checkSQLInjection(lower string) bool {
	keyword := false
	for _, kw := range sqlKeywords {
		if strings.Contains(lower, kw) {
			keyword = true
			break
		}
	}
	if keyword {
		// identifier prefixes like selected_ are not SQL keywords
		for _, fp := range sqlFalsePositives {
			if strings.Contains(lower, fp) && !containsRealKeyword(lower, fp) {
				keyword = false
				break
			}
		}
	}
	if !keyword {
		return false
	}

	dynamic := false
	for _, d := range dynamicConstruction {
		if strings.Contains(lower, d) {
			dynamic = true
			break
		}
	}
	return dynamic
}

// containsRealKeyword reports whether lower still contains a SQL keyword
// after removing every occurrence of the false-positive identifier prefix.
func containsRealKeyword(lower, fp string) bool {
	cleaned := strings.ReplaceAll(lower, fp, "")
	for _, kw := range sqlKeywords {
		if strings.Contains(cleaned, kw) {
			return true
		}
	}
	return false
}

func checkPostinstall(f ingest.ScannedFile) []types.LocalFinding {
	var out []types.LocalFinding
	lines := strings.Split(f.Content, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "postinstall") && !strings.Contains(lower, "preinstall") {
			continue
		}
		if strings.Contains(lower, "curl") || strings.Contains(lower, "wget") ||
			strings.Contains(lower, "| sh") || strings.Contains(lower, "| bash") ||
			strings.Contains(lower, "node -e") {
			out = append(out, types.LocalFinding{
				FindingType: TypeSuspiciousPostinst,
				Description: "Install hook downloads or executes remote code",
				FilePath:    f.RelPath,
				Severity:    types.SevHigh,
				LineNumber:  i + 1,
				Snippet:     truncateSnippet(line, 160),
				Remedy:      "Review the install hook; avoid piping remote scripts into a shell.",
			})
		}
	}
	return out
}

// repoChecks evaluates repository-level policy over the whole snapshot.
func repoChecks(snap *ingest.Snapshot) []types.LocalFinding {
	var out []types.LocalFinding

	var hasReadme, hasLicense, hasGitignore, hasEnv bool
	var gitignoreContent string
	var envPath string
	for _, f := range snap.Files {
		base := strings.ToLower(path.Base(f.RelPath))
		depth := strings.Count(f.RelPath, "/")
		switch {
		case depth == 0 && (base == "readme.md" || base == "readme" || base == "readme.rst"):
			hasReadme = true
		case depth == 0 && (base == "license" || base == "license.md" || base == "license.txt" || base == "copying"):
			hasLicense = true
		case depth == 0 && base == ".gitignore":
			hasGitignore = true
			gitignoreContent = f.Content
		}
		if base == ".env" {
			hasEnv = true
			envPath = f.RelPath
		}
	}

	if hasEnv && (!hasGitignore || !strings.Contains(gitignoreContent, ".env")) {
		out = append(out, types.LocalFinding{
			FindingType: TypeUngitignoredEnv,
			Description: ".env file present and not covered by .gitignore",
			FilePath:    envPath,
			Severity:    types.SevCritical,
			Remedy:      "Add .env to .gitignore and rotate any exposed credentials.",
		})
	}
	if !hasReadme {
		out = append(out, types.LocalFinding{
			FindingType: TypeMissingReadme,
			Description: "Repository has no README",
			FilePath:    "README.md",
			Severity:    types.SevLow,
			Remedy:      "Add a README describing purpose, setup, and usage.",
		})
	}
	if !hasLicense {
		out = append(out, types.LocalFinding{
			FindingType: TypeMissingLicense,
			Description: "Repository has no LICENSE file",
			FilePath:    "LICENSE",
			Severity:    types.SevInfo,
		})
	}
	if !hasGitignore {
		out = append(out, types.LocalFinding{
			FindingType: TypeMissingGitignore,
			Description: "Repository has no .gitignore",
			FilePath:    ".gitignore",
			Severity:    types.SevLow,
		})
	}
	return out
}
