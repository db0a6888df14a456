package redact

import (
	"fmt"
	"regexp"
)

// SecretKind names one class of secret the engine can redact. The set is
// closed; placeholder ordinals are tracked per kind.
type SecretKind string

const (
	KindAwsAccessKey       SecretKind = "AWS_ACCESS_KEY"
	KindAwsSecretKey       SecretKind = "AWS_SECRET_KEY"
	KindGitHubToken        SecretKind = "GITHUB_TOKEN"
	KindSlackToken         SecretKind = "SLACK_TOKEN"
	KindBearerToken        SecretKind = "BEARER_TOKEN"
	KindPassword           SecretKind = "PASSWORD"
	KindSshPrivateKeyBlock SecretKind = "SSH_PRIVATE_KEY"
	KindGenericApiKey      SecretKind = "API_KEY"
	KindGenericSecret      SecretKind = "GENERIC_SECRET"
)

// pattern binds a kind to its compiled expression. verify, when set, must
// accept the raw match before it is counted and replaced.
type pattern struct {
	kind SecretKind
	re   *regexp.Regexp
	// verify rejects matches whose shape is implausible for the kind.
	verify func(string) bool
}

// ErrBadPattern wraps a pattern that failed to compile. It is fatal at
// engine construction.
type ErrBadPattern struct {
	Kind SecretKind
	Expr string
	Err  error
}

func (e *ErrBadPattern) Error() string {
	return fmt.Sprintf("secret pattern %s (%s) failed to compile: %v", e.Kind, e.Expr, e.Err)
}

func (e *ErrBadPattern) Unwrap() error { return e.Err }

// patternSpecs is ordered: multi-line key blocks first, then provider
// tokens, then the broad context-anchored fallbacks. All quantifiers are
// bounded so a pathological file cannot stall the scan.
var patternSpecs = []struct {
	kind   SecretKind
	expr   string
	verify func(string) bool
}{
	// The key body is base64 lines plus whitespace; the class excludes '-'
	// so the match cannot run past the END marker. The lazy unbounded body
	// is safe: RE2 is linear-time, so it cannot catastrophically backtrack.
	{KindSshPrivateKeyBlock, `-----BEGIN (?:OPENSSH |RSA |EC |DSA |PGP )?PRIVATE KEY(?: BLOCK)?-----[A-Za-z0-9+/=\s]*?-----END (?:OPENSSH |RSA |EC |DSA |PGP )?PRIVATE KEY(?: BLOCK)?-----`, nil},
	{KindAwsAccessKey, `AKIA[0-9A-Z]{16}`, nil},
	{KindAwsSecretKey, `\b[0-9a-zA-Z/+]{40}\b`, looksHighEntropyToken},
	{KindGitHubToken, `gh[pousr]_[0-9a-zA-Z]{36,255}`, nil},
	{KindSlackToken, `xox[baprs]-[0-9a-zA-Z-]{10,250}`, nil},
	{KindBearerToken, `(?i)\bbearer\s+[a-zA-Z0-9_\-.=]{20,512}`, nil},
	{KindPassword, `(?i)(?:password|passwd|pwd)\s*[:=]\s*["'][^"']{8,256}["']`, nil},
	{KindGenericApiKey, `(?i)api[_-]?key\s*[:=]\s*["']?[a-zA-Z0-9_\-]{16,128}["']?`, nil},
	{KindGenericSecret, `(?i)(?:secret|token)\s*[:=]\s*["']?[a-zA-Z0-9_\-]{16,128}["']?`, nil},
}

// compilePatterns builds the ordered pattern set. Any compile failure is
// returned as *ErrBadPattern and aborts the run before ingestion.
func compilePatterns() ([]pattern, error) {
	out := make([]pattern, 0, len(patternSpecs))
	for _, s := range patternSpecs {
		re, err := regexp.Compile(s.expr)
		if err != nil {
			return nil, &ErrBadPattern{Kind: s.kind, Expr: s.expr, Err: err}
		}
		out = append(out, pattern{kind: s.kind, re: re, verify: s.verify})
	}
	return out, nil
}

// Kinds lists every configured secret kind in match order.
func Kinds() []SecretKind {
	out := make([]SecretKind, 0, len(patternSpecs))
	for _, s := range patternSpecs {
		out = append(out, s.kind)
	}
	return out
}
