package ingest

import (
	"path"
	"sort"
	"strings"
)

// TechStackSummary is a best-effort classification from manifest files. It
// never blocks ingestion.
type TechStackSummary struct {
	Detected        []DetectedTech
	PackageManagers []string
}

// DetectedTech names one technology and the file that implied it.
type DetectedTech struct {
	Name     string
	Evidence string
}

// DetectedEntrypoint is a likely application, build, or operational entry
// file, used to rank evidence bundle candidates.
type DetectedEntrypoint struct {
	RelPath     string
	EntryType   string
	Description string
}

type manifestRule struct {
	file    string
	tech    string
	manager string
}

var manifestRules = []manifestRule{
	{"package.json", "JavaScript/Node.js", "npm"},
	{"tsconfig.json", "TypeScript", ""},
	{"yarn.lock", "", "yarn"},
	{"pnpm-lock.yaml", "", "pnpm"},
	{"Cargo.toml", "Rust", "cargo"},
	{"go.mod", "Go", "go modules"},
	{"pyproject.toml", "Python", "pip/poetry"},
	{"requirements.txt", "Python", "pip"},
	{"Pipfile", "Python", "pipenv"},
	{"pom.xml", "Java", "maven"},
	{"build.gradle", "Java/Kotlin", "gradle"},
	{"build.gradle.kts", "Kotlin", "gradle"},
	{"Gemfile", "Ruby", "bundler"},
	{"composer.json", "PHP", "composer"},
	{"mix.exs", "Elixir", "mix"},
	{"Dockerfile", "Docker", ""},
	{"docker-compose.yml", "Docker Compose", ""},
	{"docker-compose.yaml", "Docker Compose", ""},
}

func detectTechStack(files []ScannedFile) TechStackSummary {
	var sum TechStackSummary
	seenTech := map[string]bool{}
	seenMgr := map[string]bool{}

	for _, f := range files {
		base := path.Base(f.RelPath)
		for _, r := range manifestRules {
			if base != r.file {
				continue
			}
			if r.tech != "" && !seenTech[r.tech] {
				seenTech[r.tech] = true
				sum.Detected = append(sum.Detected, DetectedTech{Name: r.tech, Evidence: f.RelPath})
			}
			if r.manager != "" && !seenMgr[r.manager] {
				seenMgr[r.manager] = true
				sum.PackageManagers = append(sum.PackageManagers, r.manager)
			}
		}
		if strings.HasPrefix(f.RelPath, ".github/workflows/") && !seenTech["GitHub Actions"] {
			seenTech["GitHub Actions"] = true
			sum.Detected = append(sum.Detected, DetectedTech{Name: "GitHub Actions", Evidence: f.RelPath})
		}
	}

	sort.Slice(sum.Detected, func(i, j int) bool { return sum.Detected[i].Name < sum.Detected[j].Name })
	sort.Strings(sum.PackageManagers)
	return sum
}

var entrypointNames = map[string]string{
	"main.go":     "application",
	"main.py":     "application",
	"app.py":      "application",
	"main.rs":     "application",
	"index.js":    "application",
	"index.ts":    "application",
	"server.js":   "application",
	"main.c":      "application",
	"Main.java":   "application",
	"Makefile":    "build",
	"justfile":    "build",
	"Dockerfile":  "container",
	"README.md":   "documentation",
	"package.json": "build",
	"go.mod":      "build",
	"Cargo.toml":  "build",
}

func detectEntrypoints(files []ScannedFile) []DetectedEntrypoint {
	var out []DetectedEntrypoint
	for _, f := range files {
		base := path.Base(f.RelPath)
		if t, ok := entrypointNames[base]; ok {
			out = append(out, DetectedEntrypoint{
				RelPath:     f.RelPath,
				EntryType:   t,
				Description: base + " (" + t + ")",
			})
			continue
		}
		if strings.HasPrefix(f.RelPath, ".github/workflows/") {
			out = append(out, DetectedEntrypoint{RelPath: f.RelPath, EntryType: "ci", Description: "CI workflow"})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		// shallower entries first, then lexicographic
		di, dj := strings.Count(out[i].RelPath, "/"), strings.Count(out[j].RelPath, "/")
		if di != dj {
			return di < dj
		}
		return out[i].RelPath < out[j].RelPath
	})
	return out
}
