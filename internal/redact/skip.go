package redact

import (
	"bytes"
	"path/filepath"
	"strings"
)

// SkipReason values. A skipped file is neither redacted nor forwarded to
// the LLM bundle; local heuristics still see it.
const (
	SkipBinary  = "binary"
	SkipDocFile = "documentation"
	SkipFixture = "fixture"
)

const binarySniffLen = 800

var docExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".rst":      true,
	".adoc":     true,
	".tex":      true,
}

var fixtureMarkers = []string{
	"test", "tests", "spec", "fixture", "fixtures",
	"example", "examples", "mock", "mocks", "sample", "samples",
	"testdata",
}

// SkipReason reports why a file must be excluded from redaction and bundle
// transmission, or empty when the file is eligible.
func SkipReason(path string, content []byte) string {
	if LooksBinary(content) {
		return SkipBinary
	}
	if IsDocFile(path) {
		return SkipDocFile
	}
	if IsFixturePath(path) {
		return SkipFixture
	}
	return ""
}

// LooksBinary sniffs for a NUL byte in the first 800 bytes.
func LooksBinary(content []byte) bool {
	n := len(content)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	return bytes.IndexByte(content[:n], 0) >= 0
}

// IsDocFile reports whether the lower-cased path carries a documentation
// extension.
func IsDocFile(path string) bool {
	return docExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsFixturePath reports whether any path segment, or the file's base name
// stem, is a test/example/fixture marker.
func IsFixturePath(path string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	for _, seg := range strings.Split(lower, "/") {
		stem := strings.TrimSuffix(seg, filepath.Ext(seg))
		for _, m := range fixtureMarkers {
			if seg == m || stem == m ||
				strings.HasSuffix(stem, "_"+m) || strings.HasSuffix(stem, "."+m) ||
				strings.HasPrefix(stem, m+"_") {
				return true
			}
		}
	}
	return false
}
