// Package redact replaces secret material with stable placeholders before
// any content leaves the process.
package redact

import (
	"fmt"
	"strings"
	"sync"

	"github.com/repoaudit/repoaudit/internal/types"
)

// placeholderPrefix marks substituted values in redacted content.
const placeholderPrefix = "REDACTED_"

// Engine applies the configured secret patterns and tracks per-kind
// placeholder ordinals. One Engine is created per scan run; counters are
// never shared across runs.
type Engine struct {
	patterns []pattern

	mu       sync.Mutex
	ordinals map[SecretKind]int
	byType   map[string]int
	total    int
}

// NewEngine compiles the pattern set. A compile failure is returned as
// *ErrBadPattern and must abort the run.
func NewEngine() (*Engine, error) {
	pats, err := compilePatterns()
	if err != nil {
		return nil, err
	}
	return &Engine{
		patterns: pats,
		ordinals: make(map[SecretKind]int),
		byType:   make(map[string]int),
	}, nil
}

// Redact replaces every non-overlapping secret match in content with a
// placeholder of the form REDACTED_<KIND>_<n> and returns the number of
// replacements made. A match overlapping an existing placeholder is left
// alone, so the broad context patterns cannot re-match the substitution of
// an earlier pattern and redaction is idempotent.
func (e *Engine) Redact(content string) (string, int) {
	replaced := 0
	for _, p := range e.patterns {
		content = p.re.ReplaceAllStringFunc(content, func(m string) string {
			if strings.Contains(m, placeholderPrefix) {
				return m
			}
			if p.verify != nil && !p.verify(m) {
				return m
			}
			replaced++
			return e.placeholder(p.kind)
		})
	}
	return content, replaced
}

func (e *Engine) placeholder(kind SecretKind) string {
	e.mu.Lock()
	e.ordinals[kind]++
	n := e.ordinals[kind]
	e.byType[string(kind)]++
	e.total++
	e.mu.Unlock()
	return fmt.Sprintf("%s%s_%d", placeholderPrefix, kind, n)
}

// Summary returns the redaction counts accumulated so far. It carries
// counts only, never the matched values.
func (e *Engine) Summary() types.RedactionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	byType := make(map[string]int, len(e.byType))
	for k, v := range e.byType {
		byType[k] = v
	}
	return types.RedactionSummary{TotalRedactions: e.total, ByType: byType}
}
