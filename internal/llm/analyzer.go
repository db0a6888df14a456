package llm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/repoaudit/repoaudit/internal/bundle"
	"github.com/repoaudit/repoaudit/internal/types"
)

// Completer is the transport seam; *Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Analyzer drives one LLM analysis pass: prompt, completion with retry,
// defensive parse.
type Analyzer struct {
	client Completer
	retry  *RetryHandler
	log    zerolog.Logger
}

// NewAnalyzer wires a completer and retry policy together.
func NewAnalyzer(client Completer, retry *RetryHandler, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		client: client,
		retry:  retry,
		log:    log.With().Str("component", "LlmAnalyzer").Logger(),
	}
}

// Analyze sends the evidence bundle and parses the model's response.
// Transient transport failures are retried; a response that yields no
// balanced JSON object fails Unparseable without retry. Any error here
// leaves the scan partial, never aborted.
func (a *Analyzer) Analyze(ctx context.Context, b *bundle.EvidenceBundle) (*types.AnalysisResult, error) {
	prompt := BuildPrompt(b)

	var raw string
	err := a.retry.Do(ctx, func(ctx context.Context) error {
		var cerr error
		raw, cerr = a.client.Complete(ctx, systemPrompt, prompt)
		return cerr
	})
	if err != nil {
		return nil, err
	}

	res, err := ParseAnalysis(raw)
	if err != nil {
		return nil, err
	}
	if b.Truncated {
		res.IsPartial = true
	}
	a.log.Info().
		Int("findings", len(res.Findings)).
		Int("todos", len(res.Todos)).
		Bool("partial", res.IsPartial).
		Msg("llm analysis complete")
	return res, nil
}
