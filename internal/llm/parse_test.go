package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoaudit/repoaudit/internal/types"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "fenced block preferred",
			in:   "Here is the result:\n```json\n{\"findings\": []}\n```\nthanks",
			want: `{"findings": []}`,
			ok:   true,
		},
		{
			name: "bare object with prose around it",
			in:   `The analysis follows. {"findings": [], "is_partial": false} Hope that helps!`,
			want: `{"findings": [], "is_partial": false}`,
			ok:   true,
		},
		{
			name: "braces inside string literals",
			in:   `{"findings": [{"title": "uses {} and } in text", "severity": "low"}]}`,
			want: `{"findings": [{"title": "uses {} and } in text", "severity": "low"}]}`,
			ok:   true,
		},
		{
			name: "escaped quote inside string",
			in:   `{"title": "say \"hi\" {"}`,
			want: `{"title": "say \"hi\" {"}`,
			ok:   true,
		},
		{
			name: "no object at all",
			in:   "I could not analyze the repository, sorry.",
			ok:   false,
		},
		{
			name: "unbalanced object",
			in:   `{"findings": [`,
			ok:   false,
		},
		{
			name: "prose with stray closing brace before object",
			in:   `} not it {"a": 1}`,
			want: `{"a": 1}`,
			ok:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseAnalysisNormalizesCategories(t *testing.T) {
	raw := `{"findings": [
		{"severity": "HIGH", "category": "security", "title": "a", "confidence": "fact"},
		{"severity": "medium", "category": "weird-stuff", "title": "b", "confidence": "fact"}
	], "is_partial": false}`

	res, err := ParseAnalysis(raw)
	require.NoError(t, err)
	require.Len(t, res.Findings, 2)

	assert.Equal(t, types.CatSecurity, res.Findings[0].Category)
	assert.Equal(t, types.SevHigh, res.Findings[0].Severity)
	assert.Equal(t, types.ConfFact, res.Findings[0].Confidence)
	assert.Equal(t, types.OriginLlm, res.Findings[0].Origin)

	// unmatched category falls back to TechnicalDebt and demotes confidence
	assert.Equal(t, types.CatTechnicalDebt, res.Findings[1].Category)
	assert.Equal(t, types.ConfHypothesis, res.Findings[1].Confidence)
}

func TestParseAnalysisUnparseableNotRetryable(t *testing.T) {
	_, err := ParseAnalysis("no json here")
	var aerr *AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, Unparseable, aerr.Class)
	assert.False(t, aerr.Retryable())
}

func TestParseAnalysisPartialFlag(t *testing.T) {
	res, err := ParseAnalysis(`{"findings": [], "is_partial": true}`)
	require.NoError(t, err)
	assert.True(t, res.IsPartial)
}

func TestParseAnalysisBlockersAndTodos(t *testing.T) {
	raw := "```json\n" + `{
		"findings": [],
		"todos": [{"severity": "high", "category": "Bug", "title": "fix race",
		           "evidence": {"type": "file_function", "file": "a.go", "function": "Run"}}],
		"blockers": [{"description": "tests absent", "reason": "cannot verify behavior"}],
		"is_partial": false
	}` + "\n```"

	res, err := ParseAnalysis(raw)
	require.NoError(t, err)
	require.Len(t, res.Todos, 1)
	assert.Equal(t, types.EvidenceFileFunction, res.Todos[0].Evidence.Type)
	require.Len(t, res.Blockers, 1)
	assert.Equal(t, "tests absent", res.Blockers[0].Description)
}
