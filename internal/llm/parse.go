package llm

import (
	"encoding/json"
	"strings"

	"github.com/repoaudit/repoaudit/internal/types"
)

// analysisPayload is the JSON shape the model is instructed to return.
type analysisPayload struct {
	Findings []rawFinding `json:"findings"`
	Todos    []rawTodo    `json:"todos"`
	Blockers []rawBlocker `json:"blockers"`
	Partial  bool         `json:"is_partial"`
}

type rawFinding struct {
	Severity   string       `json:"severity"`
	Category   string       `json:"category"`
	Title      string       `json:"title"`
	Evidence   rawEvidence  `json:"evidence"`
	Impact     string       `json:"impact"`
	Remedy     string       `json:"recommendation"`
	Confidence string       `json:"confidence"`
}

type rawTodo struct {
	Severity    string      `json:"severity"`
	Category    string      `json:"category"`
	Title       string      `json:"title"`
	RootCause   string      `json:"root_cause"`
	Evidence    rawEvidence `json:"evidence"`
	FixApproach string      `json:"fix_approach"`
	Verify      string      `json:"verify"`
}

type rawBlocker struct {
	Description string `json:"description"`
	Reason      string `json:"reason"`
	HowToObtain string `json:"how_to_obtain"`
}

type rawEvidence struct {
	Type     string   `json:"type"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Function string   `json:"function"`
	Snippet  string   `json:"snippet"`
	Steps    []string `json:"steps"`
	Observed string   `json:"observed"`
}

// ExtractJSONObject pulls the first plausible JSON object from model
// output. Fenced ```json blocks are tried first; otherwise a character
// scan tracks string and escape state and returns the outermost balanced
// object. The bool reports success.
func ExtractJSONObject(s string) (string, bool) {
	if fenced, ok := extractFenced(s); ok {
		return fenced, true
	}
	return extractBalanced(s)
}

func extractFenced(s string) (string, bool) {
	for _, marker := range []string{"```json", "```JSON"} {
		start := strings.Index(s, marker)
		if start < 0 {
			continue
		}
		rest := s[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		candidate := strings.TrimSpace(rest[:end])
		if strings.HasPrefix(candidate, "{") {
			return candidate, true
		}
	}
	return "", false
}

func extractBalanced(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escape:
				escape = false
			case c == '\\':
				escape = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseAnalysis decodes raw model output into a normalized AnalysisResult.
// Category and severity text is normalized at this boundary; a category
// that does not match the canonical set maps to TechnicalDebt and demotes
// the finding's confidence to hypothesis. A response with no balanced JSON
// object is Unparseable and must not be retried.
func ParseAnalysis(raw string) (*types.AnalysisResult, error) {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, &AnalysisError{Class: Unparseable, Msg: "no JSON object in model response"}
	}
	var payload analysisPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, &AnalysisError{Class: Unparseable, Msg: "model response is not valid JSON", Err: err}
	}

	res := &types.AnalysisResult{IsPartial: payload.Partial}
	for _, rf := range payload.Findings {
		cat, exact := types.ParseCategory(rf.Category)
		conf := types.ParseConfidence(rf.Confidence)
		if !exact {
			conf = types.ConfHypothesis
		}
		res.Findings = append(res.Findings, types.Finding{
			Severity:   types.ParseSeverity(rf.Severity),
			Category:   cat,
			Title:      rf.Title,
			Evidence:   convertEvidence(rf.Evidence),
			Impact:     rf.Impact,
			Remedy:     rf.Remedy,
			Origin:     types.OriginLlm,
			Confidence: conf,
		})
	}
	for _, rt := range payload.Todos {
		cat, _ := types.ParseCategory(rt.Category)
		res.Todos = append(res.Todos, types.TodoItem{
			Severity:    types.ParseSeverity(rt.Severity),
			Category:    cat,
			Title:       rt.Title,
			RootCause:   rt.RootCause,
			Evidence:    convertEvidence(rt.Evidence),
			FixApproach: rt.FixApproach,
			Verify:      rt.Verify,
		})
	}
	for _, rb := range payload.Blockers {
		res.Blockers = append(res.Blockers, types.Blocker{
			Description: rb.Description,
			Reason:      rb.Reason,
			HowToObtain: rb.HowToObtain,
		})
	}
	return res, nil
}

func convertEvidence(re rawEvidence) types.Evidence {
	ev := types.Evidence{
		File:     re.File,
		Line:     re.Line,
		Function: re.Function,
		Snippet:  re.Snippet,
		Steps:    re.Steps,
		Observed: re.Observed,
	}
	switch strings.ToLower(re.Type) {
	case "file_function":
		ev.Type = types.EvidenceFileFunction
	case "reproduction":
		ev.Type = types.EvidenceReproduction
	default:
		ev.Type = types.EvidenceFileLine
	}
	return ev
}
