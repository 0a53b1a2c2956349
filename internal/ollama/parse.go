package ollama

import (
	"encoding/json"
	"strings"

	"github.com/ppiankov/revizor/internal/review"
)

// rawIssue is the shape the prompts ask the model for. Everything is
// optional because models drift from instructions.
type rawIssue struct {
	Line       int    `json:"line"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// ParseIssues converts a model response into issues for one file. Models do
// not always return clean JSON, so the parser tries the strict form first,
// then an object wrapper, then a bracketed substring. A response that yields
// nothing parseable becomes a single low-severity note carrying the text, so
// the finding is not silently lost.
func ParseIssues(raw, file string, category review.Category) []review.Issue {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}

	if items, ok := decodeArray(raw); ok {
		return convert(items, file, category)
	}

	var wrapper struct {
		Issues []rawIssue `json:"issues"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err == nil && wrapper.Issues != nil {
		return convert(wrapper.Issues, file, category)
	}

	// models often wrap JSON in prose or markdown fences
	if start, end := strings.Index(raw, "["), strings.LastIndex(raw, "]"); start >= 0 && end > start {
		if items, ok := decodeArray(raw[start : end+1]); ok {
			return convert(items, file, category)
		}
	}

	note := raw
	if len(note) > 200 {
		note = note[:200] + "..."
	}
	return []review.Issue{{
		File:     file,
		Category: category,
		Severity: review.SeverityLow,
		Message:  "model review (unstructured): " + note,
		Source:   review.SourceAI,
	}}
}

func decodeArray(s string) ([]rawIssue, bool) {
	var items []rawIssue
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, false
	}
	return items, true
}

func convert(items []rawIssue, file string, category review.Category) []review.Issue {
	issues := make([]review.Issue, 0, len(items))
	for _, it := range items {
		msg := strings.TrimSpace(it.Message)
		if msg == "" {
			continue
		}
		sev := review.ParseSeverity(it.Severity)
		if sev == 0 {
			sev = review.SeverityMedium
		}
		line := it.Line
		if line < 0 {
			line = 0
		}
		issues = append(issues, review.Issue{
			File:       file,
			Line:       line,
			Category:   category,
			Severity:   sev,
			Message:    msg,
			Suggestion: strings.TrimSpace(it.Suggestion),
			Source:     review.SourceAI,
		})
	}
	return issues
}
