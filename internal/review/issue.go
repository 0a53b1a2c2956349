package review

import (
	"encoding/json"
	"strings"
)

// Severity represents the importance level of an issue.
type Severity int

const (
	SeverityCritical Severity = iota + 1
	SeverityHigh
	SeverityMedium
	SeverityLow
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to Severity. Returns 0 if unrecognized.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return 0
	}
}

// MarshalJSON emits the severity name rather than its numeric value.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a severity name. Unknown names become SeverityMedium
// so AI-sourced payloads with odd labels still land somewhere sensible.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if parsed := ParseSeverity(name); parsed != 0 {
		*s = parsed
	} else {
		*s = SeverityMedium
	}
	return nil
}

// Category classifies what kind of problem an issue describes.
type Category string

const (
	CategoryQuality     Category = "quality"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
)

// Issue sources.
const (
	SourceStatic = "static"
	SourceAI     = "ai"
)

// Issue represents a single flagged problem in a file. Immutable once created.
type Issue struct {
	File       string   `json:"file"`
	Line       int      `json:"line,omitempty"`
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	CWE        string   `json:"cwe,omitempty"`
	Source     string   `json:"source"`
}
