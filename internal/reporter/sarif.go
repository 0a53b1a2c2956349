package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ppiankov/revizor/internal/review"
)

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name string `json:"name"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// SARIFFormatter writes a SARIF v2.1.0 report, one result per issue.
type SARIFFormatter struct{}

func NewSARIFFormatter() *SARIFFormatter { return &SARIFFormatter{} }

func (f *SARIFFormatter) Format(w io.Writer, r *review.Report) error {
	var results []sarifResult

	for _, fr := range r.Files {
		for _, is := range fr.Issues {
			sr := sarifResult{
				RuleID:  ruleID(is),
				Level:   sarifLevel(is.Severity),
				Message: sarifMessage{Text: is.Message},
			}
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: fr.Path},
				},
			}
			if is.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: is.Line}
			}
			sr.Locations = []sarifLocation{loc}
			results = append(results, sr)
		}
	}

	sarif := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "revizor"}},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarif)
}

func ruleID(is review.Issue) string {
	if is.CWE != "" {
		return fmt.Sprintf("%s/%s", is.Category, is.CWE)
	}
	return fmt.Sprintf("%s/%s", is.Category, is.Source)
}

func sarifLevel(s review.Severity) string {
	switch s {
	case review.SeverityCritical, review.SeverityHigh:
		return "error"
	case review.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
