package reporter

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/revizor/internal/review"
)

func sampleReport() *review.Report {
	agg := review.NewAggregator("/repo")
	agg.AddFile(&review.FileReport{
		Path:     "auth.py",
		Language: "python",
		Metrics:  review.Metrics{Lines: 40, Functions: 3, Complexity: 7},
		Issues: []review.Issue{
			{
				File: "auth.py", Line: 3,
				Category: review.CategorySecurity, Severity: review.SeverityHigh,
				Message: "hardcoded password or credentials", Suggestion: "load secrets from the environment",
				CWE: "CWE-798", Source: review.SourceStatic,
			},
			{
				File: "auth.py", Line: 10,
				Category: review.CategoryQuality, Severity: review.SeverityLow,
				Message: "name x is meaningless", Source: review.SourceAI,
			},
		},
	})
	agg.AddFile(&review.FileReport{Path: "clean.py", Language: "python"})
	agg.AddWarning("model review failed for big.py: model busy")
	return agg.Report()
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(false).Format(&buf, sampleReport()); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"auth.py",
		"HIGH",
		"hardcoded password or credentials",
		"→ load secrets from the environment",
		"[ai]",
		"model review failed for big.py",
		"2 files reviewed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("color disabled but output has ANSI codes")
	}
	// files with no issues are not listed
	if strings.Contains(out, "clean.py") {
		t.Error("issue-free file listed in text output")
	}
}

func TestTextFormatColor(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextFormatter(true).Format(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), colorRed) {
		t.Error("color enabled but no ANSI codes in output")
	}
}

func TestTextFormatNoIssues(t *testing.T) {
	agg := review.NewAggregator("/repo")
	agg.AddFile(&review.FileReport{Path: "a.py", Language: "python"})

	var buf bytes.Buffer
	if err := NewTextFormatter(false).Format(&buf, agg.Report()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no issues found") {
		t.Errorf("missing clean-run message:\n%s", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, sampleReport()); err != nil {
		t.Fatalf("Format: %v", err)
	}

	var decoded review.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.FilesReviewed != 2 || decoded.IssuesFound != 2 {
		t.Errorf("decoded summary = %+v", decoded)
	}
	if decoded.Files[0].Issues[0].Severity != review.SeverityHigh {
		t.Errorf("severity lost: %+v", decoded.Files[0].Issues[0])
	}
}

func TestSARIFFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewSARIFFormatter().Format(&buf, sampleReport()); err != nil {
		t.Fatalf("Format: %v", err)
	}

	var doc sarifReport
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid SARIF JSON: %v", err)
	}
	if doc.Version != "2.1.0" || len(doc.Runs) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	results := doc.Runs[0].Results
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Level != "error" {
		t.Errorf("high severity level = %q, want error", results[0].Level)
	}
	if results[1].Level != "note" {
		t.Errorf("low severity level = %q, want note", results[1].Level)
	}
	loc := results[0].Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "auth.py" || loc.Region == nil || loc.Region.StartLine != 3 {
		t.Errorf("location = %+v", loc)
	}
	if results[0].RuleID != "security/CWE-798" {
		t.Errorf("ruleId = %q", results[0].RuleID)
	}
}

func TestHTMLFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewHTMLFormatter().Format(&buf, sampleReport()); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<!DOCTYPE html>", "auth.py", "hardcoded password", "sev-high"} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestHTMLFormatEscapes(t *testing.T) {
	agg := review.NewAggregator("/repo")
	agg.AddFile(&review.FileReport{
		Path:     "x.js",
		Language: "javascript",
		Issues: []review.Issue{{
			File: "x.js", Line: 1,
			Category: review.CategoryQuality, Severity: review.SeverityLow,
			Message: "<script>alert(1)</script>", Source: review.SourceStatic,
		}},
	})

	var buf bytes.Buffer
	if err := NewHTMLFormatter().Format(&buf, agg.Report()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Error("issue message not escaped in HTML output")
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"text", "json", "html", "sarif"} {
		if _, err := ByName(name, false); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("xml", false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()
	r.Timestamp = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	path, err := WriteFile(r, dir, "json")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !strings.HasSuffix(path, "revizor-20260203-040506.json") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("written report is not valid JSON")
	}

	if _, err := WriteFile(r, dir, "nope"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteFileTextHasNoANSI(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(sampleReport(), dir, "text")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("\033[")) {
		t.Error("file output contains ANSI codes")
	}
}
