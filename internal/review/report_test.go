package review

import (
	"sync"
	"testing"
)

func TestAggregatorSummaryCounts(t *testing.T) {
	agg := NewAggregator("/src")
	agg.AddFile(&FileReport{
		Path:     "a.py",
		Language: "python",
		Issues: []Issue{
			{File: "a.py", Line: 1, Category: CategorySecurity, Severity: SeverityHigh, Message: "hardcoded password", Source: SourceStatic},
			{File: "a.py", Line: 3, Category: CategoryQuality, Severity: SeverityLow, Message: "line too long", Source: SourceStatic},
		},
	})
	agg.AddFile(&FileReport{
		Path:     "b.js",
		Language: "javascript",
		Issues: []Issue{
			{File: "b.js", Line: 7, Category: CategoryPerformance, Severity: SeverityMedium, Message: "innerHTML in loop", Source: SourceStatic},
		},
	})

	r := agg.Report()

	if r.FilesReviewed != 2 {
		t.Errorf("files_reviewed: got %d, want 2", r.FilesReviewed)
	}
	if r.IssuesFound != 3 {
		t.Errorf("issues_found: got %d, want 3", r.IssuesFound)
	}
	if r.SecurityIssues != 1 || r.QualityIssues != 1 || r.PerformanceIssues != 1 {
		t.Errorf("category counts: got sec=%d qual=%d perf=%d",
			r.SecurityIssues, r.QualityIssues, r.PerformanceIssues)
	}

	// summary counts must equal the per-file sums
	total := 0
	for _, fr := range r.Files {
		total += len(fr.Issues)
	}
	if total != r.IssuesFound {
		t.Errorf("summary/file mismatch: summary=%d files=%d", r.IssuesFound, total)
	}
	if r.SeverityBreakdown["high"] != 1 || r.SeverityBreakdown["low"] != 1 || r.SeverityBreakdown["medium"] != 1 {
		t.Errorf("severity breakdown wrong: %v", r.SeverityBreakdown)
	}
}

func TestAggregatorDedupe(t *testing.T) {
	agg := NewAggregator("/src")
	agg.AddFile(&FileReport{
		Path: "a.go",
		Issues: []Issue{
			{File: "a.go", Line: 5, Category: CategoryQuality, Severity: SeverityMedium, Message: "avoid panic", Source: SourceStatic},
		},
	})
	// same (line, message) from the AI pass must be dropped
	agg.AddIssues("a.go", []Issue{
		{File: "a.go", Line: 5, Category: CategoryQuality, Severity: SeverityMedium, Message: "avoid panic", Source: SourceAI},
		{File: "a.go", Line: 9, Category: CategoryQuality, Severity: SeverityLow, Message: "missing doc comment", Source: SourceAI},
	})

	r := agg.Report()
	if r.IssuesFound != 2 {
		t.Errorf("expected 2 issues after dedupe, got %d", r.IssuesFound)
	}
}

func TestAggregatorIgnoresUnknownPath(t *testing.T) {
	agg := NewAggregator("/src")
	agg.AddIssues("ghost.py", []Issue{{File: "ghost.py", Message: "x"}})
	if r := agg.Report(); r.FilesReviewed != 0 || r.IssuesFound != 0 {
		t.Errorf("expected empty report, got files=%d issues=%d", r.FilesReviewed, r.IssuesFound)
	}
}

func TestAggregatorConcurrentWrites(t *testing.T) {
	agg := NewAggregator("/src")
	agg.AddFile(&FileReport{Path: "a.py"})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			agg.AddIssues("a.py", []Issue{
				{File: "a.py", Line: n, Category: CategoryQuality, Severity: SeverityLow, Message: "msg", Source: SourceAI},
			})
			agg.AddWarning("w")
		}(i)
	}
	wg.Wait()

	r := agg.Report()
	if r.IssuesFound != 16 {
		t.Errorf("expected 16 issues, got %d", r.IssuesFound)
	}
	if len(r.Warnings) != 16 {
		t.Errorf("expected 16 warnings, got %d", len(r.Warnings))
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{
		"critical": SeverityCritical,
		"HIGH":     SeverityHigh,
		"Medium":   SeverityMedium,
		"low":      SeverityLow,
		"bogus":    0,
	}
	for in, want := range cases {
		if got := ParseSeverity(in); got != want {
			t.Errorf("ParseSeverity(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	data, err := SeverityHigh.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"high"` {
		t.Errorf("marshal: got %s", data)
	}
	var s Severity
	if err := s.UnmarshalJSON([]byte(`"critical"`)); err != nil {
		t.Fatal(err)
	}
	if s != SeverityCritical {
		t.Errorf("unmarshal: got %v", s)
	}
	if err := s.UnmarshalJSON([]byte(`"weird"`)); err != nil {
		t.Fatal(err)
	}
	if s != SeverityMedium {
		t.Errorf("unknown label should map to medium, got %v", s)
	}
}
