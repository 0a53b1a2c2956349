package review

import "testing"

func TestFilterMinSeverity(t *testing.T) {
	agg := NewAggregator(".")
	agg.AddFile(&FileReport{
		Path:     "a.py",
		Language: "python",
		Issues: []Issue{
			{File: "a.py", Line: 1, Category: CategorySecurity, Severity: SeverityCritical, Message: "hardcoded secret", Source: SourceStatic},
			{File: "a.py", Line: 2, Category: CategoryQuality, Severity: SeverityLow, Message: "long line", Source: SourceStatic},
			{File: "a.py", Line: 3, Category: CategoryPerformance, Severity: SeverityMedium, Message: "string concat in loop", Source: SourceStatic},
		},
	})
	r := agg.Report()

	filtered := FilterMinSeverity(r, SeverityMedium)
	if filtered.IssuesFound != 2 {
		t.Fatalf("IssuesFound = %d, want 2", filtered.IssuesFound)
	}
	if filtered.SecurityIssues != 1 || filtered.PerformanceIssues != 1 || filtered.QualityIssues != 0 {
		t.Fatalf("category counts = %d/%d/%d", filtered.SecurityIssues, filtered.PerformanceIssues, filtered.QualityIssues)
	}
	if filtered.SeverityBreakdown["low"] != 0 {
		t.Fatalf("low issues should be filtered out")
	}
	if len(filtered.Files) != 1 || len(filtered.Files[0].Issues) != 2 {
		t.Fatalf("file issues = %+v", filtered.Files)
	}

	// Original report untouched.
	if r.IssuesFound != 3 {
		t.Fatalf("source report mutated: %d", r.IssuesFound)
	}
}

func TestFilterMinSeverityKeepsFileCount(t *testing.T) {
	agg := NewAggregator(".")
	agg.AddFile(&FileReport{
		Path:     "b.py",
		Language: "python",
		Issues: []Issue{
			{File: "b.py", Line: 1, Category: CategoryQuality, Severity: SeverityLow, Message: "long line", Source: SourceStatic},
		},
	})
	r := agg.Report()

	filtered := FilterMinSeverity(r, SeverityCritical)
	if filtered.FilesReviewed != 1 || len(filtered.Files) != 1 {
		t.Fatalf("files should survive filtering: %d", filtered.FilesReviewed)
	}
	if filtered.IssuesFound != 0 {
		t.Fatalf("IssuesFound = %d, want 0", filtered.IssuesFound)
	}
}
