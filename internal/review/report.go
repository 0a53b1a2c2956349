package review

import (
	"sort"
	"sync"
	"time"

	"github.com/ppiankov/revizor/internal/gitinfo"
)

// Metrics holds per-file size and complexity estimates.
type Metrics struct {
	Lines      int `json:"lines"`
	Functions  int `json:"functions"`
	Complexity int `json:"complexity"`
}

// FileReport holds all issues found in a single file.
type FileReport struct {
	Path     string  `json:"path"`
	Language string  `json:"language"`
	Metrics  Metrics `json:"metrics"`
	Issues   []Issue `json:"issues"`
}

// Report is the aggregated result of a full run across all scanned files.
type Report struct {
	Timestamp         time.Time      `json:"timestamp"`
	Path              string         `json:"path"`
	FilesReviewed     int            `json:"files_reviewed"`
	IssuesFound       int            `json:"issues_found"`
	SecurityIssues    int            `json:"security_issues"`
	QualityIssues     int            `json:"quality_issues"`
	PerformanceIssues int            `json:"performance_issues"`
	SeverityBreakdown map[string]int `json:"severity_breakdown"`
	Warnings          []string       `json:"warnings,omitempty"`
	Git               *gitinfo.Info  `json:"git,omitempty"`
	Files             []*FileReport  `json:"files"`
	Duration          time.Duration  `json:"duration"`
}

// Aggregator collects per-file reports and warnings produced by concurrent
// analyses into a single Report. Safe for concurrent use; each file path owns
// exactly one FileReport.
type Aggregator struct {
	mu       sync.Mutex
	path     string
	started  time.Time
	files    map[string]*FileReport
	warnings []string
}

// NewAggregator creates an aggregator for a run rooted at path.
func NewAggregator(path string) *Aggregator {
	return &Aggregator{
		path:    path,
		started: time.Now(),
		files:   make(map[string]*FileReport),
	}
}

// AddFile registers a file report. Issues already present for the same
// (line, message) pair are dropped.
func (a *Aggregator) AddFile(fr *FileReport) {
	a.mu.Lock()
	defer a.mu.Unlock()
	existing, ok := a.files[fr.Path]
	if !ok {
		fr.Issues = dedupe(nil, fr.Issues)
		a.files[fr.Path] = fr
		return
	}
	existing.Issues = dedupe(existing.Issues, fr.Issues)
}

// AddIssues appends issues to an already-registered file, deduplicating
// exact (line, message) pairs. Issues for unknown paths are ignored.
func (a *Aggregator) AddIssues(path string, issues []Issue) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fr, ok := a.files[path]
	if !ok {
		return
	}
	fr.Issues = dedupe(fr.Issues, issues)
}

// AddWarning records a run-level warning (skipped file, unreachable model).
func (a *Aggregator) AddWarning(msg string) {
	a.mu.Lock()
	a.warnings = append(a.warnings, msg)
	a.mu.Unlock()
}

// Report finalizes and returns the aggregated report. Files are sorted by
// path and issues within a file by line, so output is deterministic
// regardless of completion order.
func (a *Aggregator) Report() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := &Report{
		Timestamp:         a.started,
		Path:              a.path,
		SeverityBreakdown: make(map[string]int),
		Warnings:          a.warnings,
		Duration:          time.Since(a.started),
	}

	paths := make([]string, 0, len(a.files))
	for p := range a.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fr := a.files[p]
		sort.SliceStable(fr.Issues, func(i, j int) bool {
			if fr.Issues[i].Line != fr.Issues[j].Line {
				return fr.Issues[i].Line < fr.Issues[j].Line
			}
			return fr.Issues[i].Severity < fr.Issues[j].Severity
		})
		r.Files = append(r.Files, fr)
		r.FilesReviewed++
		for _, is := range fr.Issues {
			r.IssuesFound++
			r.SeverityBreakdown[is.Severity.String()]++
			switch is.Category {
			case CategorySecurity:
				r.SecurityIssues++
			case CategoryPerformance:
				r.PerformanceIssues++
			default:
				r.QualityIssues++
			}
		}
	}

	return r
}

// dedupe appends src issues to dst, skipping exact (line, message) pairs
// already present in either slice.
func dedupe(dst, src []Issue) []Issue {
	type key struct {
		line int
		msg  string
	}
	seen := make(map[key]struct{}, len(dst))
	for _, is := range dst {
		seen[key{is.Line, is.Message}] = struct{}{}
	}
	for _, is := range src {
		k := key{is.Line, is.Message}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		dst = append(dst, is)
	}
	return dst
}
