package rules

import (
	"regexp"

	"github.com/ppiankov/revizor/internal/review"
)

// Rule maps a compiled expression to an issue descriptor. Category and
// severity are static properties of the rule, assigned here and never
// inferred at scan time.
type Rule struct {
	ID         string
	Language   Language // LangUnknown = applies to every language
	Category   review.Category
	Severity   review.Severity
	Pattern    *regexp.Regexp
	Message    string
	Suggestion string
	CWE        string
}

// Options controls which rule groups are active and the metric thresholds.
type Options struct {
	SecurityChecks bool
	SecretChecks   bool

	MaxLineLength       int
	MaxFileLines        int
	MaxFunctionLines    int
	ComplexityThreshold int
}

// DefaultOptions returns thresholds matching the shipped defaults.
func DefaultOptions() Options {
	return Options{
		SecurityChecks:      true,
		SecretChecks:        true,
		MaxLineLength:       120,
		MaxFileLines:        500,
		MaxFunctionLines:    50,
		ComplexityThreshold: 10,
	}
}

// Catalog holds the loaded rule tables, indexed by language. Read-only for
// the lifetime of the process.
type Catalog struct {
	opts    Options
	byLang  map[Language][]*Rule
	generic []*Rule
}

// NewCatalog compiles the rule tables once at startup.
func NewCatalog(opts Options) *Catalog {
	c := &Catalog{
		opts:   opts,
		byLang: make(map[Language][]*Rule),
	}

	c.add(qualityRules()...)
	c.add(performanceRules()...)
	if opts.SecurityChecks {
		c.add(securityRules()...)
		if opts.SecretChecks {
			c.add(secretRules()...)
		}
	}

	return c
}

func (c *Catalog) add(rules ...*Rule) {
	for _, r := range rules {
		if r.Language == LangUnknown {
			c.generic = append(c.generic, r)
			continue
		}
		c.byLang[r.Language] = append(c.byLang[r.Language], r)
	}
}

// Rules returns every rule that applies to the given language, including
// the language-agnostic set. An unsupported language gets only the generic
// rules; it is not an error.
func (c *Catalog) Rules(lang Language) []*Rule {
	rules := make([]*Rule, 0, len(c.generic)+len(c.byLang[lang]))
	rules = append(rules, c.byLang[lang]...)
	rules = append(rules, c.generic...)
	return rules
}

// MatchLine runs every applicable rule against one line of text and returns
// the matching issues. Line numbers are 1-based.
func (c *Catalog) MatchLine(lang Language, path string, lineNo int, line string) []review.Issue {
	var issues []review.Issue
	for _, r := range c.Rules(lang) {
		if !r.Pattern.MatchString(line) {
			continue
		}
		issues = append(issues, review.Issue{
			File:       path,
			Line:       lineNo,
			Category:   r.Category,
			Severity:   r.Severity,
			Message:    r.Message,
			Suggestion: r.Suggestion,
			CWE:        r.CWE,
			Source:     review.SourceStatic,
		})
	}
	return issues
}

// Scan applies the catalog line by line and adds metric threshold issues.
// The result for an unmodified file and catalog is deterministic.
func (c *Catalog) Scan(lang Language, path, content string) ([]review.Issue, review.Metrics) {
	var issues []review.Issue

	lines := splitLines(content)
	for i, line := range lines {
		issues = append(issues, c.MatchLine(lang, path, i+1, line)...)

		if c.opts.MaxLineLength > 0 && len(line) > c.opts.MaxLineLength {
			issues = append(issues, review.Issue{
				File:     path,
				Line:     i + 1,
				Category: review.CategoryQuality,
				Severity: review.SeverityLow,
				Message:  "line is too long",
				Source:   review.SourceStatic,
			})
		}
	}

	m := Measure(lang, content)
	issues = append(issues, c.metricIssues(path, m)...)

	return issues, m
}

func (c *Catalog) metricIssues(path string, m review.Metrics) []review.Issue {
	var issues []review.Issue
	if c.opts.MaxFileLines > 0 && m.Lines > c.opts.MaxFileLines {
		issues = append(issues, review.Issue{
			File:       path,
			Category:   review.CategoryQuality,
			Severity:   review.SeverityMedium,
			Message:    "file is too long",
			Suggestion: "split into smaller modules",
			Source:     review.SourceStatic,
		})
	}
	if c.opts.ComplexityThreshold > 0 && m.Complexity > c.opts.ComplexityThreshold*maxInt(m.Functions, 1) {
		issues = append(issues, review.Issue{
			File:       path,
			Category:   review.CategoryQuality,
			Severity:   review.SeverityMedium,
			Message:    "estimated complexity is high",
			Suggestion: "simplify branching or extract helpers",
			Source:     review.SourceStatic,
		})
	}
	return issues
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
