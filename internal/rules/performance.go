package rules

import (
	"regexp"

	"github.com/ppiankov/revizor/internal/review"
)

// performanceRules flag common per-language performance anti-patterns.
func performanceRules() []*Rule {
	return []*Rule{
		{
			ID: "perf-py-range-len", Language: LangPython, Category: review.CategoryPerformance, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`for\s+\w+\s+in\s+range\(len\(`),
			Message:    "range(len(...)) iteration",
			Suggestion: "use enumerate()",
		},
		{
			ID: "perf-py-string-concat-loop", Language: LangPython, Category: review.CategoryPerformance, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`\w+\s*\+=\s*["']`),
			Message:    "string concatenation in a loop pattern",
			Suggestion: "collect parts and join once",
		},
		{
			ID: "perf-js-innerhtml", Language: LangJavaScript, Category: review.CategoryPerformance, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`getElementById\([^)]+\)\.innerHTML\s*=`),
			Message:    "innerHTML assignment forces reflow",
			Suggestion: "use textContent where markup is not needed",
		},
		{
			ID: "perf-js-var-loop", Language: LangJavaScript, Category: review.CategoryPerformance, Severity: review.SeverityLow,
			Pattern: regexp.MustCompile(`for\s*\(\s*var\s+\w+\s*=\s*0`),
			Message: "var-scoped loop counter",
		},
		{
			ID: "perf-java-string-concat-loop", Language: LangJava, Category: review.CategoryPerformance, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`String\s+\w+\s*=\s*["'][^"']*["']\s*\+`),
			Message:    "String concatenation chain",
			Suggestion: "use StringBuilder in hot paths",
		},
		{
			ID: "perf-go-string-concat-loop", Language: LangGo, Category: review.CategoryPerformance, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`\w+\s*\+=\s*(\w+|"[^"]*")\s*$`),
			Message:    "repeated string concatenation",
			Suggestion: "use strings.Builder in loops",
		},
		{
			ID: "perf-rust-clone", Language: LangRust, Category: review.CategoryPerformance, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`\.clone\(\)\.`),
			Message:    "clone followed by immediate use",
			Suggestion: "borrow instead of cloning",
		},
	}
}
