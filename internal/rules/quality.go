package rules

import (
	"regexp"

	"github.com/ppiankov/revizor/internal/review"
)

// qualityRules are per-language style and maintainability checks plus a few
// generic ones. One entry per anti-pattern; messages stay short because the
// text reporter prints them inline.
func qualityRules() []*Rule {
	return []*Rule{
		// generic
		{
			ID: "trailing-whitespace", Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern: regexp.MustCompile(`[ \t]+$`),
			Message: "trailing whitespace",
		},

		// python
		{
			ID: "py-wildcard-import", Language: LangPython, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`^\s*from\s+\S+\s+import\s+\*`),
			Message:    "wildcard import",
			Suggestion: "import names explicitly",
		},
		{
			ID: "py-bare-except", Language: LangPython, Category: review.CategoryQuality, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`^\s*except\s*:`),
			Message:    "bare except clause",
			Suggestion: "catch a specific exception type",
		},
		{
			ID: "py-print-debug", Language: LangPython, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`^\s*print\s*\(`),
			Message:    "print call in library code",
			Suggestion: "use the logging module",
		},

		// javascript
		{
			ID: "js-var", Language: LangJavaScript, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`\bvar\s+\w+`),
			Message:    "var declaration",
			Suggestion: "use let or const",
		},
		{
			ID: "js-loose-equality", Language: LangJavaScript, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`[^=!<>]==[^=]`),
			Message:    "loose equality comparison",
			Suggestion: "use === / !==",
		},
		{
			ID: "js-console-log", Language: LangJavaScript, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`\bconsole\.log\s*\(`),
			Message:    "console.log left in code",
			Suggestion: "remove or route through a logger",
		},

		// java
		{
			ID: "java-system-out", Language: LangJava, Category: review.CategoryQuality, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`\bSystem\.out\.print`),
			Message:    "System.out usage",
			Suggestion: "use a logging framework",
		},
		{
			ID: "java-catch-exception", Language: LangJava, Category: review.CategoryQuality, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`catch\s*\(\s*Exception\s+\w+\s*\)`),
			Message:    "catching generic Exception",
			Suggestion: "catch the specific exception type",
		},

		// cpp
		{
			ID: "cpp-using-namespace-std", Language: LangCpp, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern: regexp.MustCompile(`using\s+namespace\s+std\s*;`),
			Message: "using namespace std at file scope",
		},
		{
			ID: "cpp-raw-new", Language: LangCpp, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`=\s*new\s+\w+`),
			Message:    "raw new without smart pointer",
			Suggestion: "prefer std::make_unique / std::make_shared",
		},

		// go
		{
			ID: "go-panic", Language: LangGo, Category: review.CategoryQuality, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`\bpanic\s*\(`),
			Message:    "panic in library code",
			Suggestion: "return an error instead",
		},
		{
			ID: "go-fmt-print", Language: LangGo, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern:    regexp.MustCompile(`\bfmt\.Print`),
			Message:    "fmt.Print in library code",
			Suggestion: "use log/slog",
		},

		// rust
		{
			ID: "rust-unwrap", Language: LangRust, Category: review.CategoryQuality, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`\.unwrap\s*\(\s*\)`),
			Message:    "unwrap() can panic",
			Suggestion: "propagate the error with ?",
		},
		{
			ID: "rust-println", Language: LangRust, Category: review.CategoryQuality, Severity: review.SeverityLow,
			Pattern: regexp.MustCompile(`\bprintln!\s*\(`),
			Message: "println! in library code",
		},
	}
}
