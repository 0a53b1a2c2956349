package rules

import (
	"regexp"
	"strings"

	"github.com/ppiankov/revizor/internal/review"
)

var funcDecl = map[Language]*regexp.Regexp{
	LangPython:     regexp.MustCompile(`^\s*def\s+\w+`),
	LangJavaScript: regexp.MustCompile(`(^|\s)function\s*\w*\s*\(|=>\s*\{`),
	LangJava:       regexp.MustCompile(`(public|private|protected|static)[\w\s<>\[\]]*\([^)]*\)\s*\{`),
	LangCpp:        regexp.MustCompile(`^[\w:<>~*&\s]+\([^;]*\)\s*(const\s*)?\{`),
	LangGo:         regexp.MustCompile(`^func\s`),
	LangRust:       regexp.MustCompile(`(^|\s)fn\s+\w+`),
	LangRuby:       regexp.MustCompile(`^\s*def\s+\w+`),
	LangPHP:        regexp.MustCompile(`function\s+\w+\s*\(`),
}

var branchWords = []string{
	"if ", "if(", "else if", "elif ", "for ", "for(", "while ", "while(",
	"case ", "catch ", "catch(", "except ", "&&", "||", " and ", " or ",
}

func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// Measure computes rough per-file metrics. Function and complexity
// counts are heuristic line matches, not a parse.
func Measure(lang Language, content string) review.Metrics {
	lines := splitLines(content)
	m := review.Metrics{Lines: len(lines)}
	decl := funcDecl[lang]
	for _, line := range lines {
		if decl != nil && decl.MatchString(line) {
			m.Functions++
		}
		for _, w := range branchWords {
			m.Complexity += strings.Count(line, w)
		}
	}
	return m
}
