package rules

import (
	"path/filepath"
	"strings"
)

// Language represents the detected language of a source file.
type Language int

const (
	LangUnknown Language = iota
	LangPython
	LangJavaScript
	LangJava
	LangCpp
	LangGo
	LangRust
	LangRuby
	LangPHP
)

func (l Language) String() string {
	switch l {
	case LangPython:
		return "python"
	case LangJavaScript:
		return "javascript"
	case LangJava:
		return "java"
	case LangCpp:
		return "cpp"
	case LangGo:
		return "go"
	case LangRust:
		return "rust"
	case LangRuby:
		return "ruby"
	case LangPHP:
		return "php"
	default:
		return "unknown"
	}
}

// ParseLanguage converts a language name to a Language. Returns LangUnknown
// if unrecognized.
func ParseLanguage(s string) Language {
	switch strings.ToLower(s) {
	case "python":
		return LangPython
	case "javascript", "typescript":
		return LangJavaScript
	case "java":
		return LangJava
	case "cpp", "c++", "c":
		return LangCpp
	case "go":
		return LangGo
	case "rust":
		return LangRust
	case "ruby":
		return LangRuby
	case "php":
		return LangPHP
	default:
		return LangUnknown
	}
}

// extLang maps file extensions to languages. TypeScript shares the
// JavaScript rule set.
var extLang = map[string]Language{
	".py":   LangPython,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".ts":   LangJavaScript,
	".tsx":  LangJavaScript,
	".java": LangJava,
	".cpp":  LangCpp,
	".cc":   LangCpp,
	".cxx":  LangCpp,
	".h":    LangCpp,
	".hpp":  LangCpp,
	".c":    LangCpp,
	".go":   LangGo,
	".rs":   LangRust,
	".rb":   LangRuby,
	".php":  LangPHP,
}

// DetectLanguage returns the language for a file path based on its
// extension. Unknown extensions yield LangUnknown, never an error.
func DetectLanguage(path string) Language {
	return extLang[strings.ToLower(filepath.Ext(path))]
}

// KnownExtensions returns the set of extensions the catalog understands.
func KnownExtensions() map[string]Language {
	out := make(map[string]Language, len(extLang))
	for ext, l := range extLang {
		out[ext] = l
	}
	return out
}
