package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/revizor/internal/rules"
)

// skipDirs are directory names never worth descending into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"venv":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
}

// ErrNotText marks files that are binary or not valid UTF-8.
var ErrNotText = errors.New("file is not valid utf-8 text")

// Options controls file collection.
type Options struct {
	ExcludePatterns []string
}

// File is one reviewable source file found under the scan root.
type File struct {
	Path     string // absolute
	Rel      string // relative to the scan root, used in reports
	Language rules.Language
}

// Collect resolves root to the list of source files to review. Root may be
// a single file or a directory tree. Files are returned in path order.
func Collect(root string, opts Options) ([]File, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	if !info.IsDir() {
		lang := rules.DetectLanguage(abs)
		if lang == rules.LangUnknown {
			// unsupported extension is not an error, there is just nothing
			// to review
			slog.Debug("unsupported file type", "file", abs)
			return nil, nil
		}
		return []File{{Path: abs, Rel: filepath.Base(abs), Language: lang}}, nil
	}

	var files []File
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == abs {
				return nil
			}
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		lang := rules.DetectLanguage(name)
		if lang == rules.LangUnknown {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			rel = path
		}
		if excluded(rel, name, opts.ExcludePatterns) {
			slog.Debug("excluded file", "file", rel)
			return nil
		}

		files = append(files, File{Path: path, Rel: rel, Language: lang})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", abs, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

func excluded(rel, base string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		// allow dir/ prefixes like "generated/"
		if strings.HasSuffix(p, "/") && strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

// Read loads a file as text. A file that is not valid UTF-8 is rejected
// with ErrNotText so callers can skip it with a warning instead of feeding
// binary noise into the review.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return string(data), nil
}

// Truncate caps content at limit bytes on a line boundary, for building
// model prompts. Zero or negative limit means no cap.
func Truncate(content string, limit int) (string, bool) {
	if limit <= 0 || len(content) <= limit {
		return content, false
	}
	cut := content[:limit]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return cut, true
}
