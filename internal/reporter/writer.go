package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/revizor/internal/review"
)

// Formatter renders a report to a writer.
type Formatter interface {
	Format(w io.Writer, r *review.Report) error
}

var formatExt = map[string]string{
	"text":  ".txt",
	"json":  ".json",
	"html":  ".html",
	"sarif": ".sarif",
}

// ByName returns the formatter for a format name.
func ByName(name string, color bool) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(color), nil
	case "json":
		return NewJSONFormatter(), nil
	case "html":
		return NewHTMLFormatter(), nil
	case "sarif":
		return NewSARIFFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json, html or sarif)", name)
	}
}

// WriteFile renders the report into dir under a timestamped name and
// returns the written path. Files on disk never carry ANSI codes.
func WriteFile(r *review.Report, dir, format string) (string, error) {
	ext, ok := formatExt[format]
	if !ok {
		return "", fmt.Errorf("unknown format %q", format)
	}

	f, err := ByName(format, false)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("revizor-%s%s", r.Timestamp.Format("20060102-150405"), ext)
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer out.Close()

	if err := f.Format(out, r); err != nil {
		return "", fmt.Errorf("render %s report: %w", format, err)
	}
	return path, nil
}

// IsTerminal reports whether f is an interactive terminal. Drives color
// and TUI defaults.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
