package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/revizor/internal/review"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

// TextFormatter writes human-readable review output.
type TextFormatter struct {
	color bool
}

// NewTextFormatter creates a text formatter with optional ANSI color.
func NewTextFormatter(color bool) *TextFormatter {
	return &TextFormatter{color: color}
}

func (f *TextFormatter) Format(w io.Writer, r *review.Report) error {
	fmt.Fprintf(w, "%srevizor review%s — %s: %d files, %d issues\n\n",
		f.c(colorBold), f.c(colorReset), r.Path, r.FilesReviewed, r.IssuesFound)

	for _, fr := range r.Files {
		if len(fr.Issues) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s%s%s (%s, %d lines, %d issues)\n",
			f.c(colorBold), fr.Path, f.c(colorReset),
			fr.Language, fr.Metrics.Lines, len(fr.Issues))

		for _, is := range fr.Issues {
			loc := "   -"
			if is.Line > 0 {
				loc = fmt.Sprintf("%4d", is.Line)
			}
			fmt.Fprintf(w, "  %s %s  %-11s %s", f.severityLabel(is.Severity), loc, is.Category, is.Message)
			if is.Source == review.SourceAI {
				fmt.Fprintf(w, " %s[ai]%s", f.c(colorCyan), f.c(colorReset))
			}
			fmt.Fprintln(w)
			if is.Suggestion != "" {
				fmt.Fprintf(w, "             %s→ %s%s\n", f.c(colorDim), is.Suggestion, f.c(colorReset))
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "%sWarnings:%s\n", f.c(colorYellow), f.c(colorReset))
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d files reviewed in %s", r.FilesReviewed, r.Duration.Truncate(time.Millisecond))
	parts := f.severityParts(r)
	if len(parts) > 0 {
		fmt.Fprintf(w, ", %s", strings.Join(parts, ", "))
	}
	if r.IssuesFound == 0 {
		fmt.Fprintf(w, ", %sno issues found%s", f.c(colorGreen), f.c(colorReset))
	}
	fmt.Fprintln(w)

	return nil
}

func (f *TextFormatter) severityParts(r *review.Report) []string {
	var parts []string
	if n := r.SeverityBreakdown["critical"]; n > 0 {
		parts = append(parts, fmt.Sprintf("%s%d critical%s", f.c(colorRed), n, f.c(colorReset)))
	}
	if n := r.SeverityBreakdown["high"]; n > 0 {
		parts = append(parts, fmt.Sprintf("%s%d high%s", f.c(colorRed), n, f.c(colorReset)))
	}
	if n := r.SeverityBreakdown["medium"]; n > 0 {
		parts = append(parts, fmt.Sprintf("%s%d medium%s", f.c(colorYellow), n, f.c(colorReset)))
	}
	if n := r.SeverityBreakdown["low"]; n > 0 {
		parts = append(parts, fmt.Sprintf("%s%d low%s", f.c(colorDim), n, f.c(colorReset)))
	}
	return parts
}

func (f *TextFormatter) c(code string) string {
	if !f.color {
		return ""
	}
	return code
}

func (f *TextFormatter) severityLabel(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return fmt.Sprintf("%sCRITICAL%s", f.c(colorRed), f.c(colorReset))
	case review.SeverityHigh:
		return fmt.Sprintf("%sHIGH    %s", f.c(colorRed), f.c(colorReset))
	case review.SeverityMedium:
		return fmt.Sprintf("%sMEDIUM  %s", f.c(colorYellow), f.c(colorReset))
	case review.SeverityLow:
		return fmt.Sprintf("%slow     %s", f.c(colorDim), f.c(colorReset))
	default:
		return "unknown "
	}
}
