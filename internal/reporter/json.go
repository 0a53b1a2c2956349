package reporter

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/revizor/internal/review"
)

// JSONFormatter writes the full report as indented JSON.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

func (f *JSONFormatter) Format(w io.Writer, r *review.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
