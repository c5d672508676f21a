package report

import (
	"encoding/json"
	"io"

	"github.com/tsawler/preflight/model"
)

// JSON writes the summary as an indented JSON object. Issues is always an
// array, never null.
func JSON(w io.Writer, s Summary) error {
	if s.Issues == nil {
		s.Issues = []model.Issue{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// JSONError writes a parse failure as {"file": ..., "error": ...}.
func JSONError(w io.Writer, name string, err error) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Name  string `json:"file"`
		Error string `json:"error"`
	}{name, err.Error()})
}
