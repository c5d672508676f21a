// Package report renders preflight results as plain text, JSON or an HTML
// result page.
package report

import (
	"github.com/tsawler/preflight/model"
)

// Summary is everything a report shows about one checked file
type Summary struct {
	Name     string          `json:"file"`
	Pages    int             `json:"pages"`
	Issues   []model.Issue   `json:"issues"`
	Warnings []model.Warning `json:"warnings,omitempty"`
}

// NoIssues is shown when a document passes every check
const NoIssues = "No print-readiness issues found."
