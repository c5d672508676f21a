package check

import (
	"github.com/tsawler/preflight/model"
)

// Findings accumulates the issues and warnings of one pass. Each pass task
// owns its Findings; they are merged after all passes finish.
type Findings struct {
	issues   []model.Issue
	warnings []model.Warning
}

// Add records an issue
func (f *Findings) Add(issue model.Issue) {
	f.issues = append(f.issues, issue)
}

// Warn records a skipped computation on a page
func (f *Findings) Warn(page int, code string, err error) {
	f.warnings = append(f.warnings, model.Warning{Page: page, Code: code, Message: err.Error()})
}

// Issues returns the recorded issues in order
func (f *Findings) Issues() []model.Issue {
	return f.issues
}

// Warnings returns the recorded warnings in order
func (f *Findings) Warnings() []model.Warning {
	return f.warnings
}
