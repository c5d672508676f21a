// Package preflight checks whether a PDF is ready for print.
//
// Basic usage:
//
//	issues, err := preflight.CheckPrintability(data)
//	if err != nil {
//	    // not a readable PDF
//	}
//	for _, issue := range issues {
//	    fmt.Println(issue)
//	}
//
// With options:
//
//	profile, _ := config.Paper("letter")
//	report, err := preflight.New(
//	    preflight.WithProfile(profile),
//	    preflight.WithParallel(true),
//	).CheckFile("brochure.pdf")
//
// Pages are checked for landscape orientation, size outside the margin
// tolerance, out-of-range font sizes, low resolution images and
// transparency groups. Issues are reported pass by pass, and within a pass
// page by page. A document that cannot be parsed yields a
// *model.DocumentParseError and no issues.
//
// For advanced use cases, the lower-level reader and check packages are
// also available.
package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/preflight/check"
	"github.com/tsawler/preflight/config"
	"github.com/tsawler/preflight/internal/logging"
	"github.com/tsawler/preflight/model"
	"github.com/tsawler/preflight/reader"
)

// Report is the outcome of checking one document.
type Report struct {
	Version  string          // PDF version, e.g. "1.7"
	Pages    int             // Number of pages checked
	Issues   []model.Issue   // Never nil
	Warnings []model.Warning // Computations skipped on damaged pages
}

// OK reports whether the document has no issues
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// Messages returns the issue messages in report order
func (r *Report) Messages() []string {
	return model.Messages(r.Issues)
}

// Checker checks documents against a profile. It holds no per-document
// state and may be reused and shared.
type Checker struct {
	profile  config.Profile
	logger   *slog.Logger
	parallel bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithProfile sets the paper size and tolerances.
func WithProfile(p config.Profile) Option {
	return func(c *Checker) {
		c.profile = p
	}
}

// WithLogger sets the logger used for run summaries and skipped checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithParallel runs the passes concurrently. Output is unchanged.
func WithParallel(parallel bool) Option {
	return func(c *Checker) {
		c.parallel = parallel
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		profile: config.Default(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckPrintability parses pdf and returns its print-readiness issues in
// (pass, page) order.
func CheckPrintability(pdf []byte, opts ...Option) ([]model.Issue, error) {
	report, err := New(opts...).Check(pdf)
	if err != nil {
		return nil, err
	}
	return report.Issues, nil
}

// Check parses pdf and runs every pass over it.
func (c *Checker) Check(pdf []byte) (*Report, error) {
	return c.CheckContext(context.Background(), pdf)
}

// CheckFile reads and checks a PDF file.
func (c *Checker) CheckFile(filename string) (*Report, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return c.Check(data)
}

// CheckContext is Check with cancellation between pages.
func (c *Checker) CheckContext(ctx context.Context, pdf []byte) (*Report, error) {
	doc, err := Parse(pdf)
	if err != nil {
		c.logger.Warn("document rejected", "error", err)
		return nil, err
	}

	result, err := check.New(
		check.WithProfile(c.profile),
		check.WithLogger(c.logger),
		check.WithParallel(c.parallel),
	).RunContext(ctx, doc)
	if err != nil {
		return nil, err
	}

	return &Report{
		Version:  doc.Version,
		Pages:    result.Pages,
		Issues:   result.Issues,
		Warnings: result.Warnings,
	}, nil
}

// Parse builds the page model of pdf. Every failure is a
// *model.DocumentParseError.
func Parse(pdf []byte) (*model.Document, error) {
	r, err := reader.NewReader(pdf)
	if err != nil {
		return nil, model.NewDocumentParseError(err)
	}
	doc, err := r.Document()
	if err != nil {
		return nil, model.NewDocumentParseError(err)
	}
	return doc, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	issues := preflight.Must(preflight.CheckPrintability(data))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
