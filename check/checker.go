package check

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/preflight/config"
	"github.com/tsawler/preflight/internal/logging"
	"github.com/tsawler/preflight/model"
)

// Result is the outcome of a run. Issues is never nil.
type Result struct {
	Issues   []model.Issue   `json:"issues"`
	Warnings []model.Warning `json:"warnings,omitempty"`
	Pages    int             `json:"pages"`
}

// Checker runs the passes over documents. A Checker holds no state between
// runs and may be shared by goroutines.
type Checker struct {
	profile  config.Profile
	passes   []Pass
	logger   *slog.Logger
	parallel bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithProfile sets the bounds the passes check against.
func WithProfile(p config.Profile) Option {
	return func(c *Checker) {
		c.profile = p
	}
}

// WithLogger sets the logger. Skipped computations are logged at debug
// level and run summaries at info.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithParallel runs each pass in its own goroutine. The result is the same
// as a sequential run.
func WithParallel(parallel bool) Option {
	return func(c *Checker) {
		c.parallel = parallel
	}
}

// WithPasses replaces the default passes.
func WithPasses(passes ...Pass) Option {
	return func(c *Checker) {
		c.passes = passes
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
	if c.passes == nil {
		c.passes = Passes(c.profile)
	}
	return c
}

// Profile returns the profile the checker was built with
func (c *Checker) Profile() config.Profile {
	return c.profile
}

// Run checks every page of doc.
func (c *Checker) Run(doc *model.Document) Result {
	result, _ := c.RunContext(context.Background(), doc)
	return result
}

// RunContext checks every page of doc, stopping early if ctx is cancelled.
func (c *Checker) RunContext(ctx context.Context, doc *model.Document) (Result, error) {
	start := time.Now()
	findings := make([]Findings, len(c.passes))

	if c.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, pass := range c.passes {
			i, pass := i, pass
			g.Go(func() error {
				return runPass(gctx, pass, doc, &findings[i])
			})
		}
		if err := g.Wait(); err != nil {
			return Result{Issues: []model.Issue{}}, err
		}
	} else {
		for i, pass := range c.passes {
			if err := runPass(ctx, pass, doc, &findings[i]); err != nil {
				return Result{Issues: []model.Issue{}}, err
			}
		}
	}

	result := Result{Issues: []model.Issue{}, Pages: doc.PageCount()}
	for i, f := range findings {
		result.Issues = append(result.Issues, f.Issues()...)
		result.Warnings = append(result.Warnings, f.Warnings()...)
		for _, w := range f.Warnings() {
			c.logger.Debug("computation skipped",
				"pass", c.passes[i].Name(), "page", w.Page, "code", w.Code, "reason", w.Message)
		}
	}

	c.logger.Info("preflight finished",
		"pages", result.Pages,
		"issues", len(result.Issues),
		"warnings", len(result.Warnings),
		"parallel", c.parallel,
		"duration", time.Since(start))
	return result, nil
}

func runPass(ctx context.Context, pass Pass, doc *model.Document, f *Findings) error {
	if doc == nil {
		return nil
	}
	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pass.Check(page, f)
	}
	return nil
}
