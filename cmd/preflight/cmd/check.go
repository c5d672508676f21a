package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/preflight"
	"github.com/tsawler/preflight/config"
	"github.com/tsawler/preflight/report"
)

const defaultWidth = 80

// checkOptions holds the flags of the check command.
type checkOptions struct {
	profileFile string
	paper       string
	format      string
	output      string
	width       int
	parallel    bool
	strict      bool
}

// renderer writes one report entry per input file.
type renderer struct {
	ok   func(w io.Writer, s report.Summary) error
	fail func(w io.Writer, name string, err error) error
}

func newCheckCmd(g *globals) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [flags] FILE...",
		Short: "Check PDF files for print-readiness issues",
		Long: `Check one or more PDF files and report every print-readiness issue.

Use "-" to read a document from stdin. The exit status is 0 when no file
has issues, 1 when at least one file has issues and 2 when a file could
not be read or is not a valid PDF.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, g, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.profileFile, "profile", "", "YAML profile file")
	cmd.Flags().StringVar(&opts.paper, "paper", "", "Paper preset ("+strings.Join(config.PaperNames(), ", ")+")")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format (text, json, html)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file instead of stdout")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 0, "Wrap text output at this width (0 uses terminal width if available)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Run the checks concurrently")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Apply upload rules: .pdf extension and PDF content")

	return cmd
}

func runCheck(cmd *cobra.Command, g *globals, opts checkOptions, args []string) error {
	profile, err := loadProfile(opts.profileFile, opts.paper)
	if err != nil {
		return &exitError{code: ExitFailed, err: err}
	}

	if opts.format == "html" && len(args) != 1 {
		return &exitError{code: ExitFailed, err: fmt.Errorf("html output takes exactly one file, got %d", len(args))}
	}

	w, closeOut, err := resolveOutput(cmd, opts.output)
	if err != nil {
		return &exitError{code: ExitFailed, err: fmt.Errorf("open output: %w", err)}
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	r, err := newRenderer(opts.format, resolveWidth(opts.width, opts.output))
	if err != nil {
		return &exitError{code: ExitFailed, err: err}
	}

	checker := preflight.New(
		preflight.WithProfile(profile),
		preflight.WithLogger(g.logger),
		preflight.WithParallel(opts.parallel),
	)

	code := ExitOK
	for _, path := range args {
		name, data, err := readInput(cmd, path)
		if err == nil && opts.strict {
			err = preflight.ValidateUpload(name, data)
		}

		var rep *preflight.Report
		if err == nil {
			rep, err = checker.CheckContext(cmd.Context(), data)
		}
		if err != nil {
			g.logger.Error("check failed", "file", name, "error", err)
			if werr := r.fail(w, name, err); werr != nil {
				return &exitError{code: ExitFailed, err: werr}
			}
			code = ExitFailed
			continue
		}

		g.logger.Info("checked", "file", name, "version", rep.Version, "pages", rep.Pages, "issues", len(rep.Issues))
		summary := report.Summary{
			Name:     name,
			Pages:    rep.Pages,
			Issues:   rep.Issues,
			Warnings: rep.Warnings,
		}
		if werr := r.ok(w, summary); werr != nil {
			return &exitError{code: ExitFailed, err: werr}
		}
		if !rep.OK() && code == ExitOK {
			code = ExitIssues
		}
	}

	if code != ExitOK {
		return &exitError{code: code}
	}
	return nil
}

func newRenderer(format string, width int) (renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		return renderer{
			ok: func(w io.Writer, s report.Summary) error {
				return report.Text(w, s, width)
			},
			fail: report.TextError,
		}, nil
	case "json":
		return renderer{ok: report.JSON, fail: report.JSONError}, nil
	case "html":
		return renderer{ok: report.HTML, fail: report.HTMLError}, nil
	default:
		return renderer{}, fmt.Errorf("unknown format %q: expected text, json or html", format)
	}
}

func readInput(cmd *cobra.Command, path string) (string, []byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return "<stdin>", data, err
	}
	data, err := os.ReadFile(path)
	return path, data, err
}

func resolveOutput(cmd *cobra.Command, path string) (io.Writer, io.Closer, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// resolveWidth picks the wrap width: the flag, else the terminal when
// writing to stdout, else no wrapping.
func resolveWidth(width int, output string) int {
	if width > 0 {
		return width
	}
	if output != "" && output != "-" {
		return 0
	}
	return terminalWidth(defaultWidth)
}
