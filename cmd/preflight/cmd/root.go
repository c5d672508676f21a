// Package cmd provides the CLI commands for preflight.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tsawler/preflight/internal/logging"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=v1.2.3".
var Version = "dev"

// Exit codes
const (
	ExitOK     = 0
	ExitIssues = 1
	ExitFailed = 2
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

// NewRootCmd creates the root command for the preflight CLI.
func NewRootCmd() *cobra.Command {
	g := &globals{logger: logging.Discard()}
	defaults := logging.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check PDF files for print readiness",
		Long: `preflight inspects PDF files before they are sent to print.

Every page is checked for landscape orientation, a size outside the
margin tolerance of the target paper, font sizes outside the allowed
range, images below the minimum resolution and transparency groups.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.Setup(logging.Config{Level: g.logLevel, Format: g.logFormat}, cmd.ErrOrStderr())
			if err != nil {
				return &exitError{code: ExitFailed, err: fmt.Errorf("invalid logging flags: %w", err)}
			}
			g.logger = logger
			return nil
		},
	}

	cmd.SetVersionTemplate("preflight version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", defaults.Level, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", defaults.Format, "Log format (auto, text, json)")

	cmd.AddCommand(newCheckCmd(g))
	cmd.AddCommand(newProfileCmd())

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd())
}

func run(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	return ExitFailed
}

// terminalWidth returns the width of stdout when it is a terminal, else
// $COLUMNS, else fallback.
func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return fallback
}
