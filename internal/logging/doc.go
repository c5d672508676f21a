// Package logging builds the slog logger used by the preflight command.
// Library packages never log on their own; they take a *slog.Logger and
// default to Discard.
package logging
