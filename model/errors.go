package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentParse matches any *DocumentParseError via errors.Is.
	ErrDocumentParse = errors.New("document is not a valid PDF")

	// ErrPageContentDecode marks a page whose content stream could not be
	// decoded. Font size checking is skipped for that page.
	ErrPageContentDecode = errors.New("page content stream cannot be decoded")

	// ErrMalformedGeometry marks a page whose media box, or bleed-adjusted
	// printable area, is missing, zero or negative.
	ErrMalformedGeometry = errors.New("page geometry is malformed")

	// ErrPageResources marks a page whose /Resources or XObjects could not
	// be read. Image and transparency checking see only what was readable.
	ErrPageResources = errors.New("page resources cannot be read")

	// ErrInvalidUpload marks a rejected upload (bad filename or content).
	ErrInvalidUpload = errors.New("invalid upload")
)

// DocumentParseError reports that the input is not a structurally valid PDF.
// It is fatal to a preflight run: no partial issue list is produced.
type DocumentParseError struct {
	Cause error
}

// NewDocumentParseError wraps cause, unless it already is a parse error.
func NewDocumentParseError(cause error) error {
	var pe *DocumentParseError
	if errors.As(cause, &pe) {
		return cause
	}
	return &DocumentParseError{Cause: cause}
}

// Error implements the error interface
func (e *DocumentParseError) Error() string {
	if e.Cause == nil {
		return ErrDocumentParse.Error()
	}
	return fmt.Sprintf("%s: %v", ErrDocumentParse.Error(), e.Cause)
}

// Unwrap returns the underlying cause
func (e *DocumentParseError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrDocumentParse) true for every parse error
func (e *DocumentParseError) Is(target error) bool {
	return target == ErrDocumentParse
}
