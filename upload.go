package preflight

import (
	"github.com/tsawler/preflight/format"
	"github.com/tsawler/preflight/model"
)

// Messages shown to someone whose upload was rejected
const (
	MsgNoFile      = "No file uploaded."
	MsgNoSelection = "No file selected."
	MsgNotPDF      = "Please upload a PDF file."
)

// UploadError is a rejected upload. Message is meant for the end user;
// errors.Is(err, model.ErrInvalidUpload) holds.
type UploadError struct {
	Message string
	Detail  string // Why, for logs; may be empty
}

// Error implements the error interface
func (e *UploadError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + " (" + e.Detail + ")"
}

// Is makes errors.Is(err, model.ErrInvalidUpload) true
func (e *UploadError) Is(target error) bool {
	return target == model.ErrInvalidUpload
}

// ValidateUpload applies the upload rules before a file is checked: the
// name must be non-empty and end in .pdf, compared caselessly after
// Unicode normalization. Whitespace is not trimmed. When head is non-nil it holds the first bytes of
// the file, which must be non-empty and carry a PDF header.
func ValidateUpload(filename string, head []byte) error {
	if format.NormalizeName(filename) == "" {
		return &UploadError{Message: MsgNoSelection}
	}
	if f := format.Detect(filename); f != format.PDF {
		return &UploadError{Message: MsgNotPDF, Detail: "extension is not .pdf"}
	}
	if head == nil {
		return nil
	}
	if len(head) == 0 {
		return &UploadError{Message: MsgNoFile, Detail: "file is empty"}
	}
	if f := format.DetectFromMagic(head); f != format.PDF {
		return &UploadError{Message: MsgNotPDF, Detail: "content looks like " + f.String()}
	}
	return nil
}
