// Package format recognizes uploaded files by name and by content.
package format

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Format represents a file format an upload may turn out to be.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// ZIP indicates a ZIP archive, which includes DOCX, XLSX, PPTX and ODT.
	ZIP
	// HTML indicates an HTML document.
	HTML
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case ZIP:
		return "ZIP"
	case HTML:
		return "HTML"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case ZIP:
		return ".zip"
	case HTML:
		return ".html"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	default:
		return ""
	}
}

// magicSearchLen is how far into the data the PDF header may start.
const magicSearchLen = 1024

// NormalizeName returns filename in NFC form, so that visually identical
// names compare equal. Whitespace is part of the name and is kept.
func NormalizeName(filename string) string {
	return norm.NFC.String(filename)
}

// Detect determines file format from filename extension. The name is
// normalized first and the extension compared with Unicode case folding.
func Detect(filename string) Format {
	ext := cases.Fold().String(filepath.Ext(NormalizeName(filename)))
	switch ext {
	case ".pdf":
		return PDF
	case ".zip", ".docx", ".xlsx", ".pptx", ".odt":
		return ZIP
	case ".html", ".htm":
		return HTML
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	default:
		return Unknown
	}
}

// DetectFromMagic checks magic bytes to determine format. A PDF header
// may be preceded by up to a kilobyte of junk, as PDF readers allow.
func DetectFromMagic(data []byte) Format {
	head := data
	if len(head) > magicSearchLen {
		head = head[:magicSearchLen]
	}

	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return ZIP
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return PNG
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG
	case bytes.Contains(head, []byte("%PDF-")):
		return PDF
	case detectHTMLMagic(head):
		return HTML
	}
	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}
