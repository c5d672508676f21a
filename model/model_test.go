package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
)

// ============================================================================
// Rect Tests
// ============================================================================

func TestRectDimensions(t *testing.T) {
	tests := []struct {
		name          string
		rect          Rect
		width, height float64
		landscape     bool
		valid         bool
	}{
		{"a4 portrait", NewRect(0, 0, 595, 842), 595, 842, false, true},
		{"a4 landscape", NewRect(0, 0, 842, 595), 842, 595, true, true},
		{"offset origin", NewRect(10, 20, 605, 862), 595, 842, false, true},
		{"square", NewRect(0, 0, 500, 500), 500, 500, false, true},
		{"zero width", NewRect(0, 0, 0, 842), 0, 842, false, false},
		{"inverted", NewRect(100, 100, 0, 0), -100, -100, false, false},
		{"nan", NewRect(math.NaN(), 0, 595, 842), math.NaN(), 842, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := tt.rect.Width(); !(w == tt.width || (math.IsNaN(w) && math.IsNaN(tt.width))) {
				t.Errorf("Width() = %v, want %v", w, tt.width)
			}
			if h := tt.rect.Height(); h != tt.height {
				t.Errorf("Height() = %v, want %v", h, tt.height)
			}
			if got := tt.rect.IsLandscape(); got != tt.landscape {
				t.Errorf("IsLandscape() = %v, want %v", got, tt.landscape)
			}
			if got := tt.rect.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestRectFromBox(t *testing.T) {
	r, err := RectFromBox([]float64{0, 0, 595, 842})
	if err != nil {
		t.Fatalf("RectFromBox() error = %v", err)
	}
	if r != NewRect(0, 0, 595, 842) || !r.Valid() {
		t.Errorf("RectFromBox() = %v, want valid [0 0 595 842]", r)
	}

	inverted, err := RectFromBox([]float64{595, 842, 0, 0})
	if err != nil {
		t.Fatalf("RectFromBox() error = %v", err)
	}
	if inverted != NewRect(595, 842, 0, 0) {
		t.Errorf("RectFromBox() = %v, want corners kept as [595 842 0 0]", inverted)
	}
	if inverted.Valid() {
		t.Error("inverted box should not be Valid")
	}

	if _, err := RectFromBox([]float64{0, 0, 595}); err == nil {
		t.Error("expected error for 3-element box")
	}
}

func TestRectString(t *testing.T) {
	if got := NewRect(0, 0, 595.5, 842).String(); got != "[0 0 595.5 842]" {
		t.Errorf("String() = %q", got)
	}
}

// ============================================================================
// Document Tests
// ============================================================================

func TestDocumentAddPage(t *testing.T) {
	doc := NewDocument()
	doc.AddPage(&Page{MediaBox: NewRect(0, 0, 595, 842)})
	doc.AddPage(&Page{MediaBox: NewRect(0, 0, 842, 595)})

	if doc.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", doc.PageCount())
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Errorf("page %d has Number %d", i, p.Number)
		}
	}
	if doc.GetPage(2).Width() != 842 {
		t.Errorf("GetPage(2).Width() = %v, want 842", doc.GetPage(2).Width())
	}
	if doc.GetPage(0) != nil || doc.GetPage(3) != nil {
		t.Error("GetPage out of range should return nil")
	}

	var nilDoc *Document
	if nilDoc.PageCount() != 0 {
		t.Error("nil document should have zero pages")
	}
}

func TestPageXObjectFilters(t *testing.T) {
	p := &Page{XObjects: []XObject{
		NewImage("Im1", 100, 200),
		NewTransparencyGroup("Fm1"),
		NewOther("Fm2"),
		NewImage("Im2", 10, 10),
	}}

	images := p.Images()
	if len(images) != 2 || images[0].Name != "Im1" || images[1].Name != "Im2" {
		t.Errorf("Images() = %+v", images)
	}
	groups := p.TransparencyGroups()
	if len(groups) != 1 || groups[0].Name != "Fm1" {
		t.Errorf("TransparencyGroups() = %+v", groups)
	}

	empty := &Page{}
	if empty.Images() != nil || empty.TransparencyGroups() != nil {
		t.Error("page without resources should have no images or groups")
	}
}

func TestXObjectKindString(t *testing.T) {
	tests := map[XObjectKind]string{
		KindImage:             "Image",
		KindTransparencyGroup: "TransparencyGroup",
		KindOther:             "Other",
		XObjectKind(42):       "Other",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}

// ============================================================================
// Issue Tests
// ============================================================================

func TestIssueMessages(t *testing.T) {
	tests := []struct {
		issue Issue
		kind  IssueKind
		want  string
	}{
		{LandscapeIssue(2), IssueOrientation, "Page 2 has landscape orientation."},
		{MarginIssue(1), IssueMargin, "Page 1 has margin issues. Please adjust margins."},
		{FontSizeIssue(3), IssueFontSize, "Page 3 has font size issues. Please adjust font size."},
		{ImageResolutionIssue(4, 300), IssueImageResolution,
			"Page 4 has image resolution issues. Please use images with at least 300 dpi."},
		{TransparencyIssue(5), IssueTransparency, "Page 5 has transparency issues. Please remove transparency."},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if tt.issue.String() != tt.want {
				t.Errorf("message = %q, want %q", tt.issue.String(), tt.want)
			}
			if tt.issue.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", tt.issue.Kind, tt.kind)
			}
		})
	}
}

func TestIssueJSON(t *testing.T) {
	data, err := json.Marshal(MarginIssue(7))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"page":7,"kind":"margin","message":"Page 7 has margin issues. Please adjust margins."}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back Issue
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != MarginIssue(7) {
		t.Errorf("Unmarshal() = %+v", back)
	}

	var kind IssueKind
	if err := kind.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestMessages(t *testing.T) {
	got := Messages([]Issue{LandscapeIssue(1), TransparencyIssue(1)})
	if len(got) != 2 || got[0] != "Page 1 has landscape orientation." {
		t.Errorf("Messages() = %v", got)
	}
}

// ============================================================================
// Error Tests
// ============================================================================

func TestDocumentParseError(t *testing.T) {
	cause := errors.New("startxref not found")
	err := NewDocumentParseError(cause)

	if !errors.Is(err, ErrDocumentParse) {
		t.Error("errors.Is(err, ErrDocumentParse) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if err.Error() != "document is not a valid PDF: startxref not found" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := fmt.Errorf("open: %w", err)
	if again := NewDocumentParseError(wrapped); again != wrapped {
		t.Error("NewDocumentParseError should not double-wrap")
	}
}
