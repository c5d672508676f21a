package model

import "fmt"

// IssueKind identifies the pass that produced an issue. The numeric order is
// the order in which passes run and in which issues are reported.
type IssueKind int

const (
	IssueOrientation IssueKind = iota
	IssueMargin
	IssueFontSize
	IssueImageResolution
	IssueTransparency
)

// String returns the stable identifier used in JSON output
func (k IssueKind) String() string {
	switch k {
	case IssueOrientation:
		return "orientation"
	case IssueMargin:
		return "margin"
	case IssueFontSize:
		return "font_size"
	case IssueImageResolution:
		return "image_resolution"
	case IssueTransparency:
		return "transparency"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k IssueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *IssueKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "orientation":
		*k = IssueOrientation
	case "margin":
		*k = IssueMargin
	case "font_size":
		*k = IssueFontSize
	case "image_resolution":
		*k = IssueImageResolution
	case "transparency":
		*k = IssueTransparency
	default:
		return fmt.Errorf("unknown issue kind %q", text)
	}
	return nil
}

// Issue is a single print-readiness problem found on a page
type Issue struct {
	Page    int       `json:"page"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

// String returns the human-readable message
func (i Issue) String() string {
	return i.Message
}

// Issue message constructors. The wording is part of the public contract:
// callers render these strings verbatim.

// LandscapeIssue reports a page wider than it is tall.
func LandscapeIssue(page int) Issue {
	return Issue{
		Page:    page,
		Kind:    IssueOrientation,
		Message: fmt.Sprintf("Page %d has landscape orientation.", page),
	}
}

// MarginIssue reports a page whose size is outside the margin tolerance.
func MarginIssue(page int) Issue {
	return Issue{
		Page:    page,
		Kind:    IssueMargin,
		Message: fmt.Sprintf("Page %d has margin issues. Please adjust margins.", page),
	}
}

// FontSizeIssue reports one out-of-range font size selection.
func FontSizeIssue(page int) Issue {
	return Issue{
		Page:    page,
		Kind:    IssueFontSize,
		Message: fmt.Sprintf("Page %d has font size issues. Please adjust font size.", page),
	}
}

// ImageResolutionIssue reports one image below minDPI.
func ImageResolutionIssue(page int, minDPI float64) Issue {
	return Issue{
		Page: page,
		Kind: IssueImageResolution,
		Message: fmt.Sprintf("Page %d has image resolution issues. Please use images with at least %g dpi.",
			page, minDPI),
	}
}

// TransparencyIssue reports one transparency group.
func TransparencyIssue(page int) Issue {
	return Issue{
		Page:    page,
		Kind:    IssueTransparency,
		Message: fmt.Sprintf("Page %d has transparency issues. Please remove transparency.", page),
	}
}

// Warning codes
const (
	WarnContentDecode     = "content_decode"
	WarnMalformedGeometry = "malformed_geometry"
	WarnResources         = "resources"
)

// Warning records a per-page computation that was skipped because the page
// was damaged. Warnings never appear in the issue list.
type Warning struct {
	Page    int    `json:"page"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// String formats the warning for logs and text reports
func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s: %s", w.Page, w.Code, w.Message)
}

// Messages returns the message strings of issues, in order
func Messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Message
	}
	return out
}
