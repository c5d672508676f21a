package model

// XObjectKind tags the variants of XObject the passes care about
type XObjectKind int

const (
	// KindOther is any XObject that is neither an image nor a
	// transparency group (plain forms, PostScript XObjects, unknown subtypes).
	KindOther XObjectKind = iota
	// KindImage is an image XObject with known pixel dimensions.
	KindImage
	// KindTransparencyGroup is a group XObject with /S /Transparency.
	KindTransparencyGroup
)

// String returns the string representation of the kind
func (k XObjectKind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindTransparencyGroup:
		return "TransparencyGroup"
	default:
		return "Other"
	}
}

// XObject is an entry of a page's /XObject resource dictionary
type XObject struct {
	Name   string // Resource name without the slash, e.g. "Im1"
	Kind   XObjectKind
	Width  int // Pixels; only set for KindImage
	Height int // Pixels; only set for KindImage
}

// NewImage creates an image XObject
func NewImage(name string, width, height int) XObject {
	return XObject{Name: name, Kind: KindImage, Width: width, Height: height}
}

// NewTransparencyGroup creates a transparency group XObject
func NewTransparencyGroup(name string) XObject {
	return XObject{Name: name, Kind: KindTransparencyGroup}
}

// NewOther creates an XObject the passes ignore
func NewOther(name string) XObject {
	return XObject{Name: name, Kind: KindOther}
}
