package model

// Page represents a single page of a PDF document
type Page struct {
	Number   int  // 1-indexed page number
	MediaBox Rect // Page geometry in points

	// GeometryErr is non-nil when the media box is missing or degenerate.
	// MediaBox must not be used for computations in that case.
	GeometryErr error

	// Content holds the decoded, concatenated content streams of the page.
	Content []byte

	// ContentErr is non-nil when a content stream could not be decoded.
	ContentErr error

	// XObjects lists the page's XObject resources, sorted by name.
	XObjects []XObject

	// ResourcesErr is non-nil when the resources, or some XObject in them,
	// could not be read. XObjects then holds only the entries that could.
	ResourcesErr error
}

// Width returns the media box width in points
func (p *Page) Width() float64 {
	return p.MediaBox.Width()
}

// Height returns the media box height in points
func (p *Page) Height() float64 {
	return p.MediaBox.Height()
}

// Images returns the image XObjects of the page in resource order
func (p *Page) Images() []XObject {
	return p.xobjectsOfKind(KindImage)
}

// TransparencyGroups returns the transparency group XObjects of the page
func (p *Page) TransparencyGroups() []XObject {
	return p.xobjectsOfKind(KindTransparencyGroup)
}

func (p *Page) xobjectsOfKind(kind XObjectKind) []XObject {
	var out []XObject
	for _, x := range p.XObjects {
		if x.Kind == kind {
			out = append(out, x)
		}
	}
	return out
}
