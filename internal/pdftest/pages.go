package pdftest

import (
	"fmt"
	"strings"
)

// Image is an image XObject placed in a page's resources
type Image struct {
	Name          string
	Width, Height int
}

// Page describes one page for Document
type Page struct {
	// MediaBox is written as given; nil omits the entry
	MediaBox []float64
	Content  string
	// Compress stores the content stream FlateDecode-encoded
	Compress           bool
	Images             []Image
	TransparencyGroups []string
	Forms              []string
}

// Letter is a portrait US Letter media box
var Letter = []float64{0, 0, 612, 792}

// Pages adds a catalog and a flat page tree holding specs, and sets the
// root.
func (b *Builder) Pages(specs ...Page) *Builder {
	catalog := b.Reserve()
	tree := b.Reserve()

	kids := make([]string, 0, len(specs))
	for _, spec := range specs {
		kids = append(kids, Ref(b.page(tree, spec)))
	}

	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", Ref(tree)))
	b.Set(tree, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(specs)))
	return b.SetRoot(catalog)
}

func (b *Builder) page(parent int, spec Page) int {
	var xobjects []string
	for _, img := range spec.Images {
		num := b.AddStream(fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8",
			img.Width, img.Height), nil)
		xobjects = append(xobjects, fmt.Sprintf("/%s %s", img.Name, Ref(num)))
	}
	for _, name := range spec.TransparencyGroups {
		num := b.AddStream("/Type /XObject /Subtype /Form /BBox [0 0 100 100] /Group << /Type /Group /S /Transparency >>", nil)
		xobjects = append(xobjects, fmt.Sprintf("/%s %s", name, Ref(num)))
	}
	for _, name := range spec.Forms {
		num := b.AddStream("/Type /XObject /Subtype /Form /BBox [0 0 100 100]", nil)
		xobjects = append(xobjects, fmt.Sprintf("/%s %s", name, Ref(num)))
	}

	var entries []string
	entries = append(entries, "/Type /Page", "/Parent "+Ref(parent))
	if spec.MediaBox != nil {
		entries = append(entries, "/MediaBox "+Box(spec.MediaBox))
	}
	entries = append(entries, fmt.Sprintf("/Resources << /XObject << %s >> >>", strings.Join(xobjects, " ")))

	if spec.Content != "" {
		var num int
		if spec.Compress {
			num = b.AddStream("/Filter /FlateDecode", deflate([]byte(spec.Content)))
		} else {
			num = b.AddStream("", []byte(spec.Content))
		}
		entries = append(entries, "/Contents "+Ref(num))
	}

	return b.Add("<< " + strings.Join(entries, " ") + " >>")
}

// Box formats a rectangle array
func Box(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = fmt.Sprintf("%g", f)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Document builds a classic-xref document with the given pages
func Document(specs ...Page) []byte {
	return New().Pages(specs...).Bytes()
}
