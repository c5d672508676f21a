package reader

import (
	"github.com/tsawler/preflight/core"
	"github.com/tsawler/preflight/model"
	"github.com/tsawler/preflight/pages"
)

// classify maps an XObject stream onto the model's tagged variant.
//
//   - /Subtype /Image with positive integer /Width and /Height is an image.
//     An image without usable dimensions cannot be rated and is KindOther.
//   - /Subtype /Form with /Group << /S /Transparency >> is a transparency
//     group, as is the nonstandard /Subtype /Transparency some writers emit.
//   - Everything else is KindOther.
func (r *Reader) classify(e pages.XObjectEntry) model.XObject {
	dict := e.Stream.Dict

	switch r.name(dict.Get("Subtype")) {
	case "Image":
		w, okW := r.positiveInt(dict.Get("Width"))
		h, okH := r.positiveInt(dict.Get("Height"))
		if okW && okH {
			return model.NewImage(e.Name, w, h)
		}
	case "Form":
		if group, ok := r.dict(dict.Get("Group")); ok && r.name(group.Get("S")) == "Transparency" {
			return model.NewTransparencyGroup(e.Name)
		}
	case "Transparency":
		return model.NewTransparencyGroup(e.Name)
	}
	return model.NewOther(e.Name)
}

func (r *Reader) name(obj core.Object) string {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return ""
	}
	n, _ := resolved.(core.Name)
	return string(n)
}

func (r *Reader) positiveInt(obj core.Object) (int, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return 0, false
	}
	v, ok := core.ToInt(resolved)
	return v, ok && v > 0
}

func (r *Reader) dict(obj core.Object) (core.Dict, bool) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, false
	}
	d, ok := resolved.(core.Dict)
	return d, ok
}
