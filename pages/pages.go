package pages

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tsawler/preflight/core"
)

// ObjectResolver resolves indirect references. Resolve returns non-reference
// objects unchanged and core.Null for references to undefined objects.
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// inheritable lists the page attributes a leaf takes from its ancestors
var inheritable = []string{"MediaBox", "CropBox", "Resources", "Rotate"}

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{dict: dict, resolver: resolver}
}

// Type returns the catalog type (should be "Catalog")
func (c *Catalog) Type() string {
	name, _ := c.dict.GetName("Type")
	return string(name)
}

// Version returns the /Version entry, which overrides the header version
// when it is newer. Empty when absent.
func (c *Catalog) Version() string {
	name, _ := c.dict.GetName("Version")
	return string(name)
}

// Pages returns the page tree root
func (c *Catalog) Pages() (*PageTree, error) {
	pagesRef := c.dict.Get("Pages")
	if pagesRef == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}

	pagesObj, err := c.resolver.Resolve(pagesRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Pages: %w", err)
	}

	pagesDict, ok := pagesObj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages type: %T", pagesObj)
	}

	tree := NewPageTree(pagesDict, c.resolver)
	if ref, ok := pagesRef.(core.IndirectRef); ok {
		tree.rootRef = &ref
	}
	return tree, nil
}

// PageTree represents the PDF page tree
type PageTree struct {
	root     core.Dict
	rootRef  *core.IndirectRef
	resolver ObjectResolver
	pages    []*Page // flattened leaves, nil until loaded
}

// NewPageTree creates a new page tree from the root pages dictionary
func NewPageTree(root core.Dict, resolver ObjectResolver) *PageTree {
	return &PageTree{root: root, resolver: resolver}
}

// Count returns the declared /Count of the root, or the number of leaves
// when the root does not declare one.
func (t *PageTree) Count() (int, error) {
	if count, ok := core.ToInt(t.root.Get("Count")); ok && count >= 0 {
		return count, nil
	}
	pages, err := t.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// GetPage returns the page at the given index (0-based)
func (t *PageTree) GetPage(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(pages))
	}
	return pages[index], nil
}

// Pages returns all leaves in document order
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages != nil {
		return t.pages, nil
	}

	seen := make(map[core.IndirectRef]bool)
	if t.rootRef != nil {
		seen[*t.rootRef] = true
	}

	pages := make([]*Page, 0)
	if err := t.traverse(t.root, core.Dict{}, seen, &pages); err != nil {
		return nil, fmt.Errorf("failed to traverse page tree: %w", err)
	}
	t.pages = pages
	return pages, nil
}

// traverse walks one node. inherited holds the attributes collected from
// the ancestors; a node's own entries override them for its subtree.
func (t *PageTree) traverse(node core.Dict, inherited core.Dict, seen map[core.IndirectRef]bool, out *[]*Page) error {
	attrs := inherited
	if hasInheritable(node) {
		attrs = make(core.Dict, len(inherited))
		for k, v := range inherited {
			attrs[k] = v
		}
		for _, key := range inheritable {
			if v := node.Get(key); v != nil {
				attrs[key] = v
			}
		}
	}

	if !isPagesNode(node) {
		*out = append(*out, NewPage(node, attrs, t.resolver))
		return nil
	}

	kidsObj, err := t.resolver.Resolve(node.Get("Kids"))
	if err != nil {
		return fmt.Errorf("failed to resolve /Kids: %w", err)
	}
	kids, ok := kidsObj.(core.Array)
	if !ok {
		if _, isNull := kidsObj.(core.Null); isNull || kidsObj == nil {
			return nil
		}
		return fmt.Errorf("invalid /Kids type: %T", kidsObj)
	}

	for i, kidObj := range kids {
		if ref, ok := kidObj.(core.IndirectRef); ok {
			if seen[ref] {
				return fmt.Errorf("page tree node %s is reached twice", ref)
			}
			seen[ref] = true
		}

		kidResolved, err := t.resolver.Resolve(kidObj)
		if err != nil {
			return fmt.Errorf("failed to resolve kid %d: %w", i, err)
		}
		kid, ok := kidResolved.(core.Dict)
		if !ok {
			if _, isNull := kidResolved.(core.Null); isNull {
				continue
			}
			return fmt.Errorf("invalid kid %d type: %T", i, kidResolved)
		}
		if err := t.traverse(kid, attrs, seen, out); err != nil {
			return err
		}
	}
	return nil
}

// isPagesNode reports whether node is an intermediate node. A missing or
// unknown /Type is inferred from the presence of /Kids.
func isPagesNode(node core.Dict) bool {
	switch typ, _ := node.GetName("Type"); typ {
	case "Pages":
		return true
	case "Page":
		return false
	}
	return node.Has("Kids")
}

func hasInheritable(node core.Dict) bool {
	for _, key := range inheritable {
		if node.Has(key) {
			return true
		}
	}
	return false
}

// Page represents a single PDF page
type Page struct {
	dict     core.Dict
	attrs    core.Dict // inheritable attributes after applying ancestors
	resolver ObjectResolver
}

// NewPage creates a new page from its dictionary and the inheritable
// attributes in effect at the leaf.
func NewPage(dict core.Dict, attrs core.Dict, resolver ObjectResolver) *Page {
	if attrs == nil {
		attrs = core.Dict{}
	}
	return &Page{dict: dict, attrs: attrs, resolver: resolver}
}

// Dict returns the raw page dictionary
func (p *Page) Dict() core.Dict {
	return p.dict
}

// MediaBox returns the page media box [x1 y1 x2 y2]
func (p *Page) MediaBox() ([]float64, error) {
	return p.box("MediaBox")
}

// CropBox returns the page crop box, defaulting to the media box
func (p *Page) CropBox() ([]float64, error) {
	if p.attrs.Get("CropBox") == nil {
		return p.MediaBox()
	}
	return p.box("CropBox")
}

func (p *Page) box(name string) ([]float64, error) {
	boxObj := p.attrs.Get(name)
	if boxObj == nil {
		return nil, fmt.Errorf("%s not found", name)
	}

	resolved, err := p.resolver.Resolve(boxObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	arr, ok := resolved.(core.Array)
	if !ok {
		return nil, fmt.Errorf("invalid %s type: %T", name, resolved)
	}
	if len(arr) != 4 {
		return nil, fmt.Errorf("invalid %s length: %d (expected 4)", name, len(arr))
	}

	box := make([]float64, 4)
	for i, elem := range arr {
		elem, err := p.resolver.Resolve(elem)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s element %d: %w", name, i, err)
		}
		v, ok := core.ToFloat(elem)
		if !ok {
			return nil, fmt.Errorf("invalid %s element type: %T", name, elem)
		}
		box[i] = v
	}
	return box, nil
}

// Rotate returns the page rotation in degrees, 0 when absent
func (p *Page) Rotate() int {
	obj, err := p.resolver.Resolve(p.attrs.Get("Rotate"))
	if err != nil {
		return 0
	}
	rotate, _ := core.ToInt(obj)
	return rotate
}

// Resources returns the page resources dictionary, or nil when the page
// has none.
func (p *Page) Resources() (core.Dict, error) {
	resObj := p.attrs.Get("Resources")
	if resObj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(resObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}
	res, _ := resolved.(core.Dict)
	return res, nil
}

// Contents returns the page content streams in order. Array elements that
// do not resolve to streams are dropped.
func (p *Page) Contents() ([]*core.Stream, error) {
	contentsObj := p.dict.Get("Contents")
	if contentsObj == nil {
		return nil, nil
	}

	resolved, err := p.resolver.Resolve(contentsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	switch v := resolved.(type) {
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		streams := make([]*core.Stream, 0, len(v))
		for i, elem := range v {
			obj, err := p.resolver.Resolve(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
			}
			if s, ok := obj.(*core.Stream); ok {
				streams = append(streams, s)
			}
		}
		return streams, nil
	case core.Null:
		return nil, nil
	}
	return nil, fmt.Errorf("invalid Contents type: %T", resolved)
}

// ContentData decodes and concatenates the page content streams. Streams
// are joined with a newline so tokens never run together.
func (p *Page) ContentData() ([]byte, error) {
	streams, err := p.Contents()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i, s := range streams {
		data, err := DecodeStream(p.resolver, s)
		if err != nil {
			return nil, fmt.Errorf("content stream %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// XObjectEntry is one resolved entry of the /XObject resource dictionary
type XObjectEntry struct {
	Name   string
	Stream *core.Stream
}

// XObjects returns the page's XObject streams sorted by name. Each level
// may be absent: no Resources, no /XObject entry, or an entry that is not
// a stream all mean "nothing here", not an error. Entries that fail to
// resolve are left out and reported together in the error, alongside the
// entries that did resolve.
func (p *Page) XObjects() ([]XObjectEntry, error) {
	res, err := p.Resources()
	if err != nil || res == nil {
		return nil, err
	}

	xobjObj := res.Get("XObject")
	if xobjObj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(xobjObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve XObject dictionary: %w", err)
	}
	xobjects, ok := resolved.(core.Dict)
	if !ok {
		return nil, nil
	}

	var entries []XObjectEntry
	var errs []error
	for _, name := range xobjects.Keys() {
		obj, err := p.resolver.Resolve(xobjects[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to resolve XObject /%s: %w", name, err))
			continue
		}
		if s, ok := obj.(*core.Stream); ok {
			entries = append(entries, XObjectEntry{Name: name, Stream: s})
		}
	}
	return entries, errors.Join(errs...)
}

// DecodeStream resolves indirect /Filter and /DecodeParms entries and
// decodes the stream.
func DecodeStream(r ObjectResolver, s *core.Stream) ([]byte, error) {
	dict := s.Dict
	if dict.Has("Filter") || dict.Has("DecodeParms") {
		dict = make(core.Dict, len(s.Dict))
		for k, v := range s.Dict {
			dict[k] = v
		}
		for _, key := range []string{"Filter", "DecodeParms"} {
			v := dict.Get(key)
			if v == nil {
				continue
			}
			resolved, err := resolveShallow(r, v)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve /%s: %w", key, err)
			}
			if _, isNull := resolved.(core.Null); isNull {
				delete(dict, key)
				continue
			}
			dict[key] = resolved
		}
	}
	return (&core.Stream{Dict: dict, Data: s.Data}).Decode()
}

// resolveShallow resolves obj and, for arrays, each element
func resolveShallow(r ObjectResolver, obj core.Object) (core.Object, error) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	arr, ok := resolved.(core.Array)
	if !ok {
		return resolved, nil
	}
	out := make(core.Array, len(arr))
	for i, elem := range arr {
		if out[i], err = r.Resolve(elem); err != nil {
			return nil, err
		}
	}
	return out, nil
}
