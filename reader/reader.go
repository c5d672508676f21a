package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tsawler/preflight/core"
	"github.com/tsawler/preflight/model"
	"github.com/tsawler/preflight/pages"
)

const (
	objectCacheSize = 4096
	objStmCacheSize = 64
	headerSearchLen = 1024
)

// ErrEncrypted is returned for documents with an /Encrypt dictionary
var ErrEncrypted = errors.New("encrypted documents are not supported")

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// less reports whether v is older than o
func (v PDFVersion) less(o PDFVersion) bool {
	return v.Major < o.Major || (v.Major == o.Major && v.Minor < o.Minor)
}

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

func parseVersion(s string) (PDFVersion, bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return PDFVersion{}, false
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return PDFVersion{Major: major, Minor: minor}, true
}

// Reader reads PDF objects from an in-memory document. A Reader is not
// safe for concurrent use; build the model with Document and share that.
type Reader struct {
	data      []byte
	xref      *core.XRefTable
	trailer   core.Dict
	version   PDFVersion
	objects   *lru.Cache[int, core.Object]
	objStms   *lru.Cache[int, *core.ObjectStream]
	resolving map[int]bool
	scanned   *core.XRefTable // object headers found by scanning, built on demand
}

// Ensure Reader implements the resolver interfaces used by pages and core
var (
	_ pages.ObjectResolver   = (*Reader)(nil)
	_ core.ReferenceResolver = (*Reader)(nil)
)

// NewReader parses the header and cross-reference data of a PDF held in
// memory. Objects are loaded lazily.
func NewReader(data []byte) (*Reader, error) {
	objects, err := lru.New[int, core.Object](objectCacheSize)
	if err != nil {
		return nil, err
	}
	objStms, err := lru.New[int, *core.ObjectStream](objStmCacheSize)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		data:      data,
		objects:   objects,
		objStms:   objStms,
		resolving: make(map[int]bool),
	}

	version, err := parseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	r.version = version

	xref, err := r.loadXRef()
	if err != nil {
		return nil, fmt.Errorf("failed to load xref: %w", err)
	}
	r.xref = xref
	r.trailer = xref.Trailer

	if r.trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}
	return r, nil
}

// Open reads a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return NewReader(data)
}

// parseHeader finds "%PDF-x.y". Junk before the header is tolerated
// within the first kilobyte.
func parseHeader(data []byte) (PDFVersion, error) {
	head := data
	if len(head) > headerSearchLen {
		head = head[:headerSearchLen]
	}
	idx := bytes.Index(head, []byte("%PDF-"))
	if idx == -1 {
		return PDFVersion{}, fmt.Errorf("missing %%PDF- header")
	}
	version, ok := parseVersion(string(head[idx+5:]))
	if !ok {
		return PDFVersion{}, fmt.Errorf("invalid version in header")
	}
	return version, nil
}

// loadXRef reads the cross-reference chain, rebuilding it from object
// headers when the chain is damaged.
func (r *Reader) loadXRef() (*core.XRefTable, error) {
	p := core.NewXRefParser(r.data)
	table, err := p.ParseAll()
	if err == nil && table.Trailer.Has("Root") {
		return table, nil
	}

	rebuilt, rerr := p.Reconstruct()
	if rerr != nil {
		if err == nil {
			err = fmt.Errorf("trailer missing /Root")
		}
		return nil, fmt.Errorf("%w (reconstruction failed: %v)", err, rerr)
	}
	return rebuilt, nil
}

// Version returns the header version, or the catalog /Version when that
// is newer.
func (r *Reader) Version() PDFVersion {
	catalog, err := r.Catalog()
	if err != nil {
		return r.version
	}
	if v, ok := parseVersion(catalog.Version()); ok && r.version.less(v) {
		return v
	}
	return r.version
}

// Trailer returns the trailer dictionary
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// XRefTable returns the merged cross-reference table
func (r *Reader) XRefTable() *core.XRefTable {
	return r.xref
}

// GetObject loads an object by number. Free or undefined objects resolve
// to core.Null as PDF requires.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objects.Get(objNum); ok {
		return obj, nil
	}

	entry, ok := r.xref.Get(objNum)
	if !ok || !entry.InUse() {
		return core.Null{}, nil
	}

	if r.resolving[objNum] {
		return nil, fmt.Errorf("object %d refers to itself while loading", objNum)
	}
	r.resolving[objNum] = true
	defer delete(r.resolving, objNum)

	var obj core.Object
	var err error
	switch entry.Type {
	case core.XRefCompressed:
		obj, err = r.loadCompressed(objNum, entry)
	default:
		obj, err = r.loadAt(objNum, entry.Offset)
		if err != nil {
			obj, err = r.loadScanned(objNum, err)
		}
	}
	if err != nil {
		return nil, err
	}

	r.objects.Add(objNum, obj)
	return obj, nil
}

func (r *Reader) loadAt(objNum int, offset int64) (core.Object, error) {
	if offset < 0 || offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("object %d offset %d outside file", objNum, offset)
	}

	parser := core.NewParser(bytes.NewReader(r.data[offset:]))
	parser.SetReferenceResolver(r)
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}
	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}
	return indObj.Object, nil
}

// loadScanned retries an object whose xref offset is wrong, using the
// offsets found by scanning the file. cause is returned if that fails too.
func (r *Reader) loadScanned(objNum int, cause error) (core.Object, error) {
	if r.scanned == nil {
		r.scanned = core.NewXRefParser(r.data).ScanObjects()
	}
	entry, ok := r.scanned.Get(objNum)
	if !ok {
		return nil, cause
	}
	obj, err := r.loadAt(objNum, entry.Offset)
	if err != nil {
		return nil, cause
	}
	return obj, nil
}

func (r *Reader) loadCompressed(objNum int, entry *core.XRefEntry) (core.Object, error) {
	stm, err := r.objectStream(entry.StreamNumber)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", objNum, err)
	}

	obj, num, err := stm.GetObjectByIndex(entry.Index)
	if err == nil && num == objNum {
		return obj, nil
	}
	// Some writers get /Index wrong; fall back to a lookup by number
	obj, _, err = stm.GetObjectByNumber(objNum)
	if err != nil {
		return nil, fmt.Errorf("object %d in object stream %d: %w", objNum, entry.StreamNumber, err)
	}
	return obj, nil
}

func (r *Reader) objectStream(num int) (*core.ObjectStream, error) {
	if stm, ok := r.objStms.Get(num); ok {
		return stm, nil
	}

	obj, err := r.GetObject(num)
	if err != nil {
		return nil, fmt.Errorf("failed to load object stream %d: %w", num, err)
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is a %T", num, obj)
	}
	direct, err := r.directFilters(stream)
	if err != nil {
		return nil, err
	}
	stm, err := core.NewObjectStream(direct)
	if err != nil {
		return nil, err
	}
	r.objStms.Add(num, stm)
	return stm, nil
}

// directFilters returns the stream with /Filter and /DecodeParms resolved
func (r *Reader) directFilters(s *core.Stream) (*core.Stream, error) {
	_, filterRef := s.Dict.Get("Filter").(core.IndirectRef)
	_, paramsRef := s.Dict.Get("DecodeParms").(core.IndirectRef)
	if !filterRef && !paramsRef {
		return s, nil
	}

	dict := make(core.Dict, len(s.Dict))
	for k, v := range s.Dict {
		dict[k] = v
	}
	for _, key := range []string{"Filter", "DecodeParms"} {
		resolved, err := r.Resolve(dict.Get(key))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve /%s: %w", key, err)
		}
		if resolved != nil {
			dict[key] = resolved
		}
	}
	return &core.Stream{Dict: dict, Data: s.Data}, nil
}

// ResolveReference resolves an indirect reference
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve returns obj itself, or the object it refers to
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.ResolveReference(ref)
	}
	return obj, nil
}

// Catalog returns the document catalog
func (r *Reader) Catalog() (*pages.Catalog, error) {
	rootObj := r.trailer.Get("Root")
	if rootObj == nil {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}

	obj, err := r.Resolve(rootObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}
	dict, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", obj)
	}
	return pages.NewCatalog(dict, r), nil
}

// Pages returns the leaves of the page tree in document order
func (r *Reader) Pages() ([]*pages.Page, error) {
	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	tree, err := catalog.Pages()
	if err != nil {
		return nil, err
	}
	return tree.Pages()
}

// PageCount returns the number of pages in the page tree
func (r *Reader) PageCount() (int, error) {
	all, err := r.Pages()
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// Document builds the page model the preflight passes run on. Only a
// failure to reach the page list is returned; a page whose geometry,
// content or resources are broken is still included, with the failure
// recorded on the page.
func (r *Reader) Document() (*model.Document, error) {
	all, err := r.Pages()
	if err != nil {
		return nil, err
	}

	doc := model.NewDocument()
	doc.Version = r.Version().String()

	for _, p := range all {
		page := &model.Page{}
		page.MediaBox, page.GeometryErr = mediaBox(p)

		content, err := p.ContentData()
		if err != nil {
			page.ContentErr = fmt.Errorf("%w: %v", model.ErrPageContentDecode, err)
		} else {
			page.Content = content
		}

		entries, err := p.XObjects()
		if err != nil {
			page.ResourcesErr = fmt.Errorf("%w: %v", model.ErrPageResources, err)
		}
		for _, e := range entries {
			page.XObjects = append(page.XObjects, r.classify(e))
		}

		doc.AddPage(page)
	}
	return doc, nil
}

func mediaBox(p *pages.Page) (model.Rect, error) {
	box, err := p.MediaBox()
	if err != nil {
		return model.Rect{}, fmt.Errorf("%w: %v", model.ErrMalformedGeometry, err)
	}
	rect, err := model.RectFromBox(box)
	if err != nil {
		return model.Rect{}, fmt.Errorf("%w: %v", model.ErrMalformedGeometry, err)
	}
	if !rect.Valid() {
		return rect, fmt.Errorf("%w: media box %s is inverted or has no area", model.ErrMalformedGeometry, rect)
	}
	return rect, nil
}
