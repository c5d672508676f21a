package core

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// XRefEntryType distinguishes the three kinds of cross-reference entries
type XRefEntryType int

const (
	XRefFree       XRefEntryType = iota // type 0 / "f"
	XRefInUse                           // type 1 / "n": object at a byte offset
	XRefCompressed                      // type 2: object inside an object stream
)

// XRefEntry represents a single cross-reference entry
type XRefEntry struct {
	Type         XRefEntryType
	Offset       int64 // byte offset of an in-use object
	Generation   int
	StreamNumber int // object stream holding a compressed object
	Index        int // position of a compressed object in its stream
}

// InUse reports whether the entry points at a live object
func (e *XRefEntry) InUse() bool {
	return e.Type == XRefInUse || e.Type == XRefCompressed
}

// XRefTable maps object numbers to entries and carries the trailer
type XRefTable struct {
	Entries map[int]*XRefEntry
	Trailer Dict
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]*XRefEntry),
		Trailer: make(Dict),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(objNum int) (*XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Set adds or updates an XRef entry
func (x *XRefTable) Set(objNum int, entry *XRefEntry) {
	x.Entries[objNum] = entry
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// fill copies entries from other that x does not define yet
func (x *XRefTable) fill(other *XRefTable) {
	for num, entry := range other.Entries {
		if _, ok := x.Entries[num]; !ok {
			x.Entries[num] = entry
		}
	}
}

// XRefParser locates and parses cross-reference sections in a PDF file
type XRefParser struct {
	data []byte
}

// NewXRefParser creates a new XRef parser over the whole file
func NewXRefParser(data []byte) *XRefParser {
	return &XRefParser{data: data}
}

// FindXRef returns the offset after the last "startxref" keyword
func (x *XRefParser) FindXRef() (int64, error) {
	tail := x.data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}

	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx == -1 {
		return 0, fmt.Errorf("startxref not found")
	}

	fields := bytes.Fields(tail[idx+len("startxref"):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("missing offset after startxref")
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid xref offset: %w", err)
	}
	if offset < 0 || offset >= int64(len(x.data)) {
		return 0, fmt.Errorf("xref offset %d outside file of %d bytes", offset, len(x.data))
	}
	return offset, nil
}

// ParseXRef parses the section at offset, which is either a classic
// "xref" table or an xref stream object.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(x.data)) {
		return nil, fmt.Errorf("xref offset %d outside file", offset)
	}
	section := x.data[offset:]
	if bytes.HasPrefix(bytes.TrimLeft(section, " \t\r\n\f\x00"), []byte("xref")) {
		return x.parseTable(section)
	}
	return x.parseStream(section)
}

// parseTable parses "xref" subsections followed by "trailer << ... >>"
func (x *XRefParser) parseTable(section []byte) (*XRefTable, error) {
	p := NewParser(bytes.NewReader(section))
	if err := p.expectKeyword("xref"); err != nil {
		return nil, err
	}

	table := NewXRefTable()
	for {
		tok, err := p.current()
		if err != nil {
			return nil, fmt.Errorf("xref table: %w", err)
		}
		if tok.Type == TokenKeyword && string(tok.Value) == "trailer" {
			p.nextToken()
			break
		}

		first, err := p.expectInt("subsection start")
		if err != nil {
			return nil, err
		}
		count, err := p.expectInt("subsection count")
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			entry, err := parseTableEntry(p)
			if err != nil {
				return nil, fmt.Errorf("xref entry %d: %w", first+i, err)
			}
			table.Set(first+i, entry)
		}
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse trailer dictionary: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is not a dictionary, got %T", obj)
	}
	table.Trailer = trailer
	return table, nil
}

// parseTableEntry reads "nnnnnnnnnn ggggg n|f"
func parseTableEntry(p *Parser) (*XRefEntry, error) {
	offset, err := p.expectInt("offset")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation")
	if err != nil {
		return nil, err
	}
	tok, err := p.current()
	if err != nil {
		return nil, err
	}

	entry := &XRefEntry{Offset: int64(offset), Generation: gen}
	switch string(tok.Value) {
	case "n":
		entry.Type = XRefInUse
	case "f":
		entry.Type = XRefFree
	default:
		return nil, fmt.Errorf("invalid in-use flag: %q", tok.Value)
	}
	p.nextToken()
	return entry, nil
}

// parseStream parses a /Type /XRef stream. Its dictionary doubles as
// the trailer.
func (x *XRefParser) parseStream(section []byte) (*XRefTable, error) {
	obj, err := NewParser(bytes.NewReader(section)).ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream: %w", err)
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("expected xref stream, got %T", obj.Object)
	}
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("stream is not an xref stream, got type: %v", stream.Dict.Get("Type"))
	}

	widths, err := xrefWidths(stream.Dict)
	if err != nil {
		return nil, err
	}
	index, err := xrefIndex(stream.Dict)
	if err != nil {
		return nil, err
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	rowLen := widths[0] + widths[1] + widths[2]
	table := NewXRefTable()
	table.Trailer = stream.Dict

	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		first, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			if pos+rowLen > len(data) {
				return nil, fmt.Errorf("xref stream truncated at object %d", first+j)
			}
			row := data[pos : pos+rowLen]
			pos += rowLen

			typ := 1
			if widths[0] > 0 {
				typ = readBigEndian(row[:widths[0]])
			}
			f2 := readBigEndian(row[widths[0] : widths[0]+widths[1]])
			f3 := readBigEndian(row[widths[0]+widths[1]:])

			var entry *XRefEntry
			switch typ {
			case 0:
				entry = &XRefEntry{Type: XRefFree, Offset: int64(f2), Generation: f3}
			case 1:
				entry = &XRefEntry{Type: XRefInUse, Offset: int64(f2), Generation: f3}
			case 2:
				entry = &XRefEntry{Type: XRefCompressed, StreamNumber: f2, Index: f3}
			default:
				// Unknown types are treated as null references
				continue
			}
			table.Set(first+j, entry)
		}
	}
	return table, nil
}

func xrefWidths(dict Dict) ([3]int, error) {
	var w [3]int
	arr, ok := dict.GetArray("W")
	if !ok || len(arr) != 3 {
		return w, fmt.Errorf("xref stream /W must be an array of 3 integers")
	}
	for i, item := range arr {
		v, ok := ToInt(item)
		if !ok || v < 0 || v > 8 {
			return w, fmt.Errorf("invalid xref stream /W entry %d: %v", i, item)
		}
		w[i] = v
	}
	return w, nil
}

func xrefIndex(dict Dict) ([]int, error) {
	arr, ok := dict.GetArray("Index")
	if !ok {
		size, ok := ToInt(dict.Get("Size"))
		if !ok {
			return nil, fmt.Errorf("xref stream missing /Size")
		}
		return []int{0, size}, nil
	}
	if len(arr)%2 != 0 {
		return nil, fmt.Errorf("xref stream /Index has odd length %d", len(arr))
	}
	index := make([]int, len(arr))
	for i, item := range arr {
		v, ok := ToInt(item)
		if !ok || v < 0 {
			return nil, fmt.Errorf("invalid xref stream /Index entry %d: %v", i, item)
		}
		index[i] = v
	}
	return index, nil
}

func readBigEndian(b []byte) int {
	v := 0
	for _, c := range b {
		v = v<<8 | int(c)
	}
	return v
}

// ParseAll parses the newest cross-reference section and everything it
// chains to through /XRefStm and /Prev. Newer entries win; the newest
// trailer is returned.
func (x *XRefParser) ParseAll() (*XRefTable, error) {
	offset, err := x.FindXRef()
	if err != nil {
		return nil, err
	}

	merged := NewXRefTable()
	visited := make(map[int64]bool)

	for first := true; ; first = false {
		if visited[offset] {
			break
		}
		visited[offset] = true

		table, err := x.ParseXRef(offset)
		if err != nil {
			if first {
				return nil, err
			}
			// A broken older section still leaves a usable newest one
			break
		}
		if first {
			merged.Trailer = table.Trailer
		}
		merged.fill(table)

		// Hybrid files keep compressed entries in a side xref stream
		if stm, ok := ToInt(table.Trailer.Get("XRefStm")); ok && !visited[int64(stm)] {
			visited[int64(stm)] = true
			if side, err := x.ParseXRef(int64(stm)); err == nil {
				merged.fill(side)
			}
		}

		prev, ok := ToInt(table.Trailer.Get("Prev"))
		if !ok {
			break
		}
		offset = int64(prev)
	}

	return merged, nil
}

var objHeader = regexp.MustCompile(`(?:^|\s)(\d+)\s+(\d+)\s+obj\b`)

// ScanObjects builds a table from every "n g obj" header in the file.
// Later definitions of an object number win, as in an incremental update.
func (x *XRefParser) ScanObjects() *XRefTable {
	table := NewXRefTable()
	for _, m := range objHeader.FindAllSubmatchIndex(x.data, -1) {
		num, err1 := strconv.Atoi(string(x.data[m[2]:m[3]]))
		gen, err2 := strconv.Atoi(string(x.data[m[4]:m[5]]))
		if err1 != nil || err2 != nil {
			continue
		}
		table.Set(num, &XRefEntry{Type: XRefInUse, Offset: int64(m[2]), Generation: gen})
	}
	return table
}

// Reconstruct rebuilds a table by scanning the file for "n g obj"
// headers. It is the fallback for files whose xref data is damaged. The
// trailer comes from the last "trailer" dictionary, or from the last
// /Type /Catalog object when there is none.
func (x *XRefParser) Reconstruct() (*XRefTable, error) {
	table := x.ScanObjects()
	if table.Size() == 0 {
		return nil, fmt.Errorf("no objects found")
	}

	if idx := bytes.LastIndex(x.data, []byte("trailer")); idx != -1 {
		p := NewParser(bytes.NewReader(x.data[idx+len("trailer"):]))
		if obj, err := p.ParseObject(); err == nil {
			if dict, ok := obj.(Dict); ok {
				table.Trailer = dict
			}
		}
	}
	if table.Trailer.Has("Root") {
		return table, nil
	}

	// No usable trailer: take the catalog with the highest object number
	for num, entry := range table.Entries {
		obj, err := NewParser(bytes.NewReader(x.data[entry.Offset:])).ParseIndirectObject()
		if err != nil {
			continue
		}
		dict, ok := obj.Object.(Dict)
		if !ok {
			if s, isStream := obj.Object.(*Stream); isStream {
				dict = s.Dict
			}
		}
		if t, _ := dict.GetName("Type"); t == "Catalog" {
			if cur, ok := table.Trailer.Get("Root").(IndirectRef); !ok || cur.Number < num {
				table.Trailer["Root"] = IndirectRef{Number: num, Generation: entry.Generation}
			}
		}
	}
	if !table.Trailer.Has("Root") {
		return nil, fmt.Errorf("no document catalog found")
	}
	return table, nil
}
