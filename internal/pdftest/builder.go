// Package pdftest writes small PDF documents for tests. Offsets in the
// cross-reference section are computed, so fixtures never hard-code them.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

type object struct {
	body   []byte
	stream bool
}

// Builder accumulates numbered objects and serializes them with a classic
// xref table, an xref stream, or an xref stream plus an object stream.
type Builder struct {
	version    string
	objects    []object // object n is objects[n-1]
	root       int
	trailer    []string
	xrefStream bool
	objStm     bool
}

// New creates a builder for a PDF 1.4 document
func New() *Builder {
	return &Builder{version: "1.4"}
}

// Version sets the header version
func (b *Builder) Version(v string) *Builder {
	b.version = v
	return b
}

// UseXRefStream writes a /Type /XRef stream instead of a classic table
func (b *Builder) UseXRefStream() *Builder {
	b.xrefStream = true
	return b
}

// UseObjectStreams packs every non-stream object into one compressed
// /Type /ObjStm. It implies UseXRefStream.
func (b *Builder) UseObjectStreams() *Builder {
	b.xrefStream = true
	b.objStm = true
	return b
}

// TrailerEntry adds a raw "/Key value" pair to the trailer
func (b *Builder) TrailerEntry(entry string) *Builder {
	b.trailer = append(b.trailer, entry)
	return b
}

// Reserve allocates an object number to be filled in with Set
func (b *Builder) Reserve() int {
	b.objects = append(b.objects, object{body: []byte("null")})
	return len(b.objects)
}

// Set replaces the body of object num
func (b *Builder) Set(num int, body string) {
	b.objects[num-1] = object{body: []byte(body)}
}

// Add appends a non-stream object and returns its number
func (b *Builder) Add(body string) int {
	num := b.Reserve()
	b.Set(num, body)
	return num
}

// AddStream appends a stream object. dict holds the entries without the
// surrounding << >>; /Length is added.
func (b *Builder) AddStream(dict string, data []byte) int {
	num := b.Reserve()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< %s /Length %d >>\nstream\n", dict, len(data))
	buf.Write(data)
	buf.WriteString("\nendstream")
	b.objects[num-1] = object{body: buf.Bytes(), stream: true}
	return num
}

// SetRoot sets the catalog object number
func (b *Builder) SetRoot(num int) *Builder {
	b.root = num
	return b
}

// Ref formats an indirect reference
func Ref(num int) string {
	return fmt.Sprintf("%d 0 R", num)
}

// Bytes serializes the document
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", b.version)

	type location struct {
		offset        int
		stream, index int // for packed objects
	}
	locs := make([]location, len(b.objects)+1)

	var packed []int
	for i, obj := range b.objects {
		num := i + 1
		if b.objStm && !obj.stream {
			packed = append(packed, num)
			continue
		}
		locs[num].offset = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, obj.body)
	}

	size := len(b.objects) + 1
	if len(packed) > 0 {
		stmNum := size
		size++
		var header, body bytes.Buffer
		for i, num := range packed {
			fmt.Fprintf(&header, "%d %d ", num, body.Len())
			body.Write(b.objects[num-1].body)
			body.WriteByte('\n')
			locs[num] = location{stream: stmNum, index: i}
		}
		data := deflate(append(header.Bytes(), body.Bytes()...))
		locs = append(locs, location{offset: buf.Len()})
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /ObjStm /N %d /First %d /Filter /FlateDecode /Length %d >>\nstream\n",
			stmNum, len(packed), header.Len(), len(data))
		buf.Write(data)
		buf.WriteString("\nendstream\nendobj\n")
	}

	trailer := strings.Join(b.trailer, " ")
	if b.root > 0 {
		trailer = "/Root " + Ref(b.root) + " " + trailer
	}

	if !b.xrefStream {
		xref := buf.Len()
		fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
		for num := 1; num < size; num++ {
			fmt.Fprintf(&buf, "%010d 00000 n \n", locs[num].offset)
		}
		fmt.Fprintf(&buf, "trailer\n<< /Size %d %s>>\nstartxref\n%d\n%%%%EOF\n", size, trailer, xref)
		return buf.Bytes()
	}

	xrefNum := size
	size++
	xref := buf.Len()
	locs = append(locs, location{offset: xref})

	var rows bytes.Buffer
	rows.Write([]byte{0, 0, 0, 0, 0, 0xff, 0xff})
	for num := 1; num < size; num++ {
		loc := locs[num]
		if loc.stream > 0 {
			rows.Write([]byte{2, 0, 0, byte(loc.stream >> 8), byte(loc.stream), byte(loc.index >> 8), byte(loc.index)})
			continue
		}
		off := loc.offset
		rows.Write([]byte{1, byte(off >> 24), byte(off >> 16), byte(off >> 8), byte(off), 0, 0})
	}
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 4 2] %s/Length %d >>\nstream\n",
		xrefNum, size, trailer, rows.Len())
	buf.Write(rows.Bytes())
	fmt.Fprintf(&buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}
