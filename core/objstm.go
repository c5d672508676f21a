package core

import (
	"bytes"
	"fmt"
)

// ObjectStream is a decoded /Type /ObjStm stream (PDF 1.5+). It stores
// several non-stream objects back to back after a header of
// "objNum offset" pairs.
type ObjectStream struct {
	stream  *Stream
	n       int
	first   int
	extends IndirectRef
	hasExt  bool
	entries []objStmEntry
	objects map[int]Object // index -> parsed object
	data    []byte         // decoded, nil until first access
}

type objStmEntry struct {
	objNum int
	offset int // relative to First
}

// NewObjectStream validates an object stream dictionary. Decoding is
// deferred until the first object is requested.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type: %v", stream.Dict.Get("Type"))
	}

	n, ok := ToInt(stream.Dict.Get("N"))
	if !ok || n < 0 {
		return nil, fmt.Errorf("invalid object stream /N: %v", stream.Dict.Get("N"))
	}
	first, ok := ToInt(stream.Dict.Get("First"))
	if !ok || first < 0 {
		return nil, fmt.Errorf("invalid object stream /First: %v", stream.Dict.Get("First"))
	}

	os := &ObjectStream{
		stream:  stream,
		n:       n,
		first:   first,
		objects: make(map[int]Object),
	}
	if ext := stream.Dict.Get("Extends"); ext != nil {
		ref, ok := ext.(IndirectRef)
		if !ok {
			return nil, fmt.Errorf("invalid /Extends type: %T", ext)
		}
		os.extends, os.hasExt = ref, true
	}
	return os, nil
}

// N returns the number of objects stored in the stream
func (os *ObjectStream) N() int { return os.n }

// First returns the offset of the first object in the decoded data
func (os *ObjectStream) First() int { return os.first }

// Extends returns the object stream this one extends, if any
func (os *ObjectStream) Extends() (IndirectRef, bool) { return os.extends, os.hasExt }

func (os *ObjectStream) load() error {
	if os.data != nil {
		return nil
	}

	data, err := os.stream.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode object stream: %w", err)
	}
	if os.first > len(data) {
		return fmt.Errorf("/First %d exceeds decoded length %d", os.first, len(data))
	}

	p := NewParser(bytes.NewReader(data[:os.first]))
	entries := make([]objStmEntry, 0, os.n)
	for i := 0; i < os.n; i++ {
		num, err := p.expectInt("object number")
		if err != nil {
			return fmt.Errorf("object stream header entry %d: %w", i, err)
		}
		off, err := p.expectInt("offset")
		if err != nil {
			return fmt.Errorf("object stream header entry %d: %w", i, err)
		}
		entries = append(entries, objStmEntry{objNum: num, offset: off})
	}

	os.entries = entries
	os.data = data
	return nil
}

// GetObjectByIndex parses the object at the given header position and
// returns it with its object number.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if err := os.load(); err != nil {
		return nil, 0, err
	}
	if index < 0 || index >= len(os.entries) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.entries))
	}

	num := os.entries[index].objNum
	if obj, ok := os.objects[index]; ok {
		return obj, num, nil
	}

	start := os.first + os.entries[index].offset
	end := len(os.data)
	if index+1 < len(os.entries) {
		if next := os.first + os.entries[index+1].offset; next >= start && next < end {
			end = next
		}
	}
	if start < 0 || start >= len(os.data) {
		return nil, 0, fmt.Errorf("object %d offset %d outside decoded data", num, start)
	}

	obj, err := NewParser(bytes.NewReader(os.data[start:end])).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object %d in object stream: %w", num, err)
	}
	os.objects[index] = obj
	return obj, num, nil
}

// GetObjectByNumber finds an object by number, returning it with its index
func (os *ObjectStream) GetObjectByNumber(objNum int) (Object, int, error) {
	if err := os.load(); err != nil {
		return nil, 0, err
	}
	for i, e := range os.entries {
		if e.objNum == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, i, err
		}
	}
	return nil, 0, fmt.Errorf("object %d not found in object stream", objNum)
}

// ObjectNumbers lists the object numbers in header order
func (os *ObjectStream) ObjectNumbers() ([]int, error) {
	if err := os.load(); err != nil {
		return nil, err
	}
	nums := make([]int, len(os.entries))
	for i, e := range os.entries {
		nums[i] = e.objNum
	}
	return nums, nil
}
