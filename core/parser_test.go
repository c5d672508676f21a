package core

import (
	"fmt"
	"io"
	"strings"
	"testing"
)

// mockResolver resolves references from a fixed map
type mockResolver struct {
	objects map[int]Object
}

func (m *mockResolver) ResolveReference(ref IndirectRef) (Object, error) {
	obj, ok := m.objects[ref.Number]
	if !ok {
		return nil, fmt.Errorf("object %d not found", ref.Number)
	}
	return obj, nil
}

func parseOne(t *testing.T, input string) Object {
	t.Helper()
	obj, err := NewParser(strings.NewReader(input)).ParseObject()
	if err != nil {
		t.Fatalf("ParseObject(%q) failed: %v", input, err)
	}
	return obj
}

// TestParserScalars tests parsing of the simple object types
func TestParserScalars(t *testing.T) {
	tests := []struct {
		input string
		want  Object
	}{
		{"null", Null{}},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"42", Int(42)},
		{"-7", Int(-7)},
		{"3.5", Real(3.5)},
		{"(text)", String("text")},
		{"<48656C6C6F>", String("Hello")},
		{"<414>", String("A@")},
		{"/MediaBox", Name("MediaBox")},
		{"% comment\n12", Int(12)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseOne(t, tt.input)
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestParserReferences tests "n g R" detection inside arrays
func TestParserReferences(t *testing.T) {
	obj := parseOne(t, "[1 0 R 2 3 /X 4 0 R]")
	arr, ok := obj.(Array)
	if !ok {
		t.Fatalf("expected Array, got %T", obj)
	}

	want := Array{IndirectRef{1, 0}, Int(2), Int(3), Name("X"), IndirectRef{4, 0}}
	if len(arr) != len(want) {
		t.Fatalf("got %d elements, want %d: %v", len(arr), len(want), arr)
	}
	for i := range want {
		if arr[i] != want[i] {
			t.Errorf("element %d = %#v, want %#v", i, arr[i], want[i])
		}
	}
}

// TestParserDict tests nested dictionaries and null entries
func TestParserDict(t *testing.T) {
	obj := parseOne(t, "<< /Type /Page /MediaBox [0 0 612 792] /Res << /F 1 0 R >> /Gone null >>")
	dict, ok := obj.(Dict)
	if !ok {
		t.Fatalf("expected Dict, got %T", obj)
	}

	if name, _ := dict.GetName("Type"); name != "Page" {
		t.Errorf("Type = %v, want Page", dict.Get("Type"))
	}
	if box, ok := dict.GetArray("MediaBox"); !ok || len(box) != 4 {
		t.Errorf("MediaBox = %v", dict.Get("MediaBox"))
	}
	res, ok := dict.GetDict("Res")
	if !ok {
		t.Fatalf("Res missing")
	}
	if res.Get("F") != (IndirectRef{1, 0}) {
		t.Errorf("Res/F = %v, want 1 0 R", res.Get("F"))
	}
	if dict.Has("Gone") {
		t.Error("null entry should be dropped")
	}
}

// TestParserErrors tests malformed objects
func TestParserErrors(t *testing.T) {
	for _, input := range []string{"<< 1 2 >>", "[1 2", "<< /A 1", "endobj", ")"} {
		if _, err := NewParser(strings.NewReader(input)).ParseObject(); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
}

// TestParserEOF tests that an empty input yields io.EOF
func TestParserEOF(t *testing.T) {
	_, err := NewParser(strings.NewReader("  ")).ParseObject()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestParseIndirectObject tests parsing "n g obj ... endobj"
func TestParseIndirectObject(t *testing.T) {
	obj, err := NewParser(strings.NewReader("7 0 obj\n<< /Type /Catalog >>\nendobj")).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	if obj.Ref != (IndirectRef{7, 0}) {
		t.Errorf("Ref = %v, want 7 0 R", obj.Ref)
	}
	if _, ok := obj.Object.(Dict); !ok {
		t.Errorf("expected Dict, got %T", obj.Object)
	}
}

// TestParseIndirectStream tests stream objects with direct and indirect lengths
func TestParseIndirectStream(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		resolver ReferenceResolver
	}{
		{
			name:  "direct length",
			input: "5 0 obj\n<< /Length 5 >>\nstream\nhello\nendstream\nendobj",
		},
		{
			name:     "indirect length",
			input:    "5 0 obj\n<< /Length 6 0 R >>\nstream\r\nhello\nendstream\nendobj",
			resolver: &mockResolver{objects: map[int]Object{6: Int(5)}},
		},
		{
			name:  "missing endobj",
			input: "5 0 obj << /Length 5 >> stream\nhelloendstream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(strings.NewReader(tt.input))
			if tt.resolver != nil {
				p.SetReferenceResolver(tt.resolver)
			}
			obj, err := p.ParseIndirectObject()
			if err != nil {
				t.Fatalf("ParseIndirectObject failed: %v", err)
			}
			stream, ok := obj.Object.(*Stream)
			if !ok {
				t.Fatalf("expected *Stream, got %T", obj.Object)
			}
			if string(stream.Data) != "hello" {
				t.Errorf("Data = %q, want hello", stream.Data)
			}
		})
	}
}

// TestParseIndirectStreamErrors tests bad stream framing
func TestParseIndirectStreamErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"length without resolver", "5 0 obj << /Length 6 0 R >> stream\nhello\nendstream endobj"},
		{"wrong length", "5 0 obj << /Length 3 >> stream\nhello\nendstream endobj"},
		{"missing length", "5 0 obj << >> stream\nhello\nendstream endobj"},
		{"not an object header", "5 obj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewParser(strings.NewReader(tt.input)).ParseIndirectObject(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
