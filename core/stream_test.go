package core

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"testing"
)

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// TestStreamDecode tests filter dispatch and chains
func TestStreamDecode(t *testing.T) {
	content := []byte("BT /F1 12 Tf (Hello) Tj ET")
	flated := zlibCompress(content)

	tests := []struct {
		name string
		dict Dict
		data []byte
		want []byte
	}{
		{"no filter", Dict{}, content, content},
		{"flate", Dict{"Filter": Name("FlateDecode")}, flated, content},
		{"abbreviated", Dict{"Filter": Name("Fl")}, flated, content},
		{"abbreviated key", Dict{"F": Name("AHx")}, []byte("414243>"), []byte("ABC")},
		{
			"chain",
			Dict{"Filter": Array{Name("ASCIIHexDecode"), Name("FlateDecode")}},
			[]byte(hex.EncodeToString(flated) + ">"),
			content,
		},
		{"run length", Dict{"Filter": Name("RunLengthDecode")}, []byte{1, 'h', 'i', 128}, []byte("hi")},
		{"jpeg passthrough", Dict{"Filter": Name("DCTDecode")}, []byte{0xFF, 0xD8}, []byte{0xFF, 0xD8}},
		{
			"image codec after flate",
			Dict{"Filter": Array{Name("FlateDecode"), Name("DCTDecode")}},
			zlibCompress([]byte{0xFF, 0xD8}),
			[]byte{0xFF, 0xD8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{Dict: tt.dict, Data: tt.data}
			got, err := s.Decode()
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestStreamDecodeParams tests /DecodeParms as a dict and as an array
func TestStreamDecodeParams(t *testing.T) {
	// One PNG Up row over a zero row: output equals the row
	raw := zlibCompress([]byte{2, 1, 2, 3})
	want := []byte{1, 2, 3}
	params := Dict{"Predictor": Int(12), "Columns": Int(3)}

	tests := []struct {
		name string
		dict Dict
		data []byte
	}{
		{"dict", Dict{"Filter": Name("FlateDecode"), "DecodeParms": params}, raw},
		{
			"array aligned with filters",
			Dict{
				"Filter":      Array{Name("ASCIIHexDecode"), Name("FlateDecode")},
				"DecodeParms": Array{Null{}, params},
			},
			[]byte(hex.EncodeToString(raw)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&Stream{Dict: tt.dict, Data: tt.data}).Decode()
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("Decode() = %v, want %v", got, want)
			}
		})
	}
}

// TestStreamDecodeErrors tests unsupported and malformed filters
func TestStreamDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		dict Dict
	}{
		{"unknown filter", Dict{"Filter": Name("Bogus")}},
		{"crypt", Dict{"Filter": Name("Crypt")}},
		{"filter not a name", Dict{"Filter": Int(3)}},
		{"array element not a name", Dict{"Filter": Array{Int(1)}}},
		{"bad flate data", Dict{"Filter": Name("FlateDecode")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{Dict: tt.dict, Data: []byte("not encoded")}
			if _, err := s.Decode(); err == nil {
				t.Error("expected error")
			}
		})
	}
}
