package core

import (
	"strings"
	"testing"
)

func collectTokens(t *testing.T, input string) []*Token {
	t.Helper()
	lexer := NewLexer(strings.NewReader(input))
	var tokens []*Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken failed: %v", err)
		}
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// TestLexerEOF tests EOF handling
func TestLexerEOF(t *testing.T) {
	for _, input := range []string{"", "   \t\n\r  "} {
		lexer := NewLexer(strings.NewReader(input))
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type != TokenEOF {
			t.Errorf("input %q: expected TokenEOF, got %v", input, tok.Type)
		}
	}
}

// TestLexerTokenSequence tests a dictionary mixing every token type
func TestLexerTokenSequence(t *testing.T) {
	input := "<< /Type /Page /Count 3 /Rate -1.5 /S (a\\)b) /H <4869> /K [1 0 R] >> % note\ntrue"
	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenDictStart, "<<"},
		{TokenName, "Type"},
		{TokenName, "Page"},
		{TokenName, "Count"},
		{TokenInteger, "3"},
		{TokenName, "Rate"},
		{TokenReal, "-1.5"},
		{TokenName, "S"},
		{TokenString, "a)b"},
		{TokenName, "H"},
		{TokenHexString, "4869"},
		{TokenName, "K"},
		{TokenArrayStart, "["},
		{TokenInteger, "1"},
		{TokenInteger, "0"},
		{TokenIndirectRef, "R"},
		{TokenArrayEnd, "]"},
		{TokenDictEnd, ">>"},
		{TokenComment, "% note"},
		{TokenKeyword, "true"},
	}

	tokens := collectTokens(t, input)
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || string(tokens[i].Value) != w.value {
			t.Errorf("token %d = (%v, %q), want (%v, %q)", i, tokens[i].Type, tokens[i].Value, w.typ, w.value)
		}
	}
}

// TestLexerStrings tests literal string escapes
func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "(hello)", "hello"},
		{"nested parens", "(a(b)c)", "a(b)c"},
		{"escapes", `(a\nb\tc)`, "a\nb\tc"},
		{"octal", `(\101\60)`, "A0"},
		{"backslash", `(a\\b)`, `a\b`},
		{"line continuation", "(ab\\\ncd)", "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := collectTokens(t, tt.input)
			if len(tokens) != 1 || tokens[0].Type != TokenString {
				t.Fatalf("expected one string token, got %v", tokens)
			}
			if got := string(tokens[0].Value); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestLexerNames tests #xx escapes in names
func TestLexerNames(t *testing.T) {
	tokens := collectTokens(t, "/A#20B /Im1/F2")
	want := []string{"A B", "Im1", "F2"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if string(tokens[i].Value) != w {
			t.Errorf("name %d = %q, want %q", i, tokens[i].Value, w)
		}
	}
}

// TestLexerNumbers tests integer and real recognition
func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"42", TokenInteger},
		{"-12", TokenInteger},
		{"+7", TokenInteger},
		{"3.", TokenReal},
		{".5", TokenReal},
		{"-0.25", TokenReal},
	}

	for _, tt := range tests {
		tokens := collectTokens(t, tt.input)
		if len(tokens) != 1 || tokens[0].Type != tt.typ {
			t.Errorf("%q: got %v, want one token of type %v", tt.input, tokens, tt.typ)
		}
	}
}

// TestLexerErrors tests malformed input
func TestLexerErrors(t *testing.T) {
	for _, input := range []string{"(unterminated", "<48G>", "> x", "<4869"} {
		lexer := NewLexer(strings.NewReader(input))
		if _, err := lexer.NextToken(); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
}

// TestLexerStreamData tests raw reads after the stream keyword
func TestLexerStreamData(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"LF", "stream\nDATAendstream"},
		{"CRLF", "stream\r\nDATAendstream"},
		{"CR", "stream\rDATAendstream"},
		{"trailing spaces", "stream  \nDATAendstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(strings.NewReader(tt.input))
			tok, err := lexer.NextToken()
			if err != nil || string(tok.Value) != "stream" {
				t.Fatalf("expected stream keyword, got %v, %v", tok, err)
			}
			if err := lexer.SkipStreamEOL(); err != nil {
				t.Fatalf("SkipStreamEOL failed: %v", err)
			}
			data, err := lexer.ReadBytes(4)
			if err != nil {
				t.Fatalf("ReadBytes failed: %v", err)
			}
			if string(data) != "DATA" {
				t.Errorf("data = %q, want DATA", data)
			}
			tok, err = lexer.NextToken()
			if err != nil || string(tok.Value) != "endstream" {
				t.Errorf("expected endstream, got %v, %v", tok, err)
			}
		})
	}
}

// TestLexerReadBytesShort tests a short binary read
func TestLexerReadBytesShort(t *testing.T) {
	lexer := NewLexer(strings.NewReader("abc"))
	data, err := lexer.ReadBytes(10)
	if err == nil {
		t.Fatal("expected error for short read")
	}
	if string(data) != "abc" {
		t.Errorf("partial data = %q, want abc", data)
	}
	if lexer.Pos() != 3 {
		t.Errorf("Pos() = %d, want 3", lexer.Pos())
	}
}
