package contentstream

import (
	"bytes"
	"strconv"
)

// TokenKind identifies the lexical class of a content stream token
type TokenKind int

const (
	TokenNumber   TokenKind = iota // 12, -3.5, .5
	TokenName                      // /F1
	TokenOperator                  // Tf, BT, T*, '
	TokenString                    // (literal) or <hex>
	TokenBracket                   // [ ] << >>
	TokenOther                     // true, false, null and malformed numbers
)

// Token is a single lexical token of a content stream
type Token struct {
	Kind  TokenKind
	Text  []byte  // Raw bytes of the token; for names, without the slash
	Value float64 // Only set for TokenNumber
}

// Scanner splits decoded content stream data into tokens. It never fails:
// bytes it cannot make sense of become TokenOther, and unterminated
// strings run to the end of the data. Comments and inline image data are
// skipped.
type Scanner struct {
	data []byte
	pos  int
}

// NewScanner creates a scanner over data
func NewScanner(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Next returns the next token, or false at end of data
func (s *Scanner) Next() (Token, bool) {
	for {
		s.skipWhitespace()
		if s.pos >= len(s.data) {
			return Token{}, false
		}
		if s.data[s.pos] != '%' {
			break
		}
		s.skipComment()
	}

	start := s.pos
	c := s.data[s.pos]

	switch {
	case c == '(':
		s.skipString()
		return Token{Kind: TokenString, Text: s.data[start:s.pos]}, true

	case c == '<' && s.peek(1) == '<', c == '>' && s.peek(1) == '>':
		s.pos += 2
		return Token{Kind: TokenBracket, Text: s.data[start:s.pos]}, true

	case c == '<':
		s.skipHexString()
		return Token{Kind: TokenString, Text: s.data[start:s.pos]}, true

	case c == '[' || c == ']' || c == '{' || c == '}':
		s.pos++
		return Token{Kind: TokenBracket, Text: s.data[start:s.pos]}, true

	case c == '/':
		s.pos++
		s.skipRegular()
		return Token{Kind: TokenName, Text: s.data[start+1 : s.pos]}, true

	case c == '+' || c == '-' || c == '.' || isDigit(c):
		s.skipRegular()
		text := s.data[start:s.pos]
		if v, ok := parseNumber(text); ok {
			return Token{Kind: TokenNumber, Text: text, Value: v}, true
		}
		return Token{Kind: TokenOther, Text: text}, true

	case isDelimiter(c):
		// Stray ')' or '>'
		s.pos++
		return Token{Kind: TokenOther, Text: s.data[start:s.pos]}, true
	}

	s.skipRegular()
	text := s.data[start:s.pos]
	switch string(text) {
	case "true", "false", "null":
		return Token{Kind: TokenOther, Text: text}, true
	case "ID":
		s.skipInlineImage()
	}
	return Token{Kind: TokenOperator, Text: text}, true
}

func (s *Scanner) peek(offset int) byte {
	if s.pos+offset < len(s.data) {
		return s.data[s.pos+offset]
	}
	return 0
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.data) && isWhitespace(s.data[s.pos]) {
		s.pos++
	}
}

func (s *Scanner) skipComment() {
	for s.pos < len(s.data) && s.data[s.pos] != '\r' && s.data[s.pos] != '\n' {
		s.pos++
	}
}

// skipRegular advances past a run of regular characters
func (s *Scanner) skipRegular() {
	for s.pos < len(s.data) && !isWhitespace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
}

// skipString advances past a literal string, honoring nested parentheses
// and backslash escapes.
func (s *Scanner) skipString() {
	s.pos++ // skip '('
	depth := 1
	for s.pos < len(s.data) && depth > 0 {
		switch s.data[s.pos] {
		case '\\':
			s.pos++
		case '(':
			depth++
		case ')':
			depth--
		}
		s.pos++
	}
	if s.pos > len(s.data) {
		s.pos = len(s.data)
	}
}

func (s *Scanner) skipHexString() {
	end := bytes.IndexByte(s.data[s.pos:], '>')
	if end == -1 {
		s.pos = len(s.data)
		return
	}
	s.pos += end + 1
}

// skipInlineImage advances past the binary data following an ID operator,
// up to the EI operator that ends it.
func (s *Scanner) skipInlineImage() {
	if s.pos < len(s.data) {
		s.pos++ // single whitespace after ID
	}
	for i := s.pos; i+1 < len(s.data); i++ {
		if s.data[i] != 'E' || s.data[i+1] != 'I' {
			continue
		}
		before := i == s.pos || isWhitespace(s.data[i-1])
		after := i+2 == len(s.data) || isWhitespace(s.data[i+2]) || isDelimiter(s.data[i+2])
		if before && after {
			s.pos = i
			return
		}
	}
	s.pos = len(s.data)
}

// parseNumber accepts PDF numbers: an optional sign, digits and at most
// one decimal point, with at least one digit.
func parseNumber(text []byte) (float64, bool) {
	digits := 0
	dots := 0
	for i, c := range text {
		switch {
		case isDigit(c):
			digits++
		case c == '.':
			dots++
		case (c == '+' || c == '-') && i == 0:
		default:
			return 0, false
		}
	}
	if digits == 0 || dots > 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
