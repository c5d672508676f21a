package core

import (
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver resolves indirect references. The parser needs one to
// read streams whose /Length is an indirect object.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from an io.Reader using a Lexer for tokenization.
// It keeps one token of lookahead, which is enough to recognize "n g R".
type Parser struct {
	lexer        *Lexer
	currentToken *Token
	peekToken    *Token
	err          error // first lexer error, reported by the next Parse call
	resolver     ReferenceResolver
}

// NewParser creates a new PDF parser for the given reader
func NewParser(r io.Reader) *Parser {
	p := &Parser{lexer: NewLexer(r)}
	p.nextToken()
	p.nextToken()
	return p
}

// SetReferenceResolver sets the resolver used for indirect stream lengths
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// nextToken shifts the lookahead. After the "stream" keyword the input is
// binary, so no further token is read until parseStream has consumed it.
func (p *Parser) nextToken() {
	p.currentToken = p.peekToken

	if p.currentToken != nil &&
		p.currentToken.Type == TokenKeyword &&
		string(p.currentToken.Value) == "stream" {
		p.peekToken = nil
		return
	}

	token, err := p.lexer.NextToken()
	if err != nil {
		if p.err == nil {
			p.err = err
		}
		p.peekToken = nil
		return
	}
	p.peekToken = token
}

func (p *Parser) skipComments() {
	for p.currentToken != nil && p.currentToken.Type == TokenComment {
		p.nextToken()
	}
}

// current returns the current token or the pending lexer error
func (p *Parser) current() (*Token, error) {
	p.skipComments()
	if p.currentToken == nil {
		if p.err != nil {
			return nil, p.err
		}
		return nil, fmt.Errorf("unexpected end of input")
	}
	return p.currentToken, nil
}

// ParseObject parses and returns the next PDF object from the input.
// It returns io.EOF at the end of the input.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.current()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			p.nextToken()
			return Null{}, nil
		case "true":
			p.nextToken()
			return Bool(true), nil
		case "false":
			p.nextToken()
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)

	case TokenInteger:
		return p.parseNumber()

	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", tok.Value, err)
		}
		p.nextToken()
		return Real(val), nil

	case TokenString:
		p.nextToken()
		return String(tok.Value), nil

	case TokenHexString:
		hexStr := string(tok.Value)
		if len(hexStr)%2 != 0 {
			hexStr += "0"
		}
		result := make([]byte, len(hexStr)/2)
		for i := 0; i < len(hexStr); i += 2 {
			result[i/2] = hexValue(hexStr[i])<<4 | hexValue(hexStr[i+1])
		}
		p.nextToken()
		return String(result), nil

	case TokenName:
		p.nextToken()
		return Name(tok.Value), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()
	}

	return nil, fmt.Errorf("unexpected token %q at position %d", tok.Value, tok.Pos)
}

// parseNumber parses an integer, a real, or an indirect reference "n g R"
func (p *Parser) parseNumber() (Object, error) {
	first := string(p.currentToken.Value)

	firstInt, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		f, err := strconv.ParseFloat(first, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", first)
		}
		p.nextToken()
		return Real(f), nil
	}

	if p.peekToken != nil && p.peekToken.Type == TokenInteger {
		secondInt, err := strconv.ParseInt(string(p.peekToken.Value), 10, 64)
		if err == nil {
			p.nextToken() // second integer
			if p.peekToken != nil && p.peekToken.Type == TokenIndirectRef {
				p.nextToken() // R
				p.nextToken()
				return IndirectRef{Number: int(firstInt), Generation: int(secondInt)}, nil
			}
			// Not a reference: the second integer stays current
			return Int(firstInt), nil
		}
	}

	p.nextToken()
	return Int(firstInt), nil
}

// parseArray parses "[obj1 obj2 ...]"
func (p *Parser) parseArray() (Object, error) {
	p.nextToken()

	arr := Array{}
	for {
		tok, err := p.current()
		if err != nil {
			return nil, fmt.Errorf("in array: %w", err)
		}
		if tok.Type == TokenArrayEnd {
			p.nextToken()
			return arr, nil
		}
		if tok.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected EOF in array")
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing array element: %w", err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses "<< /Key value ... >>"
func (p *Parser) parseDict() (Object, error) {
	p.nextToken()

	dict := make(Dict)
	for {
		tok, err := p.current()
		if err != nil {
			return nil, fmt.Errorf("in dictionary: %w", err)
		}
		if tok.Type == TokenDictEnd {
			p.nextToken()
			return dict, nil
		}
		if tok.Type == TokenEOF {
			return nil, fmt.Errorf("unexpected EOF in dictionary")
		}
		if tok.Type != TokenName {
			return nil, fmt.Errorf("expected name for dictionary key at position %d, got %q", tok.Pos, tok.Value)
		}
		key := string(tok.Value)
		p.nextToken()

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing value for key /%s: %w", key, err)
		}
		// A null value is equivalent to an absent entry
		if _, isNull := value.(Null); !isNull {
			dict[key] = value
		}
	}
}

// ParseIndirectObject parses "num gen obj <object> endobj", including
// stream objects.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("obj"); err != nil {
		return nil, err
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("error parsing object %d: %w", num, err)
	}

	if p.currentToken != nil && p.currentToken.Type == TokenKeyword && string(p.currentToken.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("stream in object %d must follow a dictionary", num)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream of object %d: %w", num, err)
		}
		obj = stream
	}

	// Some writers omit endobj before the next "obj"; accept EOF too.
	if tok, err := p.current(); err == nil && tok.Type == TokenKeyword && string(tok.Value) == "endobj" {
		p.nextToken()
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

func (p *Parser) expectInt(what string) (int, error) {
	tok, err := p.current()
	if err != nil {
		return 0, fmt.Errorf("expected %s: %w", what, err)
	}
	if tok.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s, got %q", what, tok.Value)
	}
	n, err := strconv.Atoi(string(tok.Value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, tok.Value, err)
	}
	p.nextToken()
	return n, nil
}

func (p *Parser) expectKeyword(keyword string) error {
	tok, err := p.current()
	if err != nil {
		return fmt.Errorf("expected %q: %w", keyword, err)
	}
	if tok.Type != TokenKeyword || string(tok.Value) != keyword {
		return fmt.Errorf("expected %q keyword, got %q", keyword, tok.Value)
	}
	p.nextToken()
	return nil
}

// parseStream reads the binary data following the "stream" keyword,
// using /Length from the stream dictionary.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	length, err := p.streamLength(dict)
	if err != nil {
		return nil, err
	}

	// The lexer sits right after "stream"; currentToken/peekToken are stale.
	if err := p.lexer.SkipStreamEOL(); err != nil {
		return nil, fmt.Errorf("failed to skip EOL after stream keyword: %w", err)
	}

	data, err := p.lexer.ReadBytes(length)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream data: %w", err)
	}

	token, err := p.lexer.NextToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read token after stream data: %w", err)
	}
	if token.Type != TokenKeyword || string(token.Value) != "endstream" {
		return nil, fmt.Errorf("expected 'endstream' after %d bytes, got %q", length, token.Value)
	}

	p.currentToken = nil
	p.peekToken = nil
	p.nextToken()
	p.nextToken()

	return &Stream{Dict: dict, Data: data}, nil
}

func (p *Parser) streamLength(dict Dict) (int, error) {
	lengthObj := dict.Get("Length")
	if ref, ok := lengthObj.(IndirectRef); ok {
		if p.resolver == nil {
			return 0, fmt.Errorf("indirect stream length %s needs a reference resolver", ref)
		}
		resolved, err := p.resolver.ResolveReference(ref)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve stream length %s: %w", ref, err)
		}
		lengthObj = resolved
	}

	length, ok := ToInt(lengthObj)
	if !ok {
		return 0, fmt.Errorf("invalid stream /Length: %v", lengthObj)
	}
	if length < 0 {
		return 0, fmt.Errorf("invalid stream length: %d", length)
	}
	return length, nil
}
