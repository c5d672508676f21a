package contentstream

// FontSizes returns the size operand of every "<name> <number> Tf"
// occurrence in decoded content, in stream order. Tokens inside strings,
// comments and inline images never match.
func FontSizes(content []byte) []float64 {
	var (
		sizes      []float64
		prev, last Token
		count      int
	)

	s := NewScanner(content)
	for {
		tok, ok := s.Next()
		if !ok {
			return sizes
		}
		if tok.Kind == TokenOperator && string(tok.Text) == "Tf" && count >= 2 &&
			prev.Kind == TokenName && last.Kind == TokenNumber {
			sizes = append(sizes, last.Value)
		}
		prev, last = last, tok
		count++
	}
}
