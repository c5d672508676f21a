package filters

import (
	"bytes"
	"fmt"
)

// ASCIIHexDecode decodes hexadecimal data. Whitespace is ignored, '>' ends
// the data and an odd final digit is padded with 0.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	var hi byte
	half := false

	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}
		v, ok := hexDigit(c)
		if !ok {
			return nil, fmt.Errorf("invalid hex digit: %q", c)
		}
		if half {
			out.WriteByte(hi<<4 | v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out.WriteByte(hi << 4)
	}

	return out.Bytes(), nil
}

// ASCII85Decode decodes base-85 data. 'z' stands for four zero bytes and
// "~>" ends the data.
func ASCII85Decode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	group := make([]byte, 0, 5)

	flush := func() {
		n := len(group)
		if n == 0 {
			return
		}
		for len(group) < 5 {
			group = append(group, 84) // pad with 'u'
		}
		var v uint32
		for _, d := range group {
			v = v*85 + uint32(d)
		}
		full := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
		out.Write(full[:n-1])
		group = group[:0]
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case isWhitespace(c):
			continue
		case c == '~':
			if len(group) == 1 {
				return nil, fmt.Errorf("ASCII85 data ends with a single digit")
			}
			flush()
			return out.Bytes(), nil
		case c == 'z' && len(group) == 0:
			out.Write([]byte{0, 0, 0, 0})
		case c >= '!' && c <= 'u':
			group = append(group, c-'!')
			if len(group) == 5 {
				flush()
			}
		default:
			return nil, fmt.Errorf("invalid ASCII85 character: %q", c)
		}
	}
	flush()

	return out.Bytes(), nil
}

// RunLengthDecode decodes the PackBits-style RunLengthDecode filter
func RunLengthDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	for i := 0; i < len(data); {
		n := int(data[i])
		i++
		switch {
		case n == 128:
			return out.Bytes(), nil
		case n < 128:
			end := i + n + 1
			if end > len(data) {
				return nil, fmt.Errorf("run-length literal overruns input")
			}
			out.Write(data[i:end])
			i = end
		default:
			if i >= len(data) {
				return nil, fmt.Errorf("run-length repeat missing byte")
			}
			out.Write(bytes.Repeat(data[i:i+1], 257-n))
			i++
		}
		if out.Len() > MaxDecodedSize {
			return nil, ErrTooLarge
		}
	}
	return out.Bytes(), nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
