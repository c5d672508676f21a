package filters

import (
	"fmt"
)

// LZWDecode decodes PDF LZW data. PDF's variant is MSB-first with 9-12 bit
// codes and, by default, switches code width one code early
// (/EarlyChange 1), which compress/lzw cannot express, hence the local
// decoder.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	early := getIntParam(params, "EarlyChange", 1)
	if early != 0 && early != 1 {
		return nil, fmt.Errorf("invalid EarlyChange %d", early)
	}

	const (
		clearCode = 256
		eodCode   = 257
	)

	var (
		out    []byte
		table  [][]byte
		prev   []byte
		width  = 9
		bitBuf uint32
		nBits  int
		pos    int
	)

	reset := func() {
		table = table[:0]
		for i := 0; i < 256; i++ {
			table = append(table, []byte{byte(i)})
		}
		table = append(table, nil, nil) // clear, eod
		width = 9
		prev = nil
	}
	reset()

	for {
		for nBits < width && pos < len(data) {
			bitBuf = bitBuf<<8 | uint32(data[pos])
			nBits += 8
			pos++
		}
		if nBits < width {
			break // ran out of input without EOD; keep what we have
		}
		code := int(bitBuf>>(nBits-width)) & (1<<width - 1)
		nBits -= width

		switch {
		case code == clearCode:
			reset()
			continue
		case code == eodCode:
			return out, nil
		}

		var entry []byte
		switch {
		case code < len(table) && table[code] != nil:
			entry = table[code]
		case code == len(table) && prev != nil:
			entry = append(append([]byte{}, prev...), prev[0])
		default:
			return nil, fmt.Errorf("invalid LZW code %d", code)
		}

		out = append(out, entry...)
		if len(out) > MaxDecodedSize {
			return nil, ErrTooLarge
		}

		if prev != nil && len(table) < 4096 {
			next := append(append([]byte{}, prev...), entry[0])
			table = append(table, next)
		}
		prev = entry

		if len(table)+early >= 1<<width && width < 12 {
			width++
		}
	}

	return out, nil
}
