package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// MaxDecodedSize caps the output of a single decode call. Content streams
// are small; a larger result almost always means a decompression bomb.
const MaxDecodedSize = 256 << 20

// ErrTooLarge is returned when decoded data would exceed MaxDecodedSize.
var ErrTooLarge = errors.New("decoded stream exceeds size limit")

// Params holds decode parameters from a /DecodeParms dictionary, already
// converted to Go values (int, float64, bool, string).
type Params map[string]interface{}

// FlateDecode decompresses zlib/deflate data and undoes any predictor
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer zr.Close()

	out, err := readLimited(zr)
	if err != nil {
		// Truncated streams are common; keep what was inflated.
		if len(out) == 0 || errors.Is(err, ErrTooLarge) {
			return nil, fmt.Errorf("zlib decompression failed: %w", err)
		}
	}

	return applyPredictor(out, params)
}

// readLimited reads r to EOF, failing once MaxDecodedSize is exceeded
func readLimited(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxDecodedSize+1))
	if n > MaxDecodedSize {
		return nil, ErrTooLarge
	}
	return buf.Bytes(), err
}

// applyPredictor undoes TIFF predictor 2 or the PNG predictors 10-15.
// Predictor 1 (or no /Predictor) leaves the data unchanged.
func applyPredictor(data []byte, params Params) ([]byte, error) {
	predictor := getIntParam(params, "Predictor", 1)
	switch {
	case predictor == 1:
		return data, nil
	case predictor == 2:
		return tiffPredictor(data, params)
	case predictor >= 10 && predictor <= 15:
		return pngPredictor(data, params)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// rowGeometry returns bytes per pixel and bytes per row for predictor math
func rowGeometry(params Params) (bpp, rowLen int, err error) {
	columns := getIntParam(params, "Columns", 1)
	colors := getIntParam(params, "Colors", 1)
	bpc := getIntParam(params, "BitsPerComponent", 8)
	if columns < 1 || colors < 1 || bpc < 1 {
		return 0, 0, fmt.Errorf("invalid predictor parameters: Columns=%d Colors=%d BitsPerComponent=%d",
			columns, colors, bpc)
	}
	bpp = (colors*bpc + 7) / 8
	rowLen = (columns*colors*bpc + 7) / 8
	return bpp, rowLen, nil
}

func tiffPredictor(data []byte, params Params) ([]byte, error) {
	if bpc := getIntParam(params, "BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor supports 8 bits per component, got %d", bpc)
	}
	bpp, rowLen, err := rowGeometry(params)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	copy(out, data)
	for start := 0; start < len(out); start += rowLen {
		end := start + rowLen
		if end > len(out) {
			end = len(out)
		}
		for i := start + bpp; i < end; i++ {
			out[i] += out[i-bpp]
		}
	}
	return out, nil
}

func pngPredictor(data []byte, params Params) ([]byte, error) {
	bpp, rowLen, err := rowGeometry(params)
	if err != nil {
		return nil, err
	}

	stride := rowLen + 1 // leading filter-type byte
	rows := len(data) / stride
	out := make([]byte, rows*rowLen)
	prev := make([]byte, rowLen)

	for r := 0; r < rows; r++ {
		src := data[r*stride : (r+1)*stride]
		filter, in := src[0], src[1:]
		cur := out[r*rowLen : (r+1)*rowLen]

		for i := 0; i < rowLen; i++ {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]

			switch filter {
			case 0:
				cur[i] = in[i]
			case 1:
				cur[i] = in[i] + left
			case 2:
				cur[i] = in[i] + up
			case 3:
				cur[i] = in[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = in[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG filter type %d in row %d", filter, r)
			}
		}
		prev = cur
	}

	return out, nil
}

// paeth is the PNG Paeth predictor
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func getIntParam(params Params, key string, defaultValue int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

func getBoolParam(params Params, key string, defaultValue bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return defaultValue
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
