package filters

import (
	"bytes"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes CCITT Group 3/4 fax data, as used by scanned
// bi-level images.
//
// Parameters from the PDF decode parameters dictionary:
//   - K: <0 Group 4, >=0 Group 3
//   - Columns: image width in pixels (default 1728)
//   - Rows: image height in pixels (default 0, detected from the data)
//   - BlackIs1: bit interpretation (default false)
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := getIntParam(params, "Columns", 1728)
	rows := getIntParam(params, "Rows", 0)

	sf := ccitt.Group3
	if getIntParam(params, "K", 0) < 0 {
		sf = ccitt.Group4
	}
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}

	opts := &ccitt.Options{Invert: getBoolParam(params, "BlackIs1", false)}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts)
	return readLimited(r)
}
