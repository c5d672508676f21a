// Package filters provides PDF stream decompression filters.
//
// # Supported Filters
//
// FlateDecode (zlib/deflate), with TIFF predictor 2 and PNG predictors 10-15:
//
//	decoded, err := filters.FlateDecode(data, params)
//
// LZWDecode, honoring /EarlyChange:
//
//	decoded, err := filters.LZWDecode(data, params)
//
// ASCIIHexDecode, ASCII85Decode and RunLengthDecode take no parameters.
//
// CCITTFaxDecode decodes Group 3 and Group 4 fax data through
// golang.org/x/image/ccitt.
//
// Every decoder refuses to produce more than MaxDecodedSize bytes and
// returns ErrTooLarge instead.
//
// # Decode Parameters
//
// Filters accept a Params map converted from the /DecodeParms dictionary:
//
//	params := filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	    "Colors":    3,
//	}
package filters
