package core

import (
	"fmt"

	"github.com/tsawler/preflight/internal/filters"
)

// Decode applies the stream's /Filter chain to its raw data. Image codecs
// (DCTDecode, JPXDecode, JBIG2Decode) are left encoded: the checks only
// need image dictionaries, never pixels.
//
// /Filter and /DecodeParms must already be direct objects; the reader
// resolves them before calling Decode.
func (s *Stream) Decode() ([]byte, error) {
	names, err := s.filterNames()
	if err != nil {
		return nil, err
	}

	paramsObj := s.Dict.Get("DecodeParms")
	if paramsObj == nil {
		paramsObj = s.Dict.Get("DP")
	}

	data := s.Data
	for i, name := range names {
		var params Dict
		if arr, ok := paramsObj.(Array); ok {
			params, _ = arr.Get(i).(Dict)
		} else {
			params, _ = paramsObj.(Dict)
		}

		if isImageFilter(name) {
			return data, nil
		}
		data, err = decodeWithFilter(data, name, params)
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
		}
	}
	return data, nil
}

// filterNames returns /Filter as a list, accepting a single name or an array
func (s *Stream) filterNames() ([]string, error) {
	filterObj := s.Dict.Get("Filter")
	if filterObj == nil {
		filterObj = s.Dict.Get("F")
	}

	switch f := filterObj.(type) {
	case nil:
		return nil, nil
	case Name:
		return []string{string(f)}, nil
	case Array:
		names := make([]string, len(f))
		for i, item := range f {
			name, ok := item.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %T", i, item)
			}
			names[i] = string(name)
		}
		return names, nil
	}
	return nil, fmt.Errorf("invalid Filter type: %T", filterObj)
}

func isImageFilter(name string) bool {
	switch name {
	case "DCTDecode", "DCT", "JPXDecode", "JBIG2Decode":
		return true
	}
	return false
}

// decodeWithFilter applies a single decompression filter to data
func decodeWithFilter(data []byte, filterName string, params Dict) ([]byte, error) {
	switch filterName {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, dictToParams(params))
	case "LZWDecode", "LZW":
		return filters.LZWDecode(data, dictToParams(params))
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		return filters.RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, dictToParams(params))
	case "Crypt":
		return nil, fmt.Errorf("encrypted streams are not supported")
	}
	return nil, fmt.Errorf("unknown filter: %s", filterName)
}

// dictToParams converts a DecodeParms dictionary to filters.Params
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}

	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		}
	}
	return params
}
