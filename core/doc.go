// Package core reads the PDF object syntax: tokens, objects, streams and
// cross-reference data.
//
// The types here are what the reader package needs to walk from the trailer
// to each page's media box, content streams and XObjects. Nothing in this
// package interprets page content.
//
// # Objects
//
// Every parsed value satisfies [Object]: [Null], [Bool], [Int], [Real],
// [String], [Name], [Array], [Dict], [Stream] and [IndirectRef]. Numbers are
// read through [ToFloat] and [ToInt], which accept either numeric type.
//
// # Parsing
//
// [Lexer] splits input into tokens and [Parser] builds objects from them,
// including complete "n g obj ... endobj" definitions. A stream's /Length
// may be an indirect reference, which the parser resolves through its
// [ReferenceResolver].
//
// # Cross-reference data
//
// [XRefParser] follows startxref and /Prev through classic tables and xref
// streams, newest entries first. When that chain is unusable,
// [XRefParser.Reconstruct] rebuilds a table by scanning the file for object
// headers and trailers.
//
// Compressed objects live in an [ObjectStream] (/Type /ObjStm); the xref
// entry gives the stream number and the index inside it.
//
// # Stream decoding
//
// [Stream.Decode] runs the /Filter chain: FlateDecode, LZWDecode,
// ASCIIHexDecode, ASCII85Decode, RunLengthDecode and CCITTFaxDecode. Image
// codecs (DCTDecode, JPXDecode, JBIG2Decode) stop the chain and the data is
// returned still encoded.
package core
