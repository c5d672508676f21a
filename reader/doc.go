// Package reader loads PDF documents and builds the page model the
// preflight passes run on.
//
// # Opening Documents
//
//	r, err := reader.NewReader(data)   // bytes already in memory
//	r, err := reader.Open("flyer.pdf") // or straight from disk
//
// NewReader checks the %PDF- header and loads the cross-reference chain:
// classic tables, xref streams, hybrid files and incremental updates. When
// the chain is damaged it is rebuilt by scanning for object headers.
// Encrypted documents are rejected with [ErrEncrypted].
//
// # Object Resolution
//
// Objects are loaded lazily and kept in an LRU cache:
//
//   - GetObject(objNum) - load object by number, including objects stored
//     in object streams
//   - ResolveReference(ref) - resolve an IndirectRef
//   - Resolve(obj) - resolve if indirect, otherwise return as-is
//
// References to free or undefined objects resolve to core.Null.
//
// # Document Model
//
// [Reader.Document] flattens the page tree into a *model.Document. Each
// page carries its media box, its decoded content and its classified
// XObjects. A page whose geometry, content or resources cannot be read
// keeps the failure in GeometryErr, ContentErr or ResourcesErr instead of
// failing the document.
package reader
