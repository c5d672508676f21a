// Package model provides the data structures shared by the parser and the
// preflight passes.
//
// A [Document] is produced once per input by the reader package and is never
// modified afterwards. The check passes only read it, which is what allows
// them to run concurrently.
//
// # Document Structure
//
// The [Document] type is an ordered list of pages:
//
//	doc := model.NewDocument()
//	doc.AddPage(&model.Page{MediaBox: model.NewRect(0, 0, 595, 842)})
//
// Each [Page] carries its 1-based number, its media box, its decoded content
// stream and the XObjects found in its resources. Problems found while
// building a page are not returned as errors; they are recorded on the page
// (GeometryErr, ContentErr, ResourcesErr) so that one damaged page never
// aborts a run.
//
// # XObjects
//
// [XObject] is a small tagged variant. Its [XObjectKind] is one of
// [KindImage], [KindTransparencyGroup] or [KindOther]; only images carry
// pixel dimensions.
//
// # Findings
//
// Passes produce [Issue] values (print-readiness problems, shown to users)
// and [Warning] values (computations that were skipped because the page was
// damaged). Both are plain values and are never mutated after creation.
//
// # Errors
//
// [DocumentParseError] is the only fatal error. [ErrPageContentDecode],
// [ErrMalformedGeometry] and [ErrPageResources] classify recoverable
// per-page failures.
package model
