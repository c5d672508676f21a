// Package pages provides PDF page tree traversal and page access.
//
// # Page Tree
//
// PDF documents organize pages in a tree. [PageTree] flattens it into
// document order:
//
//	tree, _ := pages.NewCatalog(catalogDict, resolver).Pages()
//	all, _ := tree.Pages()
//
// MediaBox, CropBox, Resources and Rotate are inherited from every
// ancestor, the nearest one winning. Nodes without /Type are classified by
// the presence of /Kids, and a node reached twice is reported as an error
// so cyclic trees terminate.
//
// # Page Access
//
// A [Page] exposes its geometry, its decoded content ([Page.ContentData])
// and its XObject resources ([Page.XObjects]). Missing resources at any
// level yield an empty result rather than an error.
//
// # Object Resolution
//
// The [ObjectResolver] interface abstracts object lookup so the page tree
// does not depend on the reader.
package pages
