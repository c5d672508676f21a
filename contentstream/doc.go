// Package contentstream tokenizes decoded PDF content streams.
//
// Content streams hold the operators that paint a page. Operands precede
// their operator:
//
//	BT /F1 12 Tf 72 712 Td (Hello) Tj ET
//
// The Scanner splits such data into tokens without building operations.
// FontSizes uses it to pull the size operand of every Tf operator:
//
//	sizes := contentstream.FontSizes(data) // [12]
//
// # Token Kinds
//
//   - TokenNumber - integer or real operands
//   - TokenName - /F1, without the slash
//   - TokenOperator - Tf, BT, T*, '
//   - TokenString - literal (...) and hex <...> strings, kept raw
//   - TokenBracket - array and dictionary delimiters
//   - TokenOther - true, false, null and malformed numbers
//
// Comments and the binary data of inline images (between ID and EI) are
// skipped.
package contentstream
