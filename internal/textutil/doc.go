// Package textutil provides the text normalization used to compare contact
// values, plus filename sanitization for exported cards.
//
// The primary use cases are:
//   - Folding values into comparison keys (Unicode NFKC, case folding, collapsed whitespace)
//   - Reducing telephone numbers to their dialable digits
//   - Tokenizing names and addresses for partial-overlap evidence
//   - Sanitizing filenames and path segments for safe filesystem use
//
// Keys are only ever used for equality; the display form of a value is kept
// by the caller untouched apart from whitespace cleanup.
package textutil
