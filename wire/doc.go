// Package wire implements the BSON byte-level codec used by the document
// package: a positional Reader over encoded buffers, growing document and
// array builders, and a comparator over encoded elements.
//
// An encoded element is a type byte, a NUL-terminated field name, and a
// type-dependent value. A document is an int32 total length, a run of
// elements, and a trailing EOO byte. All integers are little-endian.
//
// The Reader is total over well-formed input and does not validate: feeding
// it malformed bytes is the caller's responsibility. Builders always produce
// well-formed output.
package wire
