// Package bsonmut provides a mutable element tree over the BSON binary
// document format.
//
// A loaded document stays in its original buffer: elements materialize
// lazily as the tree is navigated, untouched subtrees serialize as bulk
// byte copies, and handles to elements remain valid through any sequence
// of mutations. Documents created with in-place updates enabled report
// size-preserving value replacements as damage events, byte patches the
// caller applies directly to the original buffer.
//
// # Basic Usage
//
// Editing a document:
//
//	import "github.com/arloliu/bsonmut"
//
//	doc, _ := bsonmut.ParseDocument(data)
//	user := doc.Root().LeftChild()
//
//	// Replace a value and append a sibling.
//	_ = user.SetValueString("renamed")
//	_ = doc.Root().PushBack(doc.MakeElementInt64("visits", 42))
//
//	edited := doc.Serialize()
//
// Collecting in-place patches instead of re-serializing:
//
//	doc, _ := bsonmut.ParseDocumentInPlace(data)
//	n := doc.Root().LeftChild()
//	_ = n.SetValueInt32(7)
//
//	if damages, source, ok := doc.InPlaceUpdates(); ok {
//	    for _, ev := range damages {
//	        copy(data[ev.TargetOffset:ev.TargetOffset+ev.Size],
//	            source[ev.SourceOffset:ev.SourceOffset+ev.Size])
//	    }
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the document
// package, simplifying the most common use cases. For fine-grained control
// over construction options, use the document package directly; the wire
// package exposes the underlying codec and builders.
package bsonmut

import (
	"github.com/arloliu/bsonmut/document"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/snapshot"
)

// NewDocument creates an empty document whose root is an object element
// with an empty name.
func NewDocument(opts ...document.Option) (*document.Document, error) {
	return document.New(opts...)
}

// ParseDocument creates a document over the given encoded buffer.
//
// The buffer is borrowed, not copied: it must stay alive and unmodified
// for the document's lifetime. Elements are decoded lazily, so parsing is
// O(1) regardless of document size.
func ParseDocument(data []byte, opts ...document.Option) (*document.Document, error) {
	return document.Parse(data, opts...)
}

// ParseDocumentInPlace creates a document over the given encoded buffer
// with in-place update recording enabled.
//
// While every mutation is a size-preserving scalar replacement, the
// document accumulates damage events obtainable from InPlaceUpdates. The
// first mutation that cannot be expressed as a byte patch disables the
// mode permanently.
func ParseDocumentInPlace(data []byte, opts ...document.Option) (*document.Document, error) {
	allOpts := append([]document.Option{document.WithInPlaceUpdates()}, opts...)
	return document.Parse(data, allOpts...)
}

// EncodeSnapshot serializes the document's current state and wraps it into
// a self-describing, optionally compressed snapshot.
//
// Use format.CompressionNone for a byte-addressable capture, or one of the
// compressing codecs (Zstd, S2, LZ4) for storage-bound uses.
func EncodeSnapshot(doc *document.Document, compression format.CompressionType) ([]byte, error) {
	return snapshot.Encode(doc.Serialize(), compression)
}

// DecodeSnapshot unwraps a snapshot produced by EncodeSnapshot and loads
// the document it holds.
func DecodeSnapshot(data []byte, opts ...document.Option) (*document.Document, error) {
	raw, err := snapshot.Decode(data)
	if err != nil {
		return nil, err
	}

	return document.Parse(raw, opts...)
}
