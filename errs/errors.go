// Package errs defines the sentinel errors returned by bsonmut mutators.
//
// Call sites wrap these with fmt.Errorf("%w: ...") to attach diagnostics,
// so callers should match with errors.Is.
package errs

import "errors"

var (
	// ErrIllegalAttach is returned when the element being attached is not
	// detached: it still has a parent or a sibling link.
	ErrIllegalAttach = errors.New("element is not attachable")

	// ErrNoParent is returned for a sibling insertion against an element
	// that has no parent.
	ErrNoParent = errors.New("element has no parent")

	// ErrRemoveRoot is returned when attempting to remove the root element.
	ErrRemoveRoot = errors.New("cannot remove the root element")

	// ErrIllegalRoot is returned for operations forbidden on the root
	// element, such as rename or value replacement.
	ErrIllegalRoot = errors.New("operation not permitted on the root element")

	// ErrNotComposite is returned when adding a child to a scalar element.
	ErrNotComposite = errors.New("element cannot have children")

	// ErrBadType is returned when an encoded value has an unusable type,
	// such as an end-of-document marker.
	ErrBadType = errors.New("invalid element type")

	// ErrWrongDocument is returned when an element from one document is
	// passed to a mutator of another.
	ErrWrongDocument = errors.New("element belongs to another document")

	// ErrInvalidDocumentSize is returned when a source buffer's length
	// differs from its own length prefix, or when it is too short to be a
	// document at all.
	ErrInvalidDocumentSize = errors.New("invalid document size")

	// ErrInvalidSnapshotHeader is returned when snapshot bytes do not start
	// with a valid snapshot header.
	ErrInvalidSnapshotHeader = errors.New("invalid snapshot header")

	// ErrInvalidMagicNumber is returned when a snapshot header carries the
	// wrong magic number.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidCompressionType is returned when a snapshot header names an
	// unknown compression codec.
	ErrInvalidCompressionType = errors.New("invalid compression type")
)
