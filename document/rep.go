package document

import (
	"fmt"

	"github.com/arloliu/bsonmut/errs"
)

// ref addresses an element record in the arena, or carries one of two
// sentinel values. All sentinel checks go through the methods below; raw
// comparisons against the constants appear nowhere else.
type ref uint32

const (
	// rootRef is the arena slot of the root element, always zero.
	rootRef ref = 0

	// invalidRef marks a relative that does not exist: end of a sibling
	// chain, a leaf's child slots, or a detached element's links.
	invalidRef ref = ^ref(0)

	// opaqueRef marks a relative that exists in encoded bytes but has not
	// been materialized into the arena yet. It only ever appears in child
	// slots and right-sibling slots.
	opaqueRef ref = ^ref(0) - 1

	// maxRef is the highest addressable arena slot.
	maxRef ref = ^ref(0) - 2
)

// valid reports whether the ref addresses a real arena slot.
func (r ref) valid() bool {
	return r <= maxRef
}

// opaque reports whether the ref is the unmaterialized sentinel.
func (r ref) opaque() bool {
	return r == opaqueRef
}

// objIdx addresses an entry in the document's buffer table.
type objIdx uint16

const (
	// leafObjIdx is the buffer table slot holding the leaf builder snapshot.
	leafObjIdx objIdx = 0

	// invalidObjIdx marks an element with no supporting buffer.
	invalidObjIdx objIdx = ^objIdx(0)

	// maxObjIdx is the highest addressable buffer table slot.
	maxObjIdx objIdx = ^objIdx(0) - 1
)

func (o objIdx) valid() bool {
	return o <= maxObjIdx
}

// elementRep locates the bytes for one element and records its topology
// within the tree. Records are fixed size with no internal pointers, so the
// arena can relocate them freely on growth.
type elementRep struct {
	// objIdx names the buffer providing this element's bytes. Invalid for
	// elements that exist only as a field name plus children.
	objIdx objIdx

	// serialized is true while the byte range at offset in the objIdx
	// buffer holds a complete, faithful encoding of this element and its
	// entire subtree. Mutations beneath the element clear it.
	serialized bool

	// array distinguishes arrays from objects for records whose type can no
	// longer be read from bytes.
	array bool

	// offset is a byte offset into the objIdx buffer when the element has
	// an encoded form, or into the field-name heap when it does not.
	offset uint32

	siblingLeft  ref
	siblingRight ref
	childLeft    ref
	childRight   ref
	parent       ref
}

// makeRep returns a fully detached record with no supporting buffer.
func makeRep() elementRep {
	return elementRep{
		objIdx:       invalidObjIdx,
		siblingLeft:  invalidRef,
		siblingRight: invalidRef,
		childLeft:    invalidRef,
		childRight:   invalidRef,
		parent:       invalidRef,
	}
}

// canAttach reports whether the record roots a clean subtree that may be
// spliced into the tree. The root is never attachable.
func canAttach(idx ref, rep *elementRep) bool {
	return idx != rootRef &&
		rep.siblingLeft == invalidRef &&
		rep.siblingRight == invalidRef &&
		rep.parent == invalidRef
}

// attachmentError describes why canAttach returned false.
func attachmentError(rep *elementRep) error {
	if rep.siblingLeft != invalidRef {
		return fmt.Errorf("%w: dangling left sibling", errs.ErrIllegalAttach)
	}
	if rep.siblingRight != invalidRef {
		return fmt.Errorf("%w: dangling right sibling", errs.ErrIllegalAttach)
	}
	if rep.parent != invalidRef {
		return fmt.Errorf("%w: dangling parent", errs.ErrIllegalAttach)
	}

	return fmt.Errorf("%w: cannot attach the root element", errs.ErrIllegalAttach)
}
