package document

import (
	"fmt"

	"github.com/arloliu/bsonmut/errs"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/wire"
)

// WriteTo writes the element into the given document builder. The element
// must be an object. The root's children are written directly into the
// builder without a wrapping element, so serializing the root of a pristine
// document reproduces the source buffer byte for byte.
func (e Element) WriteTo(b *wire.DocumentBuilder) error {
	e.mustOk("WriteTo")
	d := e.doc
	if d.typeOf(e.idx) != format.TypeObject {
		return fmt.Errorf("%w: cannot write a %s element as a document", errs.ErrBadType, d.typeOf(e.idx))
	}

	if e.idx == rootRef && d.rep(e.idx).parent == invalidRef {
		e.writeChildrenTo(b)
		return nil
	}

	e.writeElement(b, nil)

	return nil
}

// WriteArrayTo writes the element's children into the given array builder.
// The element must be an array.
func (e Element) WriteArrayTo(b *wire.ArrayBuilder) error {
	e.mustOk("WriteArrayTo")
	d := e.doc
	if d.typeOf(e.idx) != format.TypeArray {
		return fmt.Errorf("%w: cannot write a %s element as an array", errs.ErrBadType, d.typeOf(e.idx))
	}

	e.writeChildrenTo(b)

	return nil
}

// writeElement appends this element to the writer, overriding its field
// name when name is non-nil. An element that still has a faithful encoding
// goes out as one bulk copy, short-circuiting its entire subtree; a dirtied
// composite is rebuilt by recursing over its children.
func (e Element) writeElement(w wire.ValueWriter, name *string) {
	d := e.doc

	if d.hasValue(e.idx) {
		raw := d.serializedElement(e.idx)
		if name != nil {
			w.AppendElementAs(*name, raw)
		} else {
			w.AppendElement(raw)
		}

		return
	}

	t := d.typeOf(e.idx)
	subName := d.fieldNameOf(e.idx)
	if name != nil {
		subName = *name
	}

	switch t {
	case format.TypeArray:
		sub := w.BeginArray(subName)
		e.writeChildrenTo(sub)
		sub.Done()
	case format.TypeObject:
		sub := w.BeginDocument(subName)
		e.writeChildrenTo(sub)
		sub.Done()
	default:
		// A leaf without a value would be a dirtied leaf, which cannot
		// exist.
		panic("document: cannot serialize a valueless leaf element")
	}
}

// writeChildrenTo appends the element's children left to right. Navigation
// materializes any still-opaque children along the way.
func (e Element) writeChildrenTo(w wire.ValueWriter) {
	for current := e.LeftChild(); current.Ok(); current = current.RightSibling() {
		current.writeElement(w, nil)
	}
}
