package document

import (
	"fmt"

	"github.com/arloliu/bsonmut/errs"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/wire"
)

// The MakeElement factories encode a fresh value into the leaf builder and
// return a detached handle for it. Detached elements are attached with
// PushFront, PushBack, AddSiblingLeft, or AddSiblingRight.

// MakeElementDouble creates a detached 64-bit float element.
func (d *Document) MakeElementDouble(name string, value float64) Element {
	off := d.leaf.AppendDouble(name, value)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementString creates a detached string element.
func (d *Document) MakeElementString(name, value string) Element {
	off := d.leaf.AppendString(name, value)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementObject creates a detached empty object element. It has no
// encoded form until it is serialized; only its name is stored.
func (d *Document) MakeElementObject(name string) Element {
	rep := makeRep()
	rep.offset = d.insertFieldName(name)

	return Element{doc: d, idx: d.insertRep(rep)}
}

// MakeElementObjectFromDoc creates a detached object element whose initial
// children come from the given encoded document. The bytes are copied into
// the leaf builder; children materialize lazily from the copy.
func (d *Document) MakeElementObjectFromDoc(name string, value []byte) Element {
	d.assertDoesNotAlias(value)

	off := d.leaf.AppendObject(name, value)
	idx := d.insertLeafElement(off)
	rep := d.rep(idx)
	rep.childLeft = opaqueRef
	rep.childRight = opaqueRef

	return Element{doc: d, idx: idx}
}

// MakeElementArray creates a detached empty array element.
func (d *Document) MakeElementArray(name string) Element {
	rep := makeRep()
	rep.array = true
	rep.offset = d.insertFieldName(name)

	return Element{doc: d, idx: d.insertRep(rep)}
}

// MakeElementArrayFromDoc creates a detached array element whose initial
// entries come from the given encoded document with decimal index keys.
func (d *Document) MakeElementArrayFromDoc(name string, value []byte) Element {
	d.assertDoesNotAlias(value)

	off := d.leaf.AppendArray(name, value)
	idx := d.insertLeafElement(off)
	rep := d.rep(idx)
	rep.childLeft = opaqueRef
	rep.childRight = opaqueRef

	return Element{doc: d, idx: idx}
}

// MakeElementBinary creates a detached binary element.
func (d *Document) MakeElementBinary(name string, subtype byte, data []byte) Element {
	d.assertDoesNotAlias(data)

	off := d.leaf.AppendBinary(name, subtype, data)

	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementUndefined creates a detached undefined element.
func (d *Document) MakeElementUndefined(name string) Element {
	off := d.leaf.AppendUndefined(name)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementObjectID creates a detached object id element.
func (d *Document) MakeElementObjectID(name string, id [12]byte) Element {
	off := d.leaf.AppendObjectID(name, id)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementBool creates a detached boolean element.
func (d *Document) MakeElementBool(name string, value bool) Element {
	off := d.leaf.AppendBool(name, value)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementDateTime creates a detached datetime element from UTC
// milliseconds.
func (d *Document) MakeElementDateTime(name string, ms int64) Element {
	off := d.leaf.AppendDateTime(name, ms)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementNull creates a detached null element.
func (d *Document) MakeElementNull(name string) Element {
	off := d.leaf.AppendNull(name)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementRegex creates a detached regular expression element.
func (d *Document) MakeElementRegex(name, pattern, options string) Element {
	off := d.leaf.AppendRegex(name, pattern, options)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementDBPointer creates a detached DB pointer element.
func (d *Document) MakeElementDBPointer(name, ns string, id [12]byte) Element {
	off := d.leaf.AppendDBPointer(name, ns, id)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementCode creates a detached JavaScript code element.
func (d *Document) MakeElementCode(name, code string) Element {
	off := d.leaf.AppendCode(name, code)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementSymbol creates a detached symbol element.
func (d *Document) MakeElementSymbol(name, value string) Element {
	off := d.leaf.AppendSymbol(name, value)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementCodeWithScope creates a detached code-with-scope element. The
// scope must be a complete encoded document. It is treated as a leaf.
func (d *Document) MakeElementCodeWithScope(name, code string, scope []byte) Element {
	d.assertDoesNotAlias(scope)

	off := d.leaf.AppendCodeWithScope(name, code, scope)

	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementInt32 creates a detached 32-bit integer element.
func (d *Document) MakeElementInt32(name string, value int32) Element {
	off := d.leaf.AppendInt32(name, value)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementTimestamp creates a detached internal timestamp element.
func (d *Document) MakeElementTimestamp(name string, value uint64) Element {
	off := d.leaf.AppendTimestamp(name, value)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementInt64 creates a detached 64-bit integer element.
func (d *Document) MakeElementInt64(name string, value int64) Element {
	off := d.leaf.AppendInt64(name, value)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementMinKey creates a detached min-key element.
func (d *Document) MakeElementMinKey(name string) Element {
	off := d.leaf.AppendMinKey(name)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementMaxKey creates a detached max-key element.
func (d *Document) MakeElementMaxKey(name string) Element {
	off := d.leaf.AppendMaxKey(name)
	return Element{doc: d, idx: d.insertLeafElement(off)}
}

// MakeElementFromRaw creates a detached element from a complete encoded
// element, keeping its embedded field name.
func (d *Document) MakeElementFromRaw(raw []byte) (Element, error) {
	t := format.Type(raw[0])
	if t == format.TypeEOO {
		return d.End(), fmt.Errorf("%w: cannot make an element from an end-of-document marker", errs.ErrBadType)
	}
	d.assertDoesNotAlias(raw)

	off := d.leaf.AppendElement(raw)
	idx := d.insertLeafElement(off)
	if t.Composite() {
		rep := d.rep(idx)
		rep.childLeft = opaqueRef
		rep.childRight = opaqueRef
	}

	return Element{doc: d, idx: idx}, nil
}

// MakeElementFromRawWithNewName creates a detached element from a complete
// encoded element, replacing its field name.
func (d *Document) MakeElementFromRawWithNewName(name string, raw []byte) (Element, error) {
	t := format.Type(raw[0])
	if t == format.TypeEOO {
		return d.End(), fmt.Errorf("%w: cannot make an element from an end-of-document marker", errs.ErrBadType)
	}
	d.assertDoesNotAlias(raw)

	off := d.leaf.AppendElementAs(name, raw)
	idx := d.insertLeafElement(off)
	if t.Composite() {
		rep := d.rep(idx)
		rep.childLeft = opaqueRef
		rep.childRight = opaqueRef
	}

	return Element{doc: d, idx: idx}, nil
}

// MakeElementCopy creates a detached copy of another element, which may
// belong to this or any other document.
func (d *Document) MakeElementCopy(other Element) Element {
	return d.makeElementCopy(other, nil)
}

// MakeElementWithNewName creates a detached copy of another element under a
// new field name.
func (d *Document) MakeElementWithNewName(name string, other Element) Element {
	return d.makeElementCopy(other, &name)
}

func (d *Document) makeElementCopy(other Element, name *string) Element {
	other.mustOk("MakeElementCopy")

	if other.doc == d {
		// Copying within one document would read from the leaf builder
		// while appending to it, so the element detours through a side
		// buffer first.
		side := wire.NewDocumentBuilder()
		other.writeElement(side, name)
		raw := side.Done()
		first, _ := wire.NewReader(raw).DocFirstElement(0)
		el, _ := d.MakeElementFromRaw(wire.NewReader(raw).ElementAt(first))

		return el
	}

	// An element of another document streams straight into our leaf
	// builder, whatever its serialization state over there.
	off := d.leaf.Len()
	other.writeElement(d.leaf, name)
	idx := d.insertLeafElement(off)
	if format.Type(d.objects[leafObjIdx][off]).Composite() {
		rep := d.rep(idx)
		rep.childLeft = opaqueRef
		rep.childRight = opaqueRef
	}

	return Element{doc: d, idx: idx}
}
