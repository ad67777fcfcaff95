package document

import (
	"math"

	"github.com/arloliu/bsonmut/endian"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/wire"
)

// Element is a stable handle onto one element of a Document. It stays valid
// for the document's lifetime through any sequence of mutations, including
// removal of the element it names.
//
// The zero Element is not usable; handles come from Document factories and
// navigation. Navigation past the edge of the tree returns an Element for
// which Ok reports false.
type Element struct {
	doc *Document
	idx ref
}

// Ok reports whether the handle names an element.
func (e Element) Ok() bool {
	return e.doc != nil && e.idx.valid()
}

func (e Element) mustOk(op string) {
	if !e.Ok() {
		panic("document: " + op + " on an invalid element")
	}
}

// LeftChild returns the element's first child, materializing it on demand.
func (e Element) LeftChild() Element {
	e.mustOk("LeftChild")
	return Element{doc: e.doc, idx: e.doc.resolveLeftChild(e.idx)}
}

// RightChild returns the element's last child. Resolving it may require
// materializing every child in between.
func (e Element) RightChild() Element {
	e.mustOk("RightChild")
	return Element{doc: e.doc, idx: e.doc.resolveRightChild(e.idx)}
}

// HasChildren reports whether the element has at least one child.
func (e Element) HasChildren() bool {
	e.mustOk("HasChildren")
	return e.doc.resolveLeftChild(e.idx) != invalidRef
}

// LeftSibling returns the element's left neighbor. Left siblings are always
// already materialized, so this never decodes.
func (e Element) LeftSibling() Element {
	e.mustOk("LeftSibling")
	return Element{doc: e.doc, idx: e.doc.rep(e.idx).siblingLeft}
}

// RightSibling returns the element's right neighbor, materializing it on
// demand.
func (e Element) RightSibling() Element {
	e.mustOk("RightSibling")
	return Element{doc: e.doc, idx: e.doc.resolveRightSibling(e.idx)}
}

// Parent returns the element's parent.
func (e Element) Parent() Element {
	e.mustOk("Parent")
	return Element{doc: e.doc, idx: e.doc.rep(e.idx).parent}
}

// Type returns the element's type tag. The root is always an object.
func (e Element) Type() format.Type {
	e.mustOk("Type")
	return e.doc.typeOf(e.idx)
}

// FieldName returns the element's field name. The root's name is empty.
func (e Element) FieldName() string {
	e.mustOk("FieldName")
	return e.doc.fieldNameOf(e.idx)
}

// HasValue reports whether the element's value is available as a complete
// encoded element. Dirtied composites and the root have no value.
func (e Element) HasValue() bool {
	e.mustOk("HasValue")
	return e.doc.hasValue(e.idx)
}

// Value returns the element's complete encoded bytes, or nil when HasValue
// is false. The slice is a view into document-owned storage: it is
// invalidated by the next mutation and must not be fed back into the same
// document without copying.
func (e Element) Value() []byte {
	e.mustOk("Value")
	if !e.doc.hasValue(e.idx) {
		return nil
	}

	return e.doc.serializedElement(e.idx)
}

// IsNumeric reports whether the element holds one of the numeric types.
func (e Element) IsNumeric() bool {
	return e.Type().Numeric()
}

// IsIntegral reports whether the element holds an integer type.
func (e Element) IsIntegral() bool {
	return e.Type().Integral()
}

// Double returns the element's floating point value.
func (e Element) Double() (float64, bool) {
	v, ok := e.scalarValue(format.TypeDouble)
	if !ok {
		return 0, false
	}

	return math.Float64frombits(endian.GetLittleEndianEngine().Uint64(v)), true
}

// StringValue returns the element's string value.
func (e Element) StringValue() (string, bool) {
	v, ok := e.scalarValue(format.TypeString)
	if !ok {
		return "", false
	}

	return string(v[4 : len(v)-1]), true
}

// Int32 returns the element's 32-bit integer value.
func (e Element) Int32() (int32, bool) {
	v, ok := e.scalarValue(format.TypeInt32)
	if !ok {
		return 0, false
	}

	return int32(endian.GetLittleEndianEngine().Uint32(v)), true
}

// Int64 returns the element's 64-bit integer value.
func (e Element) Int64() (int64, bool) {
	v, ok := e.scalarValue(format.TypeInt64)
	if !ok {
		return 0, false
	}

	return int64(endian.GetLittleEndianEngine().Uint64(v)), true
}

// Bool returns the element's boolean value.
func (e Element) Bool() (bool, bool) {
	v, ok := e.scalarValue(format.TypeBool)
	if !ok {
		return false, false
	}

	return v[0] != 0, true
}

// DateTime returns the element's datetime value in UTC milliseconds.
func (e Element) DateTime() (int64, bool) {
	v, ok := e.scalarValue(format.TypeDateTime)
	if !ok {
		return 0, false
	}

	return int64(endian.GetLittleEndianEngine().Uint64(v)), true
}

// Timestamp returns the element's internal timestamp value.
func (e Element) Timestamp() (uint64, bool) {
	v, ok := e.scalarValue(format.TypeTimestamp)
	if !ok {
		return 0, false
	}

	return endian.GetLittleEndianEngine().Uint64(v), true
}

func (e Element) scalarValue(t format.Type) ([]byte, bool) {
	e.mustOk("value access")
	d := e.doc
	if !d.hasValue(e.idx) || d.typeOf(e.idx) != t {
		return nil, false
	}
	rep := d.rep(e.idx)

	return wire.NewReader(d.objects[rep.objIdx]).ValueAt(int(rep.offset)), true
}

// typeOf returns the element's type. The root is always an object; records
// without bytes report object or array from their array bit.
func (d *Document) typeOf(idx ref) format.Type {
	if idx == rootRef {
		return format.TypeObject
	}

	rep := d.rep(idx)
	if rep.serialized || rep.objIdx.valid() {
		return wire.NewReader(d.objects[rep.objIdx]).TypeAt(int(rep.offset))
	}
	if rep.array {
		return format.TypeArray
	}

	return format.TypeObject
}

// isLeaf reports whether the element cannot have children.
func (d *Document) isLeaf(idx ref) bool {
	return !d.typeOf(idx).Composite()
}

// fieldNameOf returns the element's field name, from its encoded bytes when
// it has them, or from the field-name heap.
func (d *Document) fieldNameOf(idx ref) string {
	if idx == rootRef {
		return ""
	}

	rep := d.rep(idx)
	if rep.serialized || rep.objIdx.valid() {
		return wire.NewReader(d.objects[rep.objIdx]).NameAt(int(rep.offset))
	}

	return d.fieldNameAt(rep.offset)
}
