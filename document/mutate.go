package document

import (
	"fmt"

	"github.com/arloliu/bsonmut/errs"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/wire"
)

// AddSiblingLeft splices sib into the tree immediately before this element.
// sib must be detached and belong to the same document; this element must
// have a parent.
func (e Element) AddSiblingLeft(sib Element) error {
	e.mustOk("AddSiblingLeft")
	sib.mustOk("AddSiblingLeft")
	d := e.doc
	if sib.doc != d {
		return errs.ErrWrongDocument
	}

	newRep := d.rep(sib.idx)
	if !canAttach(sib.idx, newRep) {
		return attachmentError(newRep)
	}

	thisRep := d.rep(e.idx)
	if thisRep.parent == invalidRef {
		return fmt.Errorf("%w: cannot add a sibling", errs.ErrNoParent)
	}
	parentRep := d.rep(thisRep.parent)

	d.DisableInPlaceUpdates()

	// The new element shares our parent, takes our left sibling, and gains
	// us as its right sibling. Our former left neighbor, if any, must point
	// at it. Left siblings are never opaque, so nothing needs resolving.
	newRep.parent = thisRep.parent
	newRep.siblingRight = e.idx
	newRep.siblingLeft = thisRep.siblingLeft
	if newRep.siblingLeft != invalidRef {
		d.rep(thisRep.siblingLeft).siblingRight = sib.idx
	}
	thisRep.siblingLeft = sib.idx

	// If we were our parent's left child, the new element now is.
	if parentRep.childLeft == e.idx {
		parentRep.childLeft = sib.idx
	}

	d.deserialize(thisRep.parent)

	return nil
}

// AddSiblingRight splices sib into the tree immediately after this element,
// under the same preconditions as AddSiblingLeft.
func (e Element) AddSiblingRight(sib Element) error {
	e.mustOk("AddSiblingRight")
	sib.mustOk("AddSiblingRight")
	d := e.doc
	if sib.doc != d {
		return errs.ErrWrongDocument
	}

	newRep := d.rep(sib.idx)
	if !canAttach(sib.idx, newRep) {
		return attachmentError(newRep)
	}

	thisRep := d.rep(e.idx)
	if thisRep.parent == invalidRef {
		return fmt.Errorf("%w: cannot add a sibling", errs.ErrNoParent)
	}

	d.DisableInPlaceUpdates()

	// Our successor must exist or be known absent before the splice, since
	// its left-sibling link is about to change. Resolving may grow the
	// arena, so every record pointer is re-acquired afterwards.
	rightIdx := thisRep.siblingRight
	if rightIdx.opaque() {
		rightIdx = d.resolveRightSibling(e.idx)
		newRep = d.rep(sib.idx)
		thisRep = d.rep(e.idx)
	}
	parentRep := d.rep(thisRep.parent)

	newRep.parent = thisRep.parent
	newRep.siblingLeft = e.idx
	newRep.siblingRight = rightIdx
	thisRep.siblingRight = sib.idx
	if rightIdx != invalidRef {
		d.rep(rightIdx).siblingLeft = sib.idx
	}

	// If we were our parent's right child, the new element now is.
	if parentRep.childRight == e.idx {
		parentRep.childRight = sib.idx
	}

	d.deserialize(thisRep.parent)

	return nil
}

// PushFront attaches child as the element's first child.
func (e Element) PushFront(child Element) error {
	return e.addChild(child, true)
}

// PushBack attaches child as the element's last child.
func (e Element) PushBack(child Element) error {
	return e.addChild(child, false)
}

func (e Element) addChild(child Element, front bool) error {
	e.mustOk("addChild")
	child.mustOk("addChild")
	d := e.doc
	if child.doc != d {
		return errs.ErrWrongDocument
	}

	newRep := d.rep(child.idx)
	if !canAttach(child.idx, newRep) {
		return attachmentError(newRep)
	}

	if d.isLeaf(e.idx) {
		return fmt.Errorf("%w: cannot add a child to a %s element", errs.ErrNotComposite, d.typeOf(e.idx))
	}

	d.DisableInPlaceUpdates()

	// With existing children this is a sibling insertion at the matching
	// endpoint. Resolving the endpoint may materialize children.
	if front {
		if lc := e.LeftChild(); lc.Ok() {
			return lc.AddSiblingLeft(child)
		}
	} else {
		if rc := e.RightChild(); rc.Ok() {
			return rc.AddSiblingRight(child)
		}
	}

	// No children: the new element becomes both endpoints. Re-acquire both
	// records, since the resolution above may have grown the arena.
	thisRep := d.rep(e.idx)
	thisRep.childLeft = child.idx
	thisRep.childRight = child.idx
	d.rep(child.idx).parent = e.idx

	d.deserialize(e.idx)

	return nil
}

// Remove detaches the element from the tree. The handle stays valid and the
// record is retained; a removed element can be re-attached later.
func (e Element) Remove() error {
	e.mustOk("Remove")
	d := e.doc
	if e.idx == rootRef {
		return errs.ErrRemoveRoot
	}

	// The successor needs its left-sibling link updated, so it must be
	// materialized before any record pointer is taken.
	d.resolveRightSibling(e.idx)

	thisRep := d.rep(e.idx)
	if thisRep.parent == invalidRef {
		return fmt.Errorf("%w: element is already detached", errs.ErrNoParent)
	}

	d.DisableInPlaceUpdates()

	if thisRep.siblingRight != invalidRef {
		d.rep(thisRep.siblingRight).siblingLeft = thisRep.siblingLeft
	}
	if thisRep.siblingLeft != invalidRef {
		d.rep(thisRep.siblingLeft).siblingRight = thisRep.siblingRight
	}

	parentRep := d.rep(thisRep.parent)
	if parentRep.childRight == e.idx {
		parentRep.childRight = thisRep.siblingLeft
	}
	if parentRep.childLeft == e.idx {
		parentRep.childLeft = thisRep.siblingRight
	}

	d.deserialize(thisRep.parent)

	thisRep.parent = invalidRef
	thisRep.siblingLeft = invalidRef
	thisRep.siblingRight = invalidRef

	return nil
}

// Rename gives the element a new field name while preserving its value and
// position. Renaming always disables in-place updates.
func (e Element) Rename(name string) error {
	e.mustOk("Rename")
	d := e.doc
	if e.idx == rootRef {
		return fmt.Errorf("%w: cannot rename", errs.ErrIllegalRoot)
	}

	d.DisableInPlaceUpdates()

	thisRep := d.rep(e.idx)

	// A serialized composite loses its encoded form: realize its immediate
	// relatives while the bytes are still reachable, then convert it to a
	// heap-named record. Its children keep their own encoded bytes.
	if thisRep.objIdx.valid() && !d.isLeaf(e.idx) {
		isArray := d.typeOf(e.idx) == format.TypeArray

		d.resolveLeftChild(e.idx)
		d.resolveRightSibling(e.idx)

		// The resolve calls may have grown the arena; re-acquire.
		thisRep = d.rep(e.idx)

		d.deserialize(e.idx)
		thisRep.array = isArray
		thisRep.objIdx = invalidObjIdx
	}

	if d.hasValue(e.idx) {
		// Leaves are replaced wholesale with a copy under the new name.
		replacement := d.MakeElementWithNewName(name, e)
		return e.setValue(&replacement, false)
	}

	thisRep = d.rep(e.idx)
	thisRep.offset = d.insertFieldName(name)

	return nil
}

// setValue replaces this element's value-identifying fields with those of
// value while preserving this element's links, then rewrites value to alias
// this handle. value must be a freshly made, detached element.
func (e Element) setValue(value *Element, inPlace bool) error {
	if e.idx == rootRef {
		return fmt.Errorf("%w: cannot replace the value", errs.ErrIllegalRoot)
	}
	d := e.doc

	if !inPlace {
		d.DisableInPlaceUpdates()
	}

	// Establish our right sibling while our bytes are still reachable;
	// afterwards they describe the new value. A no-op when it is already
	// known.
	d.resolveRightSibling(e.idx)

	thisRep := d.rep(e.idx)
	valueRep := d.rep(value.idx)

	// If we are attached, the new value inherits our relations.
	if thisRep.parent != invalidRef {
		valueRep.parent = thisRep.parent
		valueRep.siblingLeft = thisRep.siblingLeft
		valueRep.siblingRight = thisRep.siblingRight
	}

	// Copy the value's record into our slot so our ref stays authoritative,
	// rewrite the caller's handle to alias us, and scrub the donor slot.
	*thisRep = *valueRep
	value.idx = e.idx
	*valueRep = makeRep()

	d.deserialize(thisRep.parent)

	return nil
}

// replaceValue implements the typed value setters. makeNew builds the fresh
// leaf under the given field name. When in-place mode is on, the element has
// encoded bytes outside the leaf heap, and the new encoding is exactly the
// old one's size, the replacement is additionally recorded as damage events:
// a one-byte type patch when the tag changed, then the value payload patch.
func (e Element) replaceValue(makeNew func(name string) Element) error {
	e.mustOk("set value")
	if e.idx == rootRef {
		return fmt.Errorf("%w: cannot replace the value", errs.ErrIllegalRoot)
	}
	d := e.doc

	inPlace := false
	newValue := d.End()

	if d.inPlace {
		rep := d.rep(e.idx)
		inLeafHeap := rep.objIdx == leafObjIdx

		if d.hasValue(e.idx) && !inLeafHeap {
			newValue = makeNew(d.fieldNameOf(e.idx))

			// makeNew appended to the leaf builder and grew the arena;
			// re-acquire before reading offsets.
			rep = d.rep(e.idx)
			newRep := d.rep(newValue.idx)

			oldRaw := d.serializedElement(e.idx)
			newRaw := d.serializedElement(newValue.idx)

			if len(oldRaw) == len(newRaw) {
				inPlace = true

				targetBase := rep.offset
				sourceBase := newRep.offset

				// A type change patches the tag byte separately, first.
				if oldRaw[0] != newRaw[0] {
					d.recordDamage(targetBase, sourceBase, 1)
				}

				// Field names are identical, so the value starts at the
				// same delta on both sides.
				r := wire.NewReader(d.objects[rep.objIdx])
				valueDelta := uint32(r.ValueOffsetAt(int(rep.offset)) - int(rep.offset))
				valueSize := uint32(r.ValueSizeAt(int(rep.offset)))
				d.recordDamage(targetBase+valueDelta, sourceBase+valueDelta, valueSize)
			}
		}
	}

	if !newValue.Ok() {
		newValue = makeNew(d.fieldNameOf(e.idx))
	}

	return e.setValue(&newValue, inPlace)
}

// SetValueDouble replaces the element's value with a 64-bit float.
func (e Element) SetValueDouble(value float64) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementDouble(name, value)
	})
}

// SetValueString replaces the element's value with a string.
func (e Element) SetValueString(value string) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementString(name, value)
	})
}

// SetValueObject replaces the element's value with an embedded document.
// value must be a complete encoded document.
func (e Element) SetValueObject(value []byte) error {
	e.mustOk("SetValueObject")
	d := e.doc
	d.assertDoesNotAlias(value)
	newValue := d.MakeElementObjectFromDoc(d.fieldNameOf(e.idx), value)

	return e.setValue(&newValue, false)
}

// SetValueArray replaces the element's value with an embedded array. value
// must be a complete encoded document with decimal index keys.
func (e Element) SetValueArray(value []byte) error {
	e.mustOk("SetValueArray")
	d := e.doc
	d.assertDoesNotAlias(value)
	newValue := d.MakeElementArrayFromDoc(d.fieldNameOf(e.idx), value)

	return e.setValue(&newValue, false)
}

// SetValueBinary replaces the element's value with binary data.
func (e Element) SetValueBinary(subtype byte, data []byte) error {
	e.doc.assertDoesNotAlias(data)
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementBinary(name, subtype, data)
	})
}

// SetValueUndefined replaces the element's value with undefined.
func (e Element) SetValueUndefined() error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementUndefined(name)
	})
}

// SetValueObjectID replaces the element's value with an object id.
func (e Element) SetValueObjectID(id [12]byte) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementObjectID(name, id)
	})
}

// SetValueBool replaces the element's value with a boolean.
func (e Element) SetValueBool(value bool) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementBool(name, value)
	})
}

// SetValueDateTime replaces the element's value with a UTC-milliseconds
// datetime.
func (e Element) SetValueDateTime(ms int64) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementDateTime(name, ms)
	})
}

// SetValueNull replaces the element's value with null.
func (e Element) SetValueNull() error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementNull(name)
	})
}

// SetValueRegex replaces the element's value with a regular expression.
func (e Element) SetValueRegex(pattern, options string) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementRegex(name, pattern, options)
	})
}

// SetValueDBPointer replaces the element's value with a DB pointer.
func (e Element) SetValueDBPointer(ns string, id [12]byte) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementDBPointer(name, ns, id)
	})
}

// SetValueCode replaces the element's value with JavaScript code.
func (e Element) SetValueCode(code string) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementCode(name, code)
	})
}

// SetValueSymbol replaces the element's value with a symbol.
func (e Element) SetValueSymbol(value string) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementSymbol(name, value)
	})
}

// SetValueCodeWithScope replaces the element's value with code and a scope
// document.
func (e Element) SetValueCodeWithScope(code string, scope []byte) error {
	e.doc.assertDoesNotAlias(scope)
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementCodeWithScope(name, code, scope)
	})
}

// SetValueInt32 replaces the element's value with a 32-bit integer.
func (e Element) SetValueInt32(value int32) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementInt32(name, value)
	})
}

// SetValueTimestamp replaces the element's value with an internal timestamp.
func (e Element) SetValueTimestamp(value uint64) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementTimestamp(name, value)
	})
}

// SetValueInt64 replaces the element's value with a 64-bit integer.
func (e Element) SetValueInt64(value int64) error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementInt64(name, value)
	})
}

// SetValueMinKey replaces the element's value with min-key.
func (e Element) SetValueMinKey() error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementMinKey(name)
	})
}

// SetValueMaxKey replaces the element's value with max-key.
func (e Element) SetValueMaxKey() error {
	return e.replaceValue(func(name string) Element {
		return e.doc.MakeElementMaxKey(name)
	})
}

// SetValueElement replaces the element's value with the value of a complete
// encoded element. The element keeps its own field name. An end-of-document
// marker is rejected.
func (e Element) SetValueElement(raw []byte) error {
	e.mustOk("SetValueElement")
	d := e.doc

	t := format.Type(raw[0])
	if t == format.TypeEOO {
		return fmt.Errorf("%w: cannot set a value from an end-of-document marker", errs.ErrBadType)
	}
	d.assertDoesNotAlias(raw)

	if t.Composite() {
		newValue, err := d.MakeElementFromRawWithNewName(d.fieldNameOf(e.idx), raw)
		if err != nil {
			return err
		}

		return e.setValue(&newValue, false)
	}

	return e.replaceValue(func(name string) Element {
		el, _ := d.MakeElementFromRawWithNewName(name, raw)
		return el
	})
}
