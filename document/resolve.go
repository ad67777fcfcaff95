package document

import "github.com/arloliu/bsonmut/wire"

// resolveLeftChild returns the element's left child, materializing it from
// the supporting buffer if the slot is still opaque. Resolving an empty
// container pins both child slots to invalid.
func (d *Document) resolveLeftChild(idx ref) ref {
	rep := d.rep(idx)
	if !rep.childLeft.opaque() {
		return rep.childLeft
	}

	// An opaque child slot implies the container's bytes are available:
	// either the element is serialized, or it is the root over a source
	// buffer.
	r := wire.NewReader(d.objects[rep.objIdx])

	var (
		childOff int
		ok       bool
	)
	if d.hasValue(idx) {
		childOff, ok = r.FirstInsideAt(int(rep.offset))
	} else {
		childOff, ok = r.DocFirstElement(int(rep.offset))
	}

	if !ok {
		rep.childLeft = invalidRef
		rep.childRight = invalidRef

		return rep.childLeft
	}

	child := makeRep()
	child.serialized = true
	child.objIdx = rep.objIdx
	child.offset = uint32(childOff)
	child.parent = idx
	child.siblingRight = opaqueRef
	if r.TypeAt(childOff).Composite() {
		child.childLeft = opaqueRef
		child.childRight = opaqueRef
	}

	// insertRep may relocate the arena, invalidating rep; re-acquire it
	// before publishing the new child.
	inserted := d.insertRep(child)
	rep = d.rep(idx)
	rep.childLeft = inserted

	return rep.childLeft
}

// resolveRightSibling returns the element's right sibling, materializing it
// if the slot is still opaque. Reaching the end of the enclosing container
// also pins the parent's right child to this element.
func (d *Document) resolveRightSibling(idx ref) ref {
	rep := d.rep(idx)
	if !rep.siblingRight.opaque() {
		return rep.siblingRight
	}

	r := wire.NewReader(d.objects[rep.objIdx])
	nextOff, ok := r.NextAt(int(rep.offset))

	if !ok {
		rep.siblingRight = invalidRef
		// An opaque right sibling implies a parent whose right child is
		// still opaque; it is now known to be this element.
		d.rep(rep.parent).childRight = idx

		return invalidRef
	}

	sibling := makeRep()
	sibling.serialized = true
	sibling.objIdx = rep.objIdx
	sibling.offset = uint32(nextOff)
	sibling.parent = rep.parent
	sibling.siblingLeft = idx
	sibling.siblingRight = opaqueRef
	if r.TypeAt(nextOff).Composite() {
		sibling.childLeft = opaqueRef
		sibling.childRight = opaqueRef
	}

	// Re-acquire after the insert, as in resolveLeftChild.
	inserted := d.insertRep(sibling)
	rep = d.rep(idx)
	rep.siblingRight = inserted

	return rep.siblingRight
}

// resolveRightChild returns the element's right child. When the slot is
// opaque this walks the whole child list, since each right-sibling
// resolution is what eventually pins the right child.
func (d *Document) resolveRightChild(idx ref) ref {
	current := d.rep(idx).childRight
	if !current.opaque() {
		return current
	}

	current = d.resolveLeftChild(idx)
	for current != invalidRef {
		next := d.resolveRightSibling(current)
		if next == invalidRef {
			break
		}
		current = next
	}

	return current
}
