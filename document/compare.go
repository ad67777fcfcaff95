package document

import (
	"strings"

	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/wire"
)

// CompareWithElement performs a three-way comparison against another
// element, which may belong to a different document. When both sides still
// have encoded bytes the encoded-element comparator decides; otherwise types
// compare by canonical rank, then optionally field names, then children
// pairwise. Children of arrays always compare without field names.
func (e Element) CompareWithElement(other Element, considerFieldName bool) int {
	e.mustOk("CompareWithElement")
	other.mustOk("CompareWithElement")

	if e.doc == other.doc && e.idx == other.idx {
		return 0
	}

	// The comparison reverses argument order here, so the result is negated.
	if e.doc.hasValue(e.idx) {
		return -other.CompareWithRawElement(e.doc.serializedElement(e.idx), considerFieldName)
	}
	if other.doc.hasValue(other.idx) {
		return e.CompareWithRawElement(other.doc.serializedElement(other.idx), considerFieldName)
	}

	// Neither side has a value, so both are dirtied composites.
	thisType := e.doc.typeOf(e.idx)
	otherType := other.doc.typeOf(other.idx)
	if diff := thisType.CanonicalRank() - otherType.CanonicalRank(); diff != 0 {
		return diff
	}

	if considerFieldName {
		if diff := strings.Compare(e.FieldName(), other.FieldName()); diff != 0 {
			return diff
		}
	}

	considerChildFieldNames := thisType != format.TypeArray && otherType != format.TypeArray

	thisIter := e.LeftChild()
	otherIter := other.LeftChild()
	for {
		if !thisIter.Ok() {
			if !otherIter.Ok() {
				return 0
			}

			return -1
		}
		if !otherIter.Ok() {
			return 1
		}

		if diff := thisIter.CompareWithElement(otherIter, considerChildFieldNames); diff != 0 {
			return diff
		}

		thisIter = thisIter.RightSibling()
		otherIter = otherIter.RightSibling()
	}
}

// CompareWithRawElement performs a three-way comparison against a complete
// encoded element.
func (e Element) CompareWithRawElement(raw []byte, considerFieldName bool) int {
	e.mustOk("CompareWithRawElement")
	d := e.doc

	if d.hasValue(e.idx) {
		return wire.Compare(d.serializedElement(e.idx), raw, considerFieldName)
	}

	// A dirtied composite compares structurally against the raw element.
	r := wire.NewReader(raw)
	thisType := d.typeOf(e.idx)
	otherType := r.TypeAt(0)
	if diff := thisType.CanonicalRank() - otherType.CanonicalRank(); diff != 0 {
		return diff
	}

	if considerFieldName {
		if diff := strings.Compare(e.FieldName(), r.NameAt(0)); diff != 0 {
			return diff
		}
	}

	considerChildFieldNames := thisType != format.TypeArray && otherType != format.TypeArray

	return e.CompareWithDocument(r.ValueAt(0), considerChildFieldNames)
}

// CompareWithDocument performs a three-way comparison between this
// element's children and the elements of a complete encoded document. The
// shorter side sorts before the longer one.
func (e Element) CompareWithDocument(doc []byte, considerFieldName bool) int {
	e.mustOk("CompareWithDocument")

	r := wire.NewReader(doc)
	otherOff, otherOk := r.DocFirstElement(0)

	thisIter := e.LeftChild()
	for {
		if !thisIter.Ok() {
			if !otherOk {
				return 0
			}

			return -1
		}
		if !otherOk {
			return 1
		}

		if diff := thisIter.CompareWithRawElement(r.ElementAt(otherOff), considerFieldName); diff != 0 {
			return diff
		}

		thisIter = thisIter.RightSibling()
		otherOff, otherOk = r.NextAt(otherOff)
	}
}
