package document

import (
	"unsafe"

	"github.com/arloliu/bsonmut/errs"
	"github.com/arloliu/bsonmut/internal/hash"
	"github.com/arloliu/bsonmut/internal/options"
	"github.com/arloliu/bsonmut/wire"
)

// InPlaceMode selects whether a document records damage events for
// size-preserving value replacements.
type InPlaceMode uint8

const (
	// InPlaceDisabled is the default mode: every mutation forces a full
	// re-serialization to observe.
	InPlaceDisabled InPlaceMode = iota

	// InPlaceEnabled records damage events until a mutation that cannot be
	// expressed in place occurs, which disables the mode permanently.
	InPlaceEnabled
)

// DamageEvent describes one byte patch: copy Size bytes starting at
// SourceOffset in the damage source buffer over the original document
// buffer at TargetOffset.
type DamageEvent struct {
	TargetOffset uint32
	SourceOffset uint32
	Size         uint32
}

// Option configures a Document at construction time.
type Option = options.Option[*Document]

// WithInPlaceUpdates enables damage-event recording for the document.
func WithInPlaceUpdates() Option {
	return options.NoError(func(d *Document) {
		d.inPlace = true
	})
}

// WithExpectedDamageEvents pre-sizes the damage queue. It only has an
// effect together with WithInPlaceUpdates.
func WithExpectedDamageEvents(n int) Option {
	return options.NoError(func(d *Document) {
		d.reserve = n
	})
}

// Document owns a mutable element tree. See the package documentation for
// the storage model. A Document must not be mutated concurrently; it may be
// handed between goroutines in between operations.
type Document struct {
	// reps is the element arena. It only grows; a ref indexes it for the
	// document's lifetime. Any *elementRep obtained from it is invalidated
	// by the next insertRep and must be re-acquired by ref.
	reps []elementRep

	// objects[0] is the current leaf builder snapshot; the remaining
	// entries are borrowed source buffers, pinned until the document is
	// dropped.
	objects [][]byte

	// fieldNames holds NUL-terminated names of elements that have no
	// encoded form. A name id is its starting offset.
	fieldNames []byte

	// nameIDs maps xxHash64 of a name to its heap offset so repeated names
	// are stored once. Collisions are verified by byte comparison.
	nameIDs map[uint64]uint32

	// leaf is the scratch encoder backing every synthesized value.
	leaf *wire.DocumentBuilder

	damages []DamageEvent
	inPlace bool
	reserve int
}

// New creates an empty document whose root is a synthetic object element
// with an empty name.
func New(opts ...Option) (*Document, error) {
	d, err := newDocument(opts)
	if err != nil {
		return nil, err
	}

	root := makeRep()
	root.offset = d.insertFieldName("")
	d.insertRep(root)

	return d, nil
}

// Parse creates a document over the given encoded buffer. The buffer is
// borrowed: the caller must keep it alive and unmodified for the document's
// lifetime. Elements are materialized lazily as the tree is navigated.
func Parse(src []byte, opts ...Option) (*Document, error) {
	if len(src) < wire.MinDocSize || wire.NewReader(src).DocSize(0) != len(src) {
		return nil, errs.ErrInvalidDocumentSize
	}

	d, err := newDocument(opts)
	if err != nil {
		return nil, err
	}

	root := makeRep()
	root.objIdx = d.insertObject(src)
	root.offset = d.insertFieldName("")
	// The root has no contiguous field name, so calling it serialized is a
	// useful fiction: it makes a pristine document detectable by the root's
	// serialized bit, and it never reports a value.
	root.serialized = true
	root.childLeft = opaqueRef
	root.childRight = opaqueRef
	d.insertRep(root)

	return d, nil
}

func newDocument(opts []Option) (*Document, error) {
	d := &Document{
		leaf:    wire.NewDocumentBuilder(),
		nameIDs: make(map[uint64]uint32),
	}
	d.objects = append(d.objects, d.leaf.Bytes())

	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}
	if d.inPlace && d.reserve > 0 {
		d.damages = make([]DamageEvent, 0, d.reserve)
	}

	return d, nil
}

// Root returns the root element, always the handle at arena slot zero.
func (d *Document) Root() Element {
	return Element{doc: d, idx: rootRef}
}

// End returns an element for which Ok reports false. Navigation past the
// edge of the tree compares equal to it.
func (d *Document) End() Element {
	return Element{doc: d, idx: invalidRef}
}

// Serialize encodes the current state of the tree into a fresh document.
// Untouched subtrees are emitted by bulk byte copy.
func (d *Document) Serialize() []byte {
	b := wire.NewDocumentBuilder()
	d.Root().writeChildrenTo(b)

	return b.Done()
}

// rep returns the record at idx. The pointer is invalidated by the next
// insertRep; code that inserts must re-acquire before touching it again.
func (d *Document) rep(idx ref) *elementRep {
	return &d.reps[idx]
}

// insertRep appends a record and returns its ref.
func (d *Document) insertRep(rep elementRep) ref {
	idx := ref(len(d.reps))
	if idx > maxRef {
		panic("document: element arena exhausted")
	}
	d.reps = append(d.reps, rep)

	return idx
}

// insertObject appends a borrowed buffer to the table and returns its slot.
func (d *Document) insertObject(buf []byte) objIdx {
	idx := objIdx(len(d.objects))
	if idx > maxObjIdx {
		panic("document: buffer table exhausted")
	}
	d.objects = append(d.objects, buf)

	return idx
}

// insertLeafElement creates a record for the element just appended to the
// leaf builder at the given offset. The snapshot at slot zero is refreshed
// first so the record's bytes are visible the moment it is exposed.
func (d *Document) insertLeafElement(offset int) ref {
	rep := makeRep()
	rep.objIdx = leafObjIdx
	rep.serialized = true
	rep.offset = uint32(offset)
	d.objects[leafObjIdx] = d.leaf.Bytes()

	return d.insertRep(rep)
}

// insertFieldName stores the name in the heap and returns its id, reusing
// the existing entry when the same name was stored before.
func (d *Document) insertFieldName(name string) uint32 {
	id := hash.ID(name)
	if off, ok := d.nameIDs[id]; ok {
		if d.fieldNameAt(off) == name {
			return off
		}
		// Hash collision: fall through and store a fresh copy. The index
		// keeps the first owner of the hash.
	}

	off := uint32(len(d.fieldNames))
	d.fieldNames = append(d.fieldNames, name...)
	d.fieldNames = append(d.fieldNames, 0)
	if _, taken := d.nameIDs[id]; !taken {
		d.nameIDs[id] = off
	}

	return off
}

// fieldNameAt returns the heap name starting at the given offset.
func (d *Document) fieldNameAt(off uint32) string {
	end := off
	for d.fieldNames[end] != 0 {
		end++
	}

	return string(d.fieldNames[off:end])
}

// hasValue reports whether the element's value is available as a complete
// encoded element. The root never has a value even while marked serialized.
func (d *Document) hasValue(idx ref) bool {
	if idx == rootRef {
		return false
	}

	return d.rep(idx).serialized
}

// serializedElement returns the element's raw encoded bytes. Only valid
// while hasValue reports true; the slice aliases the supporting buffer.
func (d *Document) serializedElement(idx ref) []byte {
	rep := d.rep(idx)
	return wire.NewReader(d.objects[rep.objIdx]).ElementAt(int(rep.offset))
}

// deserialize clears the serialized bit on the record at idx and every
// serialized ancestor above it. Leaf records never receive this call.
func (d *Document) deserialize(idx ref) {
	for idx != invalidRef {
		rep := d.rep(idx)
		if !rep.serialized {
			break
		}
		rep.serialized = false
		idx = rep.parent
	}
}

// ReserveDamageEvents grows the damage queue's capacity for an expected
// number of upcoming events. It is a no-op once in-place mode is disabled.
func (d *Document) ReserveDamageEvents(n int) {
	if !d.inPlace {
		return
	}
	if cap(d.damages)-len(d.damages) < n {
		grown := make([]DamageEvent, len(d.damages), len(d.damages)+n)
		copy(grown, d.damages)
		d.damages = grown
	}
}

// InPlaceUpdates hands the accumulated damage events to the caller along
// with the source buffer their SourceOffsets refer to: the leaf builder
// snapshot at buffer slot zero. Applying each event to the original
// document buffer reproduces the post-mutation serialization.
//
// The queue is moved out: a subsequent round of in-place updates starts
// empty. Once the mode has been disabled it reports false forever.
func (d *Document) InPlaceUpdates() ([]DamageEvent, []byte, bool) {
	if !d.inPlace {
		return nil, nil, false
	}

	events := d.damages
	d.damages = nil

	return events, d.objects[leafObjIdx], true
}

// DisableInPlaceUpdates permanently drops the damage queue. Any mutation
// that cannot be expressed as a byte patch calls this internally.
func (d *Document) DisableInPlaceUpdates() {
	d.inPlace = false
	d.damages = nil
}

// CurrentInPlaceMode reports whether damage events are still being recorded.
func (d *Document) CurrentInPlaceMode() InPlaceMode {
	if d.inPlace {
		return InPlaceEnabled
	}

	return InPlaceDisabled
}

func (d *Document) recordDamage(targetOffset, sourceOffset, size uint32) {
	d.damages = append(d.damages, DamageEvent{
		TargetOffset: targetOffset,
		SourceOffset: sourceOffset,
		Size:         size,
	})
}

// assertDoesNotAlias panics when a caller-supplied byte slice overlaps the
// leaf builder or the field-name heap. Appending while reading the same
// backing array would corrupt the value mid-copy, so the contract is
// enforced unconditionally.
func (d *Document) assertDoesNotAlias(data []byte) {
	if overlaps(data, d.leaf.Bytes()) || overlaps(data, d.fieldNames) {
		panic("document: argument aliases document-owned storage")
	}
}

func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))

	return aStart < bEnd && bStart < aEnd
}
