package wire

import (
	"github.com/arloliu/bsonmut/endian"
	"github.com/arloliu/bsonmut/format"
)

// DocHeaderSize is the size of the int32 length prefix of a document.
const DocHeaderSize = 4

// MinDocSize is the size of the smallest well-formed document: a length
// prefix and an EOO byte.
const MinDocSize = DocHeaderSize + 1

// Reader decodes elements at byte offsets within a single encoded buffer.
//
// All offsets are absolute within the buffer, so an offset obtained from one
// Reader method can be stored and handed back to any other method. The
// zero-cost construction makes it idiomatic to create a Reader per call:
//
//	r := wire.NewReader(buf)
//	name := r.NameAt(off)
//	next, ok := r.NextAt(off)
type Reader struct {
	engine endian.EndianEngine
	data   []byte
}

// NewReader creates a Reader over the given encoded buffer.
func NewReader(data []byte) Reader {
	return Reader{engine: endian.GetLittleEndianEngine(), data: data}
}

// Data returns the underlying buffer.
func (r Reader) Data() []byte {
	return r.data
}

// TypeAt returns the type tag of the element starting at off.
func (r Reader) TypeAt(off int) format.Type {
	return format.Type(r.data[off])
}

// NameAt returns the field name of the element starting at off.
// The returned string is a copy and never aliases the buffer.
func (r Reader) NameAt(off int) string {
	start := off + 1
	end := start
	for r.data[end] != 0 {
		end++
	}

	return string(r.data[start:end])
}

// NameSizeAt returns the encoded size of the field name, including the
// terminating NUL.
func (r Reader) NameSizeAt(off int) int {
	n := 1
	for r.data[off+n] != 0 {
		n++
	}

	return n // counted from off+1, so n covers the name plus its NUL
}

// ValueOffsetAt returns the offset of the first value byte of the element
// starting at off.
func (r Reader) ValueOffsetAt(off int) int {
	return off + 1 + r.NameSizeAt(off)
}

// ValueSizeAt returns the encoded size of the element's value.
func (r Reader) ValueSizeAt(off int) int {
	valOff := r.ValueOffsetAt(off)

	switch r.TypeAt(off) {
	case format.TypeDouble, format.TypeDateTime, format.TypeTimestamp, format.TypeInt64:
		return 8
	case format.TypeInt32:
		return 4
	case format.TypeBool:
		return 1
	case format.TypeNull, format.TypeUndefined, format.TypeMinKey, format.TypeMaxKey, format.TypeEOO:
		return 0
	case format.TypeObjectID:
		return 12
	case format.TypeString, format.TypeCode, format.TypeSymbol:
		// int32 length prefix counts the string bytes plus NUL.
		return 4 + int(r.engine.Uint32(r.data[valOff:valOff+4]))
	case format.TypeObject, format.TypeArray, format.TypeCodeWScope:
		// The leading int32 covers the entire value.
		return int(r.engine.Uint32(r.data[valOff : valOff+4]))
	case format.TypeBinary:
		return 4 + 1 + int(r.engine.Uint32(r.data[valOff:valOff+4]))
	case format.TypeRegex:
		n := valOff
		for r.data[n] != 0 {
			n++
		}
		n++ // pattern NUL
		for r.data[n] != 0 {
			n++
		}
		n++ // options NUL

		return n - valOff
	case format.TypeDBPointer:
		return 4 + int(r.engine.Uint32(r.data[valOff:valOff+4])) + 12
	default:
		return 0
	}
}

// SizeAt returns the total encoded size of the element starting at off:
// type byte, field name with NUL, and value.
func (r Reader) SizeAt(off int) int {
	return r.ValueOffsetAt(off) - off + r.ValueSizeAt(off)
}

// ElementAt returns the raw bytes of the complete element starting at off.
// The slice aliases the buffer.
func (r Reader) ElementAt(off int) []byte {
	return r.data[off : off+r.SizeAt(off)]
}

// ValueAt returns the raw value bytes of the element starting at off.
// The slice aliases the buffer.
func (r Reader) ValueAt(off int) []byte {
	valOff := r.ValueOffsetAt(off)
	return r.data[valOff : valOff+r.ValueSizeAt(off)]
}

// NextAt returns the offset of the element following the one at off, or
// false if the following byte is the enclosing container's EOO marker.
func (r Reader) NextAt(off int) (int, bool) {
	next := off + r.SizeAt(off)
	if r.data[next] == byte(format.TypeEOO) {
		return 0, false
	}

	return next, true
}

// FirstInsideAt returns the offset of the first child element embedded in
// the composite element starting at off, or false if the embedded document
// is empty. The element must be an object or an array.
func (r Reader) FirstInsideAt(off int) (int, bool) {
	return r.DocFirstElement(r.ValueOffsetAt(off))
}

// DocFirstElement returns the offset of the first element of the document
// starting at docOff, or false if the document is empty.
func (r Reader) DocFirstElement(docOff int) (int, bool) {
	first := docOff + DocHeaderSize
	if r.data[first] == byte(format.TypeEOO) {
		return 0, false
	}

	return first, true
}

// DocSize returns the total encoded size of the document starting at docOff,
// read from its length prefix.
func (r Reader) DocSize(docOff int) int {
	return int(r.engine.Uint32(r.data[docOff : docOff+4]))
}
