package wire

import (
	"math"
	"strconv"

	"github.com/arloliu/bsonmut/endian"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/internal/buffer"
)

// ValueWriter is the append surface the serializer writes through. It is
// implemented by DocumentBuilder, which honors field names, and by
// ArrayBuilder, which replaces them with decimal index keys.
type ValueWriter interface {
	// AppendElement appends a complete encoded element and returns its
	// starting offset in the underlying buffer. DocumentBuilder copies it
	// verbatim; ArrayBuilder writes it under the next index key.
	AppendElement(raw []byte) int

	// AppendElementAs appends the element's type and value under a new field
	// name and returns its starting offset.
	AppendElementAs(name string, raw []byte) int

	// BeginDocument opens an embedded document under the given name. The
	// returned builder shares the underlying buffer and must be completed
	// with Done before the receiver is used again.
	BeginDocument(name string) *DocumentBuilder

	// BeginArray opens an embedded array under the given name, with the same
	// completion contract as BeginDocument.
	BeginArray(name string) *ArrayBuilder
}

var (
	_ ValueWriter = (*DocumentBuilder)(nil)
	_ ValueWriter = (*ArrayBuilder)(nil)
)

// DocumentBuilder encodes a document into a single growing buffer.
//
// The buffer opens with a four-byte length prefix which stays unpatched
// until Bytes patches it to the current size, or Done writes the trailing
// EOO byte and fixes it up. Every append
// returns the starting offset of the element it wrote; offsets remain valid
// across buffer growth because they are relative to the buffer start.
//
// A DocumentBuilder is also the document's leaf builder: elements appended
// to it can be located later by their recorded offsets, whether or not the
// document framing has been completed.
type DocumentBuilder struct {
	buf    *buffer.ByteBuffer
	engine endian.EndianEngine
	start  int // offset of this document's length prefix
	done   bool
}

// NewDocumentBuilder creates an empty top-level document builder.
func NewDocumentBuilder() *DocumentBuilder {
	b := &DocumentBuilder{
		buf:    buffer.NewByteBuffer(buffer.DocBufferDefaultSize),
		engine: endian.GetLittleEndianEngine(),
	}
	b.buf.B = append(b.buf.B, 0, 0, 0, 0)

	return b
}

// Len returns the current length of the underlying buffer.
func (b *DocumentBuilder) Len() int {
	return len(b.buf.B)
}

// Bytes returns the underlying buffer with the length prefix patched to the
// current size. The trailing EOO byte is only present after Done, so the
// result is a complete document only for a finished top-level builder; for a
// live leaf builder it is a snapshot addressed by recorded element offsets.
func (b *DocumentBuilder) Bytes() []byte {
	b.engine.PutUint32(b.buf.B[b.start:b.start+4], uint32(len(b.buf.B)-b.start))
	return b.buf.B
}

// Done writes the EOO byte, patches the length prefix, and returns the
// completed document. Calling Done twice returns the same region.
func (b *DocumentBuilder) Done() []byte {
	if !b.done {
		b.buf.B = append(b.buf.B, byte(format.TypeEOO))
		b.engine.PutUint32(b.buf.B[b.start:b.start+4], uint32(len(b.buf.B)-b.start))
		b.done = true
	}

	return b.buf.B[b.start:]
}

func (b *DocumentBuilder) header(t format.Type, name string) int {
	off := len(b.buf.B)
	b.buf.B = append(b.buf.B, byte(t))
	b.buf.B = append(b.buf.B, name...)
	b.buf.B = append(b.buf.B, 0)

	return off
}

// AppendElement appends a complete encoded element verbatim.
func (b *DocumentBuilder) AppendElement(raw []byte) int {
	off := len(b.buf.B)
	b.buf.MustWrite(raw)

	return off
}

// AppendElementAs appends the element's type byte and value under a new
// field name.
func (b *DocumentBuilder) AppendElementAs(name string, raw []byte) int {
	r := NewReader(raw)
	off := b.header(r.TypeAt(0), name)
	b.buf.MustWrite(r.ValueAt(0))

	return off
}

// BeginDocument opens an embedded document under the given name.
func (b *DocumentBuilder) BeginDocument(name string) *DocumentBuilder {
	b.header(format.TypeObject, name)
	sub := &DocumentBuilder{buf: b.buf, engine: b.engine, start: len(b.buf.B)}
	b.buf.B = append(b.buf.B, 0, 0, 0, 0)

	return sub
}

// BeginArray opens an embedded array under the given name.
func (b *DocumentBuilder) BeginArray(name string) *ArrayBuilder {
	b.header(format.TypeArray, name)
	sub := &DocumentBuilder{buf: b.buf, engine: b.engine, start: len(b.buf.B)}
	b.buf.B = append(b.buf.B, 0, 0, 0, 0)

	return &ArrayBuilder{b: sub}
}

// AppendDouble appends a 64-bit floating point element.
func (b *DocumentBuilder) AppendDouble(name string, value float64) int {
	off := b.header(format.TypeDouble, name)
	b.buf.B = b.engine.AppendUint64(b.buf.B, math.Float64bits(value))

	return off
}

// AppendString appends a UTF-8 string element.
func (b *DocumentBuilder) AppendString(name, value string) int {
	off := b.header(format.TypeString, name)
	b.buf.B = b.engine.AppendUint32(b.buf.B, uint32(len(value)+1))
	b.buf.B = append(b.buf.B, value...)
	b.buf.B = append(b.buf.B, 0)

	return off
}

// AppendObject appends an embedded document element. The value must be a
// complete encoded document.
func (b *DocumentBuilder) AppendObject(name string, doc []byte) int {
	off := b.header(format.TypeObject, name)
	b.buf.MustWrite(doc)

	return off
}

// AppendArray appends an embedded array element. The value must be a
// complete encoded document with decimal index keys.
func (b *DocumentBuilder) AppendArray(name string, doc []byte) int {
	off := b.header(format.TypeArray, name)
	b.buf.MustWrite(doc)

	return off
}

// AppendBinary appends a binary element with the given subtype.
func (b *DocumentBuilder) AppendBinary(name string, subtype byte, data []byte) int {
	off := b.header(format.TypeBinary, name)
	b.buf.B = b.engine.AppendUint32(b.buf.B, uint32(len(data)))
	b.buf.B = append(b.buf.B, subtype)
	b.buf.MustWrite(data)

	return off
}

// AppendUndefined appends an undefined element.
func (b *DocumentBuilder) AppendUndefined(name string) int {
	return b.header(format.TypeUndefined, name)
}

// AppendObjectID appends a 12-byte object id element.
func (b *DocumentBuilder) AppendObjectID(name string, id [12]byte) int {
	off := b.header(format.TypeObjectID, name)
	b.buf.MustWrite(id[:])

	return off
}

// AppendBool appends a boolean element.
func (b *DocumentBuilder) AppendBool(name string, value bool) int {
	off := b.header(format.TypeBool, name)
	if value {
		b.buf.B = append(b.buf.B, 1)
	} else {
		b.buf.B = append(b.buf.B, 0)
	}

	return off
}

// AppendDateTime appends a UTC datetime element in milliseconds.
func (b *DocumentBuilder) AppendDateTime(name string, ms int64) int {
	off := b.header(format.TypeDateTime, name)
	b.buf.B = b.engine.AppendUint64(b.buf.B, uint64(ms))

	return off
}

// AppendNull appends a null element.
func (b *DocumentBuilder) AppendNull(name string) int {
	return b.header(format.TypeNull, name)
}

// AppendRegex appends a regular expression element.
func (b *DocumentBuilder) AppendRegex(name, pattern, options string) int {
	off := b.header(format.TypeRegex, name)
	b.buf.B = append(b.buf.B, pattern...)
	b.buf.B = append(b.buf.B, 0)
	b.buf.B = append(b.buf.B, options...)
	b.buf.B = append(b.buf.B, 0)

	return off
}

// AppendDBPointer appends a deprecated DB pointer element.
func (b *DocumentBuilder) AppendDBPointer(name, ns string, id [12]byte) int {
	off := b.header(format.TypeDBPointer, name)
	b.buf.B = b.engine.AppendUint32(b.buf.B, uint32(len(ns)+1))
	b.buf.B = append(b.buf.B, ns...)
	b.buf.B = append(b.buf.B, 0)
	b.buf.MustWrite(id[:])

	return off
}

// AppendCode appends a JavaScript code element.
func (b *DocumentBuilder) AppendCode(name, code string) int {
	off := b.header(format.TypeCode, name)
	b.buf.B = b.engine.AppendUint32(b.buf.B, uint32(len(code)+1))
	b.buf.B = append(b.buf.B, code...)
	b.buf.B = append(b.buf.B, 0)

	return off
}

// AppendSymbol appends a deprecated symbol element.
func (b *DocumentBuilder) AppendSymbol(name, value string) int {
	off := b.header(format.TypeSymbol, name)
	b.buf.B = b.engine.AppendUint32(b.buf.B, uint32(len(value)+1))
	b.buf.B = append(b.buf.B, value...)
	b.buf.B = append(b.buf.B, 0)

	return off
}

// AppendCodeWithScope appends a code-with-scope element. The scope must be a
// complete encoded document.
func (b *DocumentBuilder) AppendCodeWithScope(name, code string, scope []byte) int {
	off := b.header(format.TypeCodeWScope, name)
	total := 4 + 4 + len(code) + 1 + len(scope)
	b.buf.B = b.engine.AppendUint32(b.buf.B, uint32(total))
	b.buf.B = b.engine.AppendUint32(b.buf.B, uint32(len(code)+1))
	b.buf.B = append(b.buf.B, code...)
	b.buf.B = append(b.buf.B, 0)
	b.buf.MustWrite(scope)

	return off
}

// AppendInt32 appends a 32-bit integer element.
func (b *DocumentBuilder) AppendInt32(name string, value int32) int {
	off := b.header(format.TypeInt32, name)
	b.buf.B = b.engine.AppendUint32(b.buf.B, uint32(value))

	return off
}

// AppendTimestamp appends an internal timestamp element.
func (b *DocumentBuilder) AppendTimestamp(name string, value uint64) int {
	off := b.header(format.TypeTimestamp, name)
	b.buf.B = b.engine.AppendUint64(b.buf.B, value)

	return off
}

// AppendInt64 appends a 64-bit integer element.
func (b *DocumentBuilder) AppendInt64(name string, value int64) int {
	off := b.header(format.TypeInt64, name)
	b.buf.B = b.engine.AppendUint64(b.buf.B, uint64(value))

	return off
}

// AppendMinKey appends a min-key element.
func (b *DocumentBuilder) AppendMinKey(name string) int {
	return b.header(format.TypeMinKey, name)
}

// AppendMaxKey appends a max-key element.
func (b *DocumentBuilder) AppendMaxKey(name string) int {
	return b.header(format.TypeMaxKey, name)
}

// ArrayBuilder encodes an array by delegating to a DocumentBuilder while
// generating decimal index keys. Field names passed by callers are ignored.
type ArrayBuilder struct {
	b *DocumentBuilder
	n int
}

// NewArrayBuilder creates an empty top-level array builder.
func NewArrayBuilder() *ArrayBuilder {
	return &ArrayBuilder{b: NewDocumentBuilder()}
}

func (a *ArrayBuilder) nextKey() string {
	key := strconv.Itoa(a.n)
	a.n++

	return key
}

// Len returns the current length of the underlying buffer.
func (a *ArrayBuilder) Len() int {
	return a.b.Len()
}

// Done completes the array document and returns its bytes.
func (a *ArrayBuilder) Done() []byte {
	return a.b.Done()
}

// AppendElement appends the element's type and value under the next index key.
func (a *ArrayBuilder) AppendElement(raw []byte) int {
	return a.b.AppendElementAs(a.nextKey(), raw)
}

// AppendElementAs appends the element under the next index key; the given
// name is ignored.
func (a *ArrayBuilder) AppendElementAs(_ string, raw []byte) int {
	return a.b.AppendElementAs(a.nextKey(), raw)
}

// BeginDocument opens an embedded document under the next index key.
func (a *ArrayBuilder) BeginDocument(_ string) *DocumentBuilder {
	return a.b.BeginDocument(a.nextKey())
}

// BeginArray opens an embedded array under the next index key.
func (a *ArrayBuilder) BeginArray(_ string) *ArrayBuilder {
	return a.b.BeginArray(a.nextKey())
}

// AppendDouble appends a 64-bit floating point value.
func (a *ArrayBuilder) AppendDouble(value float64) int {
	return a.b.AppendDouble(a.nextKey(), value)
}

// AppendString appends a UTF-8 string value.
func (a *ArrayBuilder) AppendString(value string) int {
	return a.b.AppendString(a.nextKey(), value)
}

// AppendInt32 appends a 32-bit integer value.
func (a *ArrayBuilder) AppendInt32(value int32) int {
	return a.b.AppendInt32(a.nextKey(), value)
}

// AppendInt64 appends a 64-bit integer value.
func (a *ArrayBuilder) AppendInt64(value int64) int {
	return a.b.AppendInt64(a.nextKey(), value)
}

// AppendBool appends a boolean value.
func (a *ArrayBuilder) AppendBool(value bool) int {
	return a.b.AppendBool(a.nextKey(), value)
}

// AppendNull appends a null value.
func (a *ArrayBuilder) AppendNull() int {
	return a.b.AppendNull(a.nextKey())
}
