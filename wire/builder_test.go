package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bsonmut/format"
)

func TestDocumentBuilder_Empty(t *testing.T) {
	b := NewDocumentBuilder()
	doc := b.Done()

	require.Equal(t, []byte{5, 0, 0, 0, 0}, doc)
}

func TestDocumentBuilder_AppendString(t *testing.T) {
	b := NewDocumentBuilder()
	off := b.AppendString("a", "a")
	doc := b.Done()

	// {"a":"a"} encodes to exactly 14 bytes.
	expected := []byte{
		14, 0, 0, 0, // document length
		0x02, 'a', 0, // string element header
		2, 0, 0, 0, 'a', 0, // length-prefixed value
		0, // EOO
	}
	require.Equal(t, expected, doc)
	require.Equal(t, 4, off)
}

func TestDocumentBuilder_ScalarSizes(t *testing.T) {
	b := NewDocumentBuilder()
	b.AppendDouble("d", 1.5)
	b.AppendInt32("i", 7)
	b.AppendInt64("l", 7)
	b.AppendBool("b", true)
	b.AppendNull("n")
	b.AppendDateTime("t", 1234)
	b.AppendTimestamp("ts", 99)
	b.AppendObjectID("o", [12]byte{1, 2, 3})
	doc := b.Done()

	r := NewReader(doc)
	off, ok := r.DocFirstElement(0)
	require.True(t, ok)

	sizes := map[string]int{}
	for {
		sizes[r.NameAt(off)] = r.ValueSizeAt(off)
		off, ok = r.NextAt(off)
		if !ok {
			break
		}
	}

	require.Equal(t, 8, sizes["d"])
	require.Equal(t, 4, sizes["i"])
	require.Equal(t, 8, sizes["l"])
	require.Equal(t, 1, sizes["b"])
	require.Equal(t, 0, sizes["n"])
	require.Equal(t, 8, sizes["t"])
	require.Equal(t, 8, sizes["ts"])
	require.Equal(t, 12, sizes["o"])
}

func TestDocumentBuilder_SubDocuments(t *testing.T) {
	b := NewDocumentBuilder()
	sub := b.BeginDocument("obj")
	sub.AppendInt32("x", 1)
	sub.Done()
	b.AppendBool("after", false)
	doc := b.Done()

	r := NewReader(doc)
	off, ok := r.DocFirstElement(0)
	require.True(t, ok)
	require.Equal(t, format.TypeObject, r.TypeAt(off))
	require.Equal(t, "obj", r.NameAt(off))

	inner, ok := r.FirstInsideAt(off)
	require.True(t, ok)
	require.Equal(t, "x", r.NameAt(inner))

	next, ok := r.NextAt(off)
	require.True(t, ok)
	require.Equal(t, "after", r.NameAt(next))

	_, ok = r.NextAt(next)
	require.False(t, ok)
}

func TestArrayBuilder_IndexKeys(t *testing.T) {
	b := NewDocumentBuilder()
	arr := b.BeginArray("xs")
	arr.AppendString("one")
	arr.AppendInt32(2)
	arr.Done()
	doc := b.Done()

	r := NewReader(doc)
	off, _ := r.DocFirstElement(0)
	require.Equal(t, format.TypeArray, r.TypeAt(off))

	first, ok := r.FirstInsideAt(off)
	require.True(t, ok)
	require.Equal(t, "0", r.NameAt(first))

	second, ok := r.NextAt(first)
	require.True(t, ok)
	require.Equal(t, "1", r.NameAt(second))
}

func TestDocumentBuilder_AppendElementAs(t *testing.T) {
	src := NewDocumentBuilder()
	src.AppendInt32("orig", 42)
	srcDoc := src.Done()

	r := NewReader(srcDoc)
	off, _ := r.DocFirstElement(0)
	raw := r.ElementAt(off)

	dst := NewDocumentBuilder()
	dst.AppendElementAs("renamed", raw)
	doc := dst.Done()

	rd := NewReader(doc)
	off, _ = rd.DocFirstElement(0)
	require.Equal(t, format.TypeInt32, rd.TypeAt(off))
	require.Equal(t, "renamed", rd.NameAt(off))
	require.Equal(t, raw[len(raw)-4:], rd.ValueAt(off))
}

func TestDocumentBuilder_BytesSnapshot(t *testing.T) {
	b := NewDocumentBuilder()
	off1 := b.AppendInt32("a", 1)
	off2 := b.AppendInt32("b", 2)

	// The snapshot is addressable by the recorded offsets even though the
	// framing is not completed.
	r := NewReader(b.Bytes())
	require.Equal(t, "a", r.NameAt(off1))
	require.Equal(t, "b", r.NameAt(off2))
	require.Equal(t, b.Len(), r.DocSize(0))
}
