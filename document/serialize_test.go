package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bsonmut/wire"
)

func TestSerialize_RoundTripPristine(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendDouble("d", 3.25)
		sub := b.BeginDocument("obj")
		sub.AppendString("s", "str")
		arr := sub.BeginArray("xs")
		arr.AppendInt32(1)
		arr.AppendNull()
		arr.Done()
		sub.Done()
		b.AppendMinKey("min")
	})

	d, err := Parse(src)
	require.NoError(t, err)

	// Without mutations the serialization reproduces the source exactly.
	require.Equal(t, src, d.Serialize())

	// Navigating everything must not change the result.
	var walk func(e Element)
	walk = func(e Element) {
		for c := e.LeftChild(); c.Ok(); c = c.RightSibling() {
			walk(c)
		}
	}
	walk(d.Root())
	require.Equal(t, src, d.Serialize())
	checkInvariants(t, d)
}

func TestSerialize_PristineSubtreeIsBulkCopied(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		left := b.BeginDocument("left")
		left.AppendInt32("x", 1)
		left.Done()
		right := b.BeginDocument("right")
		right.AppendInt32("y", 2)
		right.Done()
	})

	d, err := Parse(src)
	require.NoError(t, err)

	// Mutate under "right" only.
	right := d.Root().LeftChild().RightSibling()
	require.NoError(t, right.PushBack(d.MakeElementInt32("z", 3)))

	// "left" still has its faithful encoding, so serialization emits it as
	// one bulk copy without materializing its children.
	left := d.Root().LeftChild()
	require.True(t, d.rep(left.idx).serialized)
	repsBefore := len(d.reps)

	out := d.Serialize()
	require.Len(t, d.reps, repsBefore, "bulk copy must not materialize children")

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		left := b.BeginDocument("left")
		left.AppendInt32("x", 1)
		left.Done()
		right := b.BeginDocument("right")
		right.AppendInt32("y", 2)
		right.AppendInt32("z", 3)
		right.Done()
	})
	require.Equal(t, expected, out)

	// Dirtiness propagated from the mutation point to the root.
	require.False(t, d.rep(right.idx).serialized)
	require.False(t, d.rep(rootRef).serialized)
	checkInvariants(t, d)
}

func TestWriteTo_NonRootObjectElement(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		sub := b.BeginDocument("obj")
		sub.AppendInt32("x", 1)
		sub.Done()
	})

	d, err := Parse(src)
	require.NoError(t, err)

	out := wire.NewDocumentBuilder()
	require.NoError(t, d.Root().LeftChild().WriteTo(out))

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		sub := b.BeginDocument("obj")
		sub.AppendInt32("x", 1)
		sub.Done()
	})
	require.Equal(t, expected, out.Done())
}

func TestWriteArrayTo_RewritesIndexKeys(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		arr := b.BeginArray("xs")
		arr.AppendString("a")
		arr.AppendString("b")
		arr.Done()
	})

	d, err := Parse(src)
	require.NoError(t, err)

	xs := d.Root().LeftChild()

	// Remove the first entry; writing the array renumbers from zero.
	require.NoError(t, xs.LeftChild().Remove())

	out := wire.NewArrayBuilder()
	require.NoError(t, xs.WriteArrayTo(out))

	r := wire.NewReader(out.Done())
	off, ok := r.DocFirstElement(0)
	require.True(t, ok)
	require.Equal(t, "0", r.NameAt(off))
	_, ok = r.NextAt(off)
	require.False(t, ok)
}

func TestWriteTo_TypeMismatch(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		arr := b.BeginArray("xs")
		arr.AppendInt32(1)
		arr.Done()
	})

	d, err := Parse(src)
	require.NoError(t, err)

	xs := d.Root().LeftChild()
	require.Error(t, xs.WriteTo(wire.NewDocumentBuilder()))
	require.Error(t, d.Root().WriteArrayTo(wire.NewArrayBuilder()))
}

func TestSerialize_EmptyComposites(t *testing.T) {
	d, err := New()
	require.NoError(t, err)

	require.NoError(t, d.Root().PushBack(d.MakeElementObject("o")))
	require.NoError(t, d.Root().PushBack(d.MakeElementArray("a")))

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		b.BeginDocument("o").Done()
		b.BeginArray("a").Done()
	})
	require.Equal(t, expected, d.Serialize())
	checkInvariants(t, d)
}

func TestMakeElementFromDoc_LazyChildren(t *testing.T) {
	d, err := New()
	require.NoError(t, err)

	inner := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("x", 1)
		b.AppendInt32("y", 2)
	})

	obj := d.MakeElementObjectFromDoc("obj", inner)
	require.NoError(t, d.Root().PushBack(obj))

	repsBefore := len(d.reps)
	require.True(t, obj.HasChildren())
	require.Len(t, d.reps, repsBefore+1, "children of a copied document materialize lazily")

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		sub := b.BeginDocument("obj")
		sub.AppendInt32("x", 1)
		sub.AppendInt32("y", 2)
		sub.Done()
	})
	require.Equal(t, expected, d.Serialize())
	checkInvariants(t, d)
}
