package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bsonmut/errs"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/wire"
)

func TestAddChild_IntoEmptyDocument(t *testing.T) {
	d, err := New()
	require.NoError(t, err)

	el := d.MakeElementString("a", "a")
	require.NoError(t, d.Root().PushBack(el))

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendString("a", "a")
	})
	require.Equal(t, expected, d.Serialize())
	checkInvariants(t, d)
}

func TestMutate_PushAndAppendIntoNestedObjects(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		xs := b.BeginDocument("xs")
		xs.AppendString("x", "x")
		xs.AppendString("X", "X")
		xs.Done()
		ys := b.BeginDocument("ys")
		ys.AppendString("y", "y")
		ys.Done()
	})

	d, err := Parse(src)
	require.NoError(t, err)

	ys := d.Root().LeftChild().RightSibling()
	require.Equal(t, "ys", ys.FieldName())

	require.NoError(t, ys.PushBack(d.MakeElementString("Y", "Y")))

	why := d.MakeElementArray("why")
	require.NoError(t, ys.PushBack(why))
	require.NoError(t, why.PushBack(d.MakeElementString("na", "not")))

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		xs := b.BeginDocument("xs")
		xs.AppendString("x", "x")
		xs.AppendString("X", "X")
		xs.Done()
		ys := b.BeginDocument("ys")
		ys.AppendString("y", "y")
		ys.AppendString("Y", "Y")
		arr := ys.BeginArray("why")
		arr.AppendString("not")
		arr.Done()
		ys.Done()
	})
	require.Equal(t, expected, d.Serialize())
	checkInvariants(t, d)
}

func TestRemove_MiddleChild(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("a", 1)
		b.AppendInt32("b", 2)
		b.AppendInt32("c", 3)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	b := d.Root().LeftChild().RightSibling()
	require.Equal(t, "b", b.FieldName())
	require.NoError(t, b.Remove())

	expected := buildDoc(func(db *wire.DocumentBuilder) {
		db.AppendInt32("a", 1)
		db.AppendInt32("c", 3)
	})
	require.Equal(t, expected, d.Serialize())

	// The handle stays valid; the record is retained in a detached state.
	require.True(t, b.Ok())
	rep := d.rep(b.idx)
	require.Equal(t, invalidRef, rep.parent)
	require.Equal(t, invalidRef, rep.siblingLeft)
	require.Equal(t, invalidRef, rep.siblingRight)
	v, ok := b.Int32()
	require.True(t, ok)
	require.Equal(t, int32(2), v)

	checkInvariants(t, d)
}

func TestRemove_ThenReattach(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("a", 1)
		b.AppendInt32("b", 2)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	a := d.Root().LeftChild()
	require.NoError(t, a.Remove())
	require.NoError(t, d.Root().PushBack(a))

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("b", 2)
		b.AppendInt32("a", 1)
	})
	require.Equal(t, expected, d.Serialize())
	checkInvariants(t, d)
}

func TestAddSibling_LeftAndRight(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("mid", 2)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	mid := d.Root().LeftChild()
	require.NoError(t, mid.AddSiblingLeft(d.MakeElementInt32("first", 1)))
	require.NoError(t, mid.AddSiblingRight(d.MakeElementInt32("last", 3)))

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("first", 1)
		b.AppendInt32("mid", 2)
		b.AppendInt32("last", 3)
	})
	require.Equal(t, expected, d.Serialize())

	// The parent's child endpoints moved to the new elements.
	require.Equal(t, "first", d.Root().LeftChild().FieldName())
	require.Equal(t, "last", d.Root().RightChild().FieldName())
	checkInvariants(t, d)
}

func TestRename_DeepComposite(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		a := b.BeginDocument("a")
		bb := a.BeginDocument("b")
		bb.AppendInt32("c", 1)
		bb.Done()
		a.Done()
	})

	d, err := Parse(src)
	require.NoError(t, err)

	a := d.Root().LeftChild()
	b := a.LeftChild()
	require.NoError(t, b.Rename("BB"))

	expected := buildDoc(func(db *wire.DocumentBuilder) {
		a := db.BeginDocument("a")
		bb := a.BeginDocument("BB")
		bb.AppendInt32("c", 1)
		bb.Done()
		a.Done()
	})
	require.Equal(t, expected, d.Serialize())

	// The renamed element and its ancestors lost their serialized form;
	// the untouched grandchild kept its bytes.
	require.False(t, d.rep(a.idx).serialized)
	require.False(t, d.rep(b.idx).serialized)
	require.Equal(t, "BB", b.FieldName())
	c := b.LeftChild()
	require.True(t, d.rep(c.idx).serialized)

	checkInvariants(t, d)
}

func TestRename_Leaf(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("old", 42)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	el := d.Root().LeftChild()
	require.NoError(t, el.Rename("new"))

	require.Equal(t, "new", el.FieldName())
	v, ok := el.Int32()
	require.True(t, ok)
	require.Equal(t, int32(42), v)

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("new", 42)
	})
	require.Equal(t, expected, d.Serialize())
	checkInvariants(t, d)
}

func TestSetValue_ChangesTypeAndShape(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("v", 1)
		b.AppendInt32("w", 2)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	v := d.Root().LeftChild()
	require.NoError(t, v.SetValueString("hello"))

	require.Equal(t, format.TypeString, v.Type())
	require.Equal(t, "v", v.FieldName())
	sv, ok := v.StringValue()
	require.True(t, ok)
	require.Equal(t, "hello", sv)

	// The sibling chain survived the slot rewrite.
	require.Equal(t, "w", v.RightSibling().FieldName())

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendString("v", "hello")
		b.AppendInt32("w", 2)
	})
	require.Equal(t, expected, d.Serialize())
	checkInvariants(t, d)
}

func TestSetValueObject_ReplacesSubtree(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("v", 1)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	inner := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendBool("nested", true)
	})

	v := d.Root().LeftChild()
	require.NoError(t, v.SetValueObject(inner))

	require.Equal(t, format.TypeObject, v.Type())
	nested := v.LeftChild()
	require.Equal(t, "nested", nested.FieldName())

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		sub := b.BeginDocument("v")
		sub.AppendBool("nested", true)
		sub.Done()
	})
	require.Equal(t, expected, d.Serialize())
	checkInvariants(t, d)
}

func TestSetValueElement_RejectsEOO(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("v", 1)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	err = d.Root().LeftChild().SetValueElement([]byte{0})
	require.ErrorIs(t, err, errs.ErrBadType)
}

func TestSetValueElement_CopiesValueKeepsName(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("v", 1)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	raw := wireElement(t, func(b *wire.DocumentBuilder) {
		b.AppendString("other", "payload")
	})

	v := d.Root().LeftChild()
	require.NoError(t, v.SetValueElement(raw))

	require.Equal(t, "v", v.FieldName())
	sv, ok := v.StringValue()
	require.True(t, ok)
	require.Equal(t, "payload", sv)
}

// wireElement builds a single encoded element for test input.
func wireElement(t *testing.T, build func(b *wire.DocumentBuilder)) []byte {
	t.Helper()

	doc := buildDoc(build)
	r := wire.NewReader(doc)
	off, ok := r.DocFirstElement(0)
	require.True(t, ok)

	return r.ElementAt(off)
}

func TestMutate_ErrorKinds(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		b.AppendInt32("a", 1)
		b.AppendInt32("b", 2)
	})

	d, err := Parse(src)
	require.NoError(t, err)

	a := d.Root().LeftChild()

	t.Run("remove root", func(t *testing.T) {
		require.ErrorIs(t, d.Root().Remove(), errs.ErrRemoveRoot)
	})

	t.Run("rename root", func(t *testing.T) {
		require.ErrorIs(t, d.Root().Rename("x"), errs.ErrIllegalRoot)
	})

	t.Run("set value on root", func(t *testing.T) {
		require.ErrorIs(t, d.Root().SetValueInt32(1), errs.ErrIllegalRoot)
	})

	t.Run("sibling insertion without parent", func(t *testing.T) {
		detached := d.MakeElementInt32("x", 1)
		other := d.MakeElementInt32("y", 2)
		require.ErrorIs(t, detached.AddSiblingRight(other), errs.ErrNoParent)
	})

	t.Run("attach an attached element", func(t *testing.T) {
		require.ErrorIs(t, a.AddSiblingRight(a.RightSibling()), errs.ErrIllegalAttach)
	})

	t.Run("attach the root", func(t *testing.T) {
		require.ErrorIs(t, a.AddSiblingRight(d.Root()), errs.ErrIllegalAttach)
	})

	t.Run("child on a scalar", func(t *testing.T) {
		require.ErrorIs(t, a.PushBack(d.MakeElementInt32("x", 1)), errs.ErrNotComposite)
	})

	t.Run("cross-document attach", func(t *testing.T) {
		d2, err := New()
		require.NoError(t, err)
		el := d2.MakeElementInt32("x", 1)
		require.ErrorIs(t, d.Root().PushBack(el), errs.ErrWrongDocument)
	})

	t.Run("remove detached element", func(t *testing.T) {
		detached := d.MakeElementInt32("x", 1)
		require.ErrorIs(t, detached.Remove(), errs.ErrNoParent)
	})
}

func TestMakeElementCopy_SameAndCrossDocument(t *testing.T) {
	src := buildDoc(func(b *wire.DocumentBuilder) {
		sub := b.BeginDocument("obj")
		sub.AppendInt32("x", 1)
		sub.Done()
	})

	d, err := Parse(src)
	require.NoError(t, err)

	obj := d.Root().LeftChild()

	// Same-document copy detours through a side buffer.
	dup := d.MakeElementWithNewName("copy", obj)
	require.NoError(t, d.Root().PushBack(dup))

	// Cross-document copy streams directly into the other leaf builder.
	d2, err := New()
	require.NoError(t, err)
	imported := d2.MakeElementCopy(obj)
	require.NoError(t, d2.Root().PushBack(imported))

	expected := buildDoc(func(b *wire.DocumentBuilder) {
		sub := b.BeginDocument("obj")
		sub.AppendInt32("x", 1)
		sub.Done()
		cp := b.BeginDocument("copy")
		cp.AppendInt32("x", 1)
		cp.Done()
	})
	require.Equal(t, expected, d.Serialize())

	expected2 := buildDoc(func(b *wire.DocumentBuilder) {
		sub := b.BeginDocument("obj")
		sub.AppendInt32("x", 1)
		sub.Done()
	})
	require.Equal(t, expected2, d2.Serialize())

	checkInvariants(t, d)
	checkInvariants(t, d2)
}

func TestMutate_ArgumentAliasingPanics(t *testing.T) {
	d, err := New()
	require.NoError(t, err)

	el := d.MakeElementString("s", "value")
	require.NoError(t, d.Root().PushBack(el))

	raw := el.Value()
	require.NotNil(t, raw)

	// Feeding a view of the leaf builder back into the same document must
	// trip the aliasing defense.
	require.Panics(t, func() {
		_, _ = d.MakeElementFromRaw(raw)
	})
}
