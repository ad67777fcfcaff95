package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 16, bb.Cap())

	bb.MustWrite([]byte("hello"))
	require.Equal(t, 5, bb.Len())
	require.Equal(t, []byte("hello"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 16)
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("12345678"))

	bb.Grow(1024)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1024)
	require.Equal(t, []byte("12345678"), bb.Bytes())
}

func TestByteBuffer_ExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	require.True(t, bb.Extend(4))
	require.Equal(t, 4, bb.Len())

	require.False(t, bb.Extend(1024))
	bb.ExtendOrGrow(1024)
	require.Equal(t, 4+1024, bb.Len())
}

func TestByteBuffer_SliceBounds(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("abcdef"))
	require.Equal(t, []byte("cd"), bb.Slice(2, 4))
	require.Panics(t, func() { bb.Slice(-1, 2) })
	require.Panics(t, func() { bb.SetLength(-1) })
}
