package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bsonmut/errs"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/wire"
)

func sampleDoc() []byte {
	b := wire.NewDocumentBuilder()
	b.AppendString("k", "value value value value")
	b.AppendInt64("n", 12345)

	return b.Done()
}

func TestHeader_RoundTrip(t *testing.T) {
	h := NewHeader(format.CompressionZstd, 100)
	data := h.Bytes()
	require.Len(t, data, HeaderSize)

	var parsed Header
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, h, parsed)
	require.Equal(t, format.CompressionZstd, parsed.Compression)
	require.Equal(t, uint32(100), parsed.RawSize)
}

func TestHeader_Validate(t *testing.T) {
	var h Header
	require.ErrorIs(t, h.Parse([]byte{1, 2, 3}), errs.ErrInvalidSnapshotHeader)

	bad := NewHeader(format.CompressionNone, 1)
	bad.Options = 0
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidMagicNumber)

	badCompression := NewHeader(format.CompressionType(0x9), 1)
	require.ErrorIs(t, badCompression.Validate(), errs.ErrInvalidCompressionType)

	badVersion := NewHeader(format.CompressionNone, 1)
	badVersion.Version = 9
	require.ErrorIs(t, badVersion.Validate(), errs.ErrInvalidSnapshotHeader)
}

func TestEncodeDecode_AllCodecs(t *testing.T) {
	doc := sampleDoc()

	for _, compression := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		snap, err := Encode(doc, compression)
		require.NoError(t, err, compression.String())

		restored, err := Decode(snap)
		require.NoError(t, err, compression.String())
		require.Equal(t, doc, restored, compression.String())
	}
}

func TestEncode_UnknownCompression(t *testing.T) {
	_, err := Encode(sampleDoc(), format.CompressionType(0x7))
	require.Error(t, err)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0})
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
}
