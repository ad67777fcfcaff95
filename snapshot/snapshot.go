package snapshot

import (
	"github.com/arloliu/bsonmut/compress"
	"github.com/arloliu/bsonmut/format"
	"github.com/arloliu/bsonmut/internal/buffer"
)

// Encode wraps a serialized document into a snapshot using the given codec.
func Encode(doc []byte, compression format.CompressionType) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Compress(doc)
	if err != nil {
		return nil, err
	}

	header := NewHeader(compression, uint32(len(doc)))

	buf := buffer.NewByteBuffer(HeaderSize + len(payload))
	buf.MustWrite(header.Bytes())
	buf.MustWrite(payload)

	return buf.Bytes(), nil
}

// Decode unwraps a snapshot and returns the serialized document it holds.
func Decode(data []byte) ([]byte, error) {
	var header Header
	if err := header.Parse(data); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, err
	}

	return codec.Decompress(data[HeaderSize:])
}
