package compress

import (
	"fmt"

	"github.com/arloliu/bsonmut/format"
)

// Compressor compresses a snapshot payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// The input slice is not modified. The returned slice is newly allocated
	// and owned by the caller, except for NoOpCompressor, which returns the
	// input slice itself.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a snapshot payload.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original
	// result. The data must have been produced by the matching Compressor;
	// corrupted or mismatched input yields an error.
	//
	// The input slice is not modified. The returned slice is newly allocated
	// and owned by the caller, except for NoOpCompressor, which returns the
	// input slice itself.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
