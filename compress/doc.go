// Package compress provides the compression codecs behind document
// snapshots.
//
// A snapshot stores a serialized document together with a header naming the
// codec that compressed it (see the snapshot package). BSON compresses well:
// field names repeat, and embedded documents share long common prefixes, so
// even the fast codecs reclaim a meaningful fraction of the payload.
//
// The package defines three interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Four codecs are built in, selected by format.CompressionType:
//   - None: stores the payload verbatim
//   - Zstd: best ratio; cgo builds use gozstd, pure-Go builds use
//     klauspost/compress
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//
// All codecs are stateless values and safe for concurrent use; internal
// encoder state is pooled.
package compress
