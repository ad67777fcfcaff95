// Package snapshot encodes a serialized document into a self-describing,
// optionally compressed capture: a fixed-size header naming the codec,
// followed by the compressed payload.
//
// Snapshots are plain byte transforms: they neither persist anything nor
// retain references into the document they came from.
package snapshot

import (
	"github.com/arloliu/bsonmut/endian"
	"github.com/arloliu/bsonmut/errs"
	"github.com/arloliu/bsonmut/format"
)

const (
	// HeaderSize is the fixed size of the snapshot header in bytes.
	HeaderSize = 8

	// MagicMask selects the magic number bits of the packed options field.
	MagicMask = 0xFFF0

	// MagicSnapshotV1 identifies snapshot format v1 in the options field.
	MagicSnapshotV1 = 0xB5D0

	// EndianMask selects the endianness bit of the packed options field.
	// 0 means little-endian header fields, 1 means big-endian.
	EndianMask = 0x0001

	// Version is the current snapshot format version byte.
	Version = 1
)

// Header is the fixed-size section at the start of a snapshot.
type Header struct {
	// Options is a packed field: bit 0 is the endianness of RawSize,
	// bits 1-3 are reserved, bits 4-15 are the magic number.
	Options uint16 // byte offset 0-1, always little-endian

	// Version is the snapshot format version. // byte offset 2
	Version uint8

	// Compression names the codec applied to the payload. // byte offset 3
	Compression format.CompressionType

	// RawSize is the size of the uncompressed payload. // byte offset 4-7
	RawSize uint32
}

// NewHeader creates a v1 little-endian header for a payload of the given
// uncompressed size.
func NewHeader(compression format.CompressionType, rawSize uint32) Header {
	return Header{
		Options:     MagicSnapshotV1 & MagicMask,
		Version:     Version,
		Compression: compression,
		RawSize:     rawSize,
	}
}

// EndianEngine returns the engine for the header's multi-byte fields.
func (h Header) EndianEngine() endian.EndianEngine {
	if h.Options&EndianMask != 0 {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Bytes serializes the header into a fresh byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	// The options field itself is always little-endian.
	b[0] = byte(h.Options)
	b[1] = byte(h.Options >> 8)
	b[2] = h.Version
	b[3] = byte(h.Compression)
	h.EndianEngine().PutUint32(b[4:8], h.RawSize)

	return b
}

// Parse parses and validates a header from the start of data.
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidSnapshotHeader
	}

	h.Options = uint16(data[0]) | uint16(data[1])<<8
	h.Version = data[2]
	h.Compression = format.CompressionType(data[3])
	h.RawSize = h.EndianEngine().Uint32(data[4:8])

	return h.Validate()
}

// Validate checks the magic number, version, and compression type.
func (h Header) Validate() error {
	if h.Options&MagicMask != MagicSnapshotV1&MagicMask {
		return errs.ErrInvalidMagicNumber
	}
	if h.Version != Version {
		return errs.ErrInvalidSnapshotHeader
	}

	switch h.Compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		return nil
	default:
		return errs.ErrInvalidCompressionType
	}
}
