// Package endian provides byte order utilities for the BSON wire codec.
//
// BSON fixes every multi-byte quantity to little-endian, so the codec in the
// wire package always uses GetLittleEndianEngine(). The package combines
// ByteOrder and AppendByteOrder from encoding/binary into a single interface
// so that both in-place writes and appending writes share one engine value.
//
// Using the append side of the engine avoids the temporary-buffer copy that
// ByteOrder alone would require:
//
//	buf = engine.AppendUint32(buf, v) // single append
//
//	tmp := make([]byte, 4)            // slower, extra allocation
//	engine.PutUint32(tmp, v)
//	buf = append(buf, tmp...)
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
//
// The interface is satisfied by binary.LittleEndian and binary.BigEndian,
// so it composes with any existing code that takes a binary.ByteOrder.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine. This is the wire
// order mandated by the BSON specification.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. It is not used on the
// BSON wire but is provided for snapshot header experiments and tests.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
