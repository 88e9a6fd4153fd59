package wire

import (
	"encoding/binary"
	"math"
)

// FUInt64 implements fixed-size little-endian serialization of a uint64.
func FUInt64(v uint64, buf *Buffer) {
	buf.EnsureSpace(8)
	buf.Data = binary.LittleEndian.AppendUint64(buf.Data, v)
}

// RUInt64 reads a fixed-size little-endian uint64.
func RUInt64(buf *Buffer) (uint64, bool) {
	b, ok := buf.ReadBytes(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

// FUInt32 implements fixed-size little-endian serialization of a uint32.
func FUInt32(v uint32, buf *Buffer) {
	buf.EnsureSpace(4)
	buf.Data = binary.LittleEndian.AppendUint32(buf.Data, v)
}

// RUInt32 reads a fixed-size little-endian uint32.
func RUInt32(buf *Buffer) (uint32, bool) {
	b, ok := buf.ReadBytes(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// FUInt16 implements fixed-size little-endian serialization of a uint16.
func FUInt16(v uint16, buf *Buffer) {
	buf.EnsureSpace(2)
	buf.Data = binary.LittleEndian.AppendUint16(buf.Data, v)
}

// RUInt16 reads a fixed-size little-endian uint16.
func RUInt16(buf *Buffer) (uint16, bool) {
	b, ok := buf.ReadBytes(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

// Byte writes a single byte.
func Byte(v byte, buf *Buffer) { buf.WriteBytes(v) }

// RByte reads a single byte.
func RByte(buf *Buffer) (byte, bool) {
	b, ok := buf.ReadBytes(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

// Bool writes a single byte, 1 for true and 0 for false.
func Bool(v bool, buf *Buffer) {
	if v {
		Byte(1, buf)
	} else {
		Byte(0, buf)
	}
}

// RBool reads a boolean written by Bool.
func RBool(buf *Buffer) (bool, bool) {
	b, ok := RByte(buf)
	return b != 0, ok
}

// Float32 writes an IEEE-754 single-precision float via a bit-transmute.
func Float32(v float32, buf *Buffer) { FUInt32(math.Float32bits(v), buf) }

// RFloat32 reads a float32 written by Float32.
func RFloat32(buf *Buffer) (float32, bool) {
	u, ok := RUInt32(buf)
	return math.Float32frombits(u), ok
}

// Float64 writes an IEEE-754 double-precision float via a bit-transmute.
func Float64(v float64, buf *Buffer) { FUInt64(math.Float64bits(v), buf) }

// RFloat64 reads a float64 written by Float64.
func RFloat64(buf *Buffer) (float64, bool) {
	u, ok := RUInt64(buf)
	return math.Float64frombits(u), ok
}

// VInt64 writes n using LEB128 varint encoding, which uses fewer bytes for
// small magnitude values — the common case for field counts and lengths.
func VInt64(n int64, buf *Buffer) {
	buf.Data = binary.AppendVarint(buf.Data, n)
}

// RVInt64 reads a varint written by VInt64.
func RVInt64(buf *Buffer) (int64, bool) {
	n, err := binary.ReadVarint(buf)
	return n, err == nil
}

// VUInt64 writes n using unsigned LEB128 varint encoding.
func VUInt64(n uint64, buf *Buffer) {
	buf.Data = binary.AppendUvarint(buf.Data, n)
}

// RVUInt64 reads an unsigned varint written by VUInt64.
func RVUInt64(buf *Buffer) (uint64, bool) {
	n, err := binary.ReadUvarint(buf)
	return n, err == nil
}

// VInt writes an int as a varint-encoded int64.
func VInt(n int, buf *Buffer) { VInt64(int64(n), buf) }

// RVInt reads an int written by VInt.
func RVInt(buf *Buffer) (int, bool) {
	n, ok := RVInt64(buf)
	return int(n), ok
}

// Rune writes a rune as a varint-encoded int64.
func Rune(r rune, buf *Buffer) { VInt64(int64(r), buf) }

// RRune reads a rune written by Rune.
func RRune(buf *Buffer) (rune, bool) {
	n, ok := RVInt64(buf)
	return rune(n), ok
}
