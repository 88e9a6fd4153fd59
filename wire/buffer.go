// Package wire implements the primitive little-endian buffer that the
// schema-evolution serialization core reads and writes through. It has no
// knowledge of classes, fields, or schema evolution — it only knows how to
// move scalars, varints, and length-prefixed blocks in and out of a byte
// slice.
package wire

import "io"

// Buffer is a byte buffer used to serialize data into, or deserialize data
// from, depending on which side of it is being driven. A single Buffer is
// either being written to or read from for its entire lifetime.
type Buffer struct {
	Data []byte
	pos  int // reading position; unused while writing
}

// NewReader prepares a Buffer for reading data out of an existing byte
// slice. The caller retains ownership of data; the Buffer never mutates it.
func NewReader(data []byte) *Buffer {
	return &Buffer{Data: data}
}

// NewWriter prepares a Buffer for writing. The backing slice grows as
// needed; once writing is done the caller may take ownership of Data.
func NewWriter() *Buffer {
	return &Buffer{Data: make([]byte, 0, 64)}
}

// ReaderIndex returns the current read position.
func (b *Buffer) ReaderIndex() int { return b.pos }

// Advance moves the read position forward by n bytes without interpreting
// them. It is a protocol violation for the caller to advance past the end
// of the buffer; callers that need bounds safety should check Remaining
// first.
func (b *Buffer) Advance(n int) { b.pos += n }

// Remaining returns the number of unread bytes left in the buffer.
func (b *Buffer) Remaining() int { return len(b.Data) - b.pos }

// Done reports whether every byte has been consumed.
func (b *Buffer) Done() bool { return b.pos >= len(b.Data) }

// EnsureSpace grows Data so that n more bytes can be appended without
// reallocating on every single-byte write.
func (b *Buffer) EnsureSpace(n int) {
	desired := len(b.Data) + n
	if cap(b.Data) < desired {
		grown := make([]byte, len(b.Data), desired)
		copy(grown, b.Data)
		b.Data = grown
	}
}

// WriteBytes appends raw bytes to the buffer verbatim.
func (b *Buffer) WriteBytes(p ...byte) {
	b.Data = append(b.Data, p...)
}

// ReadByte implements io.ByteReader, which the standard library's varint
// helpers (encoding/binary) require.
func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= len(b.Data) {
		return 0, io.EOF
	}
	v := b.Data[b.pos]
	b.pos++
	return v, nil
}

// ReadBytes returns the next n bytes as a slice into the underlying array —
// callers that need to retain the data past the next write must copy it
// themselves (see ReadCopy). ok is false if fewer than n bytes remain.
func (b *Buffer) ReadBytes(n int) (data []byte, ok bool) {
	if b.pos+n > len(b.Data) {
		return nil, false
	}
	start := b.pos
	b.pos += n
	return b.Data[start:b.pos], true
}

// ReadCopy is like ReadBytes but returns an owned copy, safe to retain.
func (b *Buffer) ReadCopy(n int) (data []byte, ok bool) {
	src, ok := b.ReadBytes(n)
	if !ok {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, src)
	return out, true
}
