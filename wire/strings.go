package wire

// String writes s as a varint length prefix followed by its UTF-8 bytes.
func String(s string, buf *Buffer) {
	VInt(len(s), buf)
	buf.WriteBytes([]byte(s)...)
}

// RString reads a string written by String.
func RString(buf *Buffer) (string, bool) {
	n, ok := RVInt(buf)
	if !ok || n < 0 {
		return "", false
	}
	data, ok := buf.ReadCopy(n)
	if !ok {
		return "", false
	}
	return string(data), true
}

// ByteSlice writes a varint length prefix followed by the raw bytes.
func ByteSlice(s []byte, buf *Buffer) {
	VInt(len(s), buf)
	buf.WriteBytes(s...)
}

// RByteSlice reads a byte slice written by ByteSlice. The returned slice is
// always a fresh copy, safe for the caller to retain.
func RByteSlice(buf *Buffer) ([]byte, bool) {
	n, ok := RVInt(buf)
	if !ok || n < 0 {
		return nil, false
	}
	return buf.ReadCopy(n)
}
