package classync

import (
	"github.com/zeebo/xxh3"

	"go.arlen.dev/classync/wire"
)

// FieldRecord is one field entry inside a ClassDef: a name, its TypeRef, and
// whether it is nullable. Unlike a Descriptor it carries no local field
// accessor — a ClassDef is purely the portable structural fingerprint that
// crosses the wire.
type FieldRecord struct {
	Name     string
	Type     TypeRef
	Nullable bool
}

// ClassDef is the portable structural fingerprint of a type: its class name,
// an ordered list of field records, and a stable 64-bit ID derived from the
// canonical encoding of the two. ClassDefs are immutable once built by
// NewClassDef or DecodeClassDef.
type ClassDef struct {
	id        uint64
	className string
	fields    []FieldRecord
}

// ID returns the ClassDef's stable 64-bit identity. Two ClassDefs with
// identical canonical bytes always produce the same ID (§3 invariant).
func (c *ClassDef) ID() uint64 { return c.id }

// ClassName returns the fully-qualified class name this ClassDef describes.
func (c *ClassDef) ClassName() string { return c.className }

// Fields returns the ordered field records. The slice must not be mutated
// by the caller.
func (c *ClassDef) Fields() []FieldRecord { return c.fields }

// NewClassDef builds a ClassDef from a class name and an ordered field list,
// computing its ID from the canonical byte encoding.
func NewClassDef(className string, fields []FieldRecord) *ClassDef {
	cd := &ClassDef{className: className, fields: fields}
	cd.id = xxh3.Hash(cd.canonicalBytes())
	return cd
}

// canonicalBytes produces the exact byte sequence the ID is hashed from:
// UTF-8 class name length-prefixed, then for each field: name, type tag(s),
// nullable flag. It holds the same items as the wire encoding (§4.2), but
// the wire form puts each field's nullable flag before its TypeRef —
// identical ClassDefs must hash identically regardless of how they were
// constructed.
func (c *ClassDef) canonicalBytes() []byte {
	buf := wire.NewWriter()
	wire.String(c.className, buf)
	wire.VInt(len(c.fields), buf)
	for _, f := range c.fields {
		wire.String(f.Name, buf)
		encodeTypeRef(f.Type, buf)
		wire.Bool(f.Nullable, buf)
	}
	return buf.Data
}

// EncodeTo writes the ClassDef's wire form (§4.2): length-prefixed class
// name; varint field count; per field: name, nullable flag, tagged TypeRef.
// The ID itself is never written — it is always derived by the reader.
func (c *ClassDef) EncodeTo(buf *wire.Buffer) {
	wire.String(c.className, buf)
	wire.VInt(len(c.fields), buf)
	for _, f := range c.fields {
		wire.String(f.Name, buf)
		wire.Bool(f.Nullable, buf)
		encodeTypeRef(f.Type, buf)
	}
}

// DecodeClassDef reads a ClassDef written by EncodeTo and recomputes its ID.
func DecodeClassDef(buf *wire.Buffer) (*ClassDef, error) {
	name, ok := wire.RString(buf)
	if !ok {
		return nil, errf(KindProtocolViolation, "truncated class def: class name")
	}
	n, ok := wire.RVInt(buf)
	if !ok || n < 0 {
		return nil, errf(KindProtocolViolation, "truncated class def: field count")
	}
	fields := make([]FieldRecord, n)
	for i := 0; i < n; i++ {
		fname, ok := wire.RString(buf)
		if !ok {
			return nil, errf(KindProtocolViolation, "truncated class def: field %d name", i)
		}
		nullable, ok := wire.RBool(buf)
		if !ok {
			return nil, errf(KindProtocolViolation, "truncated class def: field %d nullable flag", i)
		}
		tref, err := decodeTypeRef(buf)
		if err != nil {
			return nil, err
		}
		fields[i] = FieldRecord{Name: fname, Type: tref, Nullable: nullable}
	}
	return NewClassDef(name, fields), nil
}

// Wire tags for TypeRef's 1-byte tag + tag-specific payload (§4.2).
const (
	tagBool byte = iota
	tagInt8
	tagInt16
	tagInt32
	tagInt64
	tagFloat32
	tagFloat64
	tagChar
	tagString
	tagObject
	tagArray
	tagOpaque
)

func encodeTypeRef(t TypeRef, buf *wire.Buffer) {
	switch t.Kind {
	case KindBool:
		wire.Byte(tagBool, buf)
	case KindInt8:
		wire.Byte(tagInt8, buf)
	case KindInt16:
		wire.Byte(tagInt16, buf)
	case KindInt32:
		wire.Byte(tagInt32, buf)
	case KindInt64:
		wire.Byte(tagInt64, buf)
	case KindFloat32:
		wire.Byte(tagFloat32, buf)
	case KindFloat64:
		wire.Byte(tagFloat64, buf)
	case KindChar:
		wire.Byte(tagChar, buf)
	case KindString:
		wire.Byte(tagString, buf)
	case KindObject:
		wire.Byte(tagObject, buf)
		wire.String(t.ClassName, buf)
	case KindArray:
		wire.Byte(tagArray, buf)
		encodeTypeRef(*t.Elem, buf)
	case KindOpaque:
		wire.Byte(tagOpaque, buf)
	default:
		wire.Byte(tagOpaque, buf)
	}
}

func decodeTypeRef(buf *wire.Buffer) (TypeRef, error) {
	tag, ok := wire.RByte(buf)
	if !ok {
		return TypeRef{}, errf(KindProtocolViolation, "truncated type ref tag")
	}
	switch tag {
	case tagBool:
		return TypeRef{Kind: KindBool}, nil
	case tagInt8:
		return TypeRef{Kind: KindInt8}, nil
	case tagInt16:
		return TypeRef{Kind: KindInt16}, nil
	case tagInt32:
		return TypeRef{Kind: KindInt32}, nil
	case tagInt64:
		return TypeRef{Kind: KindInt64}, nil
	case tagFloat32:
		return TypeRef{Kind: KindFloat32}, nil
	case tagFloat64:
		return TypeRef{Kind: KindFloat64}, nil
	case tagChar:
		return TypeRef{Kind: KindChar}, nil
	case tagString:
		return TypeRef{Kind: KindString}, nil
	case tagObject:
		name, ok := wire.RString(buf)
		if !ok {
			return TypeRef{}, errf(KindProtocolViolation, "truncated object type ref: class name")
		}
		return TypeRef{Kind: KindObject, ClassName: name}, nil
	case tagArray:
		elem, err := decodeTypeRef(buf)
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: KindArray, Elem: &elem}, nil
	case tagOpaque:
		return TypeRef{Kind: KindOpaque}, nil
	default:
		return TypeRef{}, errf(KindProtocolViolation, "bad type ref tag %d", tag)
	}
}
