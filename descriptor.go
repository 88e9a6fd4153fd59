package classync

import "reflect"

// TypeKind tags the variant held by a TypeRef.
type TypeKind byte

const (
	KindBool TypeKind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindChar // rune
	KindString
	KindObject
	KindArray
	KindOpaque
)

// TypeRef is a tagged variant describing the declared type of a field. It is
// the wire-portable description of a Go type: enough to reconstruct a
// zero value and to check assignability against a peer's declared type,
// without carrying the reflect.Type itself (which cannot cross a process
// boundary).
type TypeRef struct {
	Kind TypeKind

	// ClassName is set when Kind == KindObject: the nominal name of the
	// referenced class (see ClassRef.Name).
	ClassName string

	// Generic is a slot for the resolved TypeRef of a single generic
	// parameter. typeRefFor never sets it, and it is not part of a
	// ClassDef's wire or canonical encoding, so it is nil in every
	// TypeRef this package builds.
	Generic *TypeRef

	// Elem is set when Kind == KindArray: the TypeRef of the array's
	// element type.
	Elem *TypeRef
}

// IsPrimitive reports whether the TypeRef denotes one of the fixed-size
// scalar kinds (bool..char), i.e. not string/object/array/opaque.
func (t TypeRef) IsPrimitive() bool {
	return t.Kind <= KindChar
}

// Size returns the byte width the Grouper uses to bucket a primitive TypeRef
// by descending size: the in-memory width of the kind, except that KindChar
// (a 4-byte rune) is counted as 8. Non-primitive kinds return 0.
func (t TypeRef) Size() int {
	switch t.Kind {
	case KindBool, KindInt8:
		return 1
	case KindInt16:
		return 2
	case KindInt32, KindFloat32:
		return 4
	case KindInt64, KindFloat64, KindChar:
		return 8
	default:
		return 0
	}
}

// ClassRef names the owning class of a Descriptor. Two ClassRefs refer to
// the same class iff Name is equal; Type is retained locally to drive
// reflection but is never transmitted (see ClassDef, which carries only
// Name on the wire).
type ClassRef struct {
	Name string
	Type reflect.Type // nil for a peer-only ClassRef reconstructed from a wire ClassDef
}

// FieldHandle is how the engine reads and writes a local struct field once
// an instance is available. It is nil on a Descriptor that exists only on
// the peer side (case (b) of consolidation, §4.3.1).
type FieldHandle struct {
	Index []int // reflect.Value.FieldByIndex path, supports embedded ancestors
}

// Get reads the field named by h out of v (v must be the addressable struct
// value, or a pointer to it).
func (h *FieldHandle) Get(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v.FieldByIndex(h.Index)
}

// Descriptor is a single field description: name, declared type, owning
// class, nullability, and (locally) the accessor used to read/write it.
type Descriptor struct {
	Name         string
	DeclaredType TypeRef
	OwningClass  ClassRef
	Nullable     bool
	Field        *FieldHandle // nil when the field is peer-only
}

// HasAccessor reports whether this Descriptor has a local field to read or
// write into — false for a descriptor synthesized purely from a peer
// ClassDef with no matching local field (§4.3.1 consolidation, case (b)).
func (d *Descriptor) HasAccessor() bool { return d.Field != nil }
