package classync

import (
	"reflect"

	"go.arlen.dev/classync/wire"
)

// §1 lists the reference-tracking resolver as an external collaborator —
// only its interface is specified there. This is a minimal, correct
// implementation so the engine is runnable and testable on its own; a host
// application is free to supply a different RefResolver (e.g. one shared
// across an entire object graph spanning multiple top-level calls).

const (
	refTagNull     byte = 0
	refTagNew      byte = 1
	refTagExisting byte = 2
)

// RefResolver assigns an integer ID to each object seen during a single
// serialization and resolves those IDs back to instances during reads,
// which is what makes cyclic object graphs and shared sub-objects
// round-trip correctly (§3 reference-identity invariant).
type RefResolver struct {
	writeSeen map[any]int32 // identity key -> id, write side
	readSeen  []reflect.Value
}

// NewRefResolver returns a resolver scoped to a single serialization call.
// Concurrent serializations must use distinct resolvers (§5).
func NewRefResolver() *RefResolver {
	return &RefResolver{writeSeen: make(map[any]int32)}
}

// identity keys an object by its address together with its type, so a
// struct and its first field, which share an address, stay distinct.
type identity struct {
	addr uintptr
	typ  reflect.Type
}

// identityKey returns a comparable key for v's identity: the address and
// pointee type for a pointer or an addressable value, the pointer value for
// the other reference kinds, or a fresh key that matches nothing else when v
// is neither (so two equal-but-distinct instances are never considered the
// same reference, matching Go value semantics).
func identityKey(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return identity{addr: v.Pointer(), typ: v.Type().Elem()}
	case reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if v.IsNil() {
			return nil
		}
		return v.Pointer()
	default:
		if v.CanAddr() {
			return identity{addr: v.Addr().Pointer(), typ: v.Type()}
		}
		return new(byte)
	}
}

// WriteRef emits the reference tag/id for v and reports whether the caller
// still needs to serialize v's body (false means v was already seen and
// only the back-reference was written).
func (r *RefResolver) WriteRef(buf *wire.Buffer, v reflect.Value) (mustWriteBody bool) {
	if v.Kind() == reflect.Ptr && v.IsNil() {
		wire.Byte(refTagNull, buf)
		return false
	}
	key := identityKey(v)
	if id, seen := r.writeSeen[key]; seen {
		wire.Byte(refTagExisting, buf)
		wire.VInt(int(id), buf)
		return false
	}
	id := int32(len(r.writeSeen))
	r.writeSeen[key] = id
	wire.Byte(refTagNew, buf)
	return true
}

// ReadRefHeader reads the tag WriteRef wrote. If isNull, the caller is done.
// If !isNull && !existing, the caller must allocate the instance and call
// Register with it *before* deserializing the object body, so
// back-references from its fields resolve correctly. If
// existing, id indexes into the resolver's read-side instance table.
func (r *RefResolver) ReadRefHeader(buf *wire.Buffer) (isNull, existing bool, id int, err error) {
	tag, ok := wire.RByte(buf)
	if !ok {
		return false, false, 0, errf(KindEOF, "short read on reference tag")
	}
	switch tag {
	case refTagNull:
		return true, false, 0, nil
	case refTagNew:
		return false, false, 0, nil
	case refTagExisting:
		n, ok := wire.RVInt(buf)
		if !ok {
			return false, false, 0, errf(KindEOF, "short read on reference id")
		}
		return false, true, n, nil
	default:
		return false, false, 0, errf(KindProtocolViolation, "bad reference tag %d", tag)
	}
}

// Register records a freshly materialized instance and returns its id. The
// engine must call this before deserializing the instance's fields so that
// any field that refers back to it (a cycle) resolves to the same value.
func (r *RefResolver) Register(v reflect.Value) int {
	id := len(r.readSeen)
	r.readSeen = append(r.readSeen, v)
	return id
}

// ResolveExisting returns the instance previously registered under id.
func (r *RefResolver) ResolveExisting(id int) (reflect.Value, bool) {
	if id < 0 || id >= len(r.readSeen) {
		return reflect.Value{}, false
	}
	return r.readSeen[id], true
}

// Reset discards all tracked state, making the resolver reusable for a new
// serialization call and leaving any partially-registered read-side
// instances unreachable — the caller's recovery path on error (§7).
func (r *RefResolver) Reset() {
	r.writeSeen = make(map[any]int32)
	r.readSeen = nil
}
