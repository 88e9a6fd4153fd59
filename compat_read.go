package classync

import (
	"reflect"

	"go.arlen.dev/classync/wire"
)

// readObjectRef is the read-side counterpart of writeObjectRef: it reads the
// reference header and returns a pointer value to the (possibly just-read,
// possibly already-known) instance. t is the local concrete type expected
// for this field (never an interface type — opaque fields resolve their own
// concrete type via the registry before calling this).
func (s *Session) readObjectRef(buf *wire.Buffer, refs *RefResolver, t reflect.Type, validators *[]pendingValidator) (reflect.Value, error) {
	isNull, existing, id, err := refs.ReadRefHeader(buf)
	if err != nil {
		return reflect.Value{}, err
	}
	if isNull {
		return reflect.Zero(reflect.PtrTo(t)), nil
	}
	if existing {
		v, ok := refs.ResolveExisting(id)
		if !ok {
			return reflect.Value{}, errf(KindProtocolViolation, "reference id %d has no prior instance", id)
		}
		return v, nil
	}
	instance := reflect.New(t)
	refs.Register(instance)
	if err := s.readObjectBody(buf, refs, instance.Elem(), validators); err != nil {
		return reflect.Value{}, err
	}
	return instance, nil
}

// readObjectBody reads one object's class header, then its body, dispatching
// to slot mode or structural mode exactly as writeObjectBody chose on write
// (the choice is a deterministic property of the local type, so both peers
// agree without it needing to ride the wire).
func (s *Session) readObjectBody(buf *wire.Buffer, refs *RefResolver, v reflect.Value, validators *[]pendingValidator) error {
	t := v.Type()
	slots, slotMode, err := EligibleForSlotMode(t)
	if err != nil {
		return err
	}
	if slotMode {
		return s.readSlots(buf, refs, v, slots, validators)
	}
	return s.readStructural(buf, refs, v, t, validators)
}

// readStructural is the default compatibility path's read side (§4.3.1):
// read the peer's ClassDef, consolidate it against the local descriptor set,
// assign present+compatible fields, skip fields the local type dropped, and
// leave fields the local type added at their zero value.
func (s *Session) readStructural(buf *wire.Buffer, refs *RefResolver, v reflect.Value, t reflect.Type, validators *[]pendingValidator) error {
	peerDef, err := s.engine.Classes.ReadClassInternal(buf, s.readMeta)
	if err != nil {
		return err
	}
	local, _, err := ReflectDescriptors(t)
	if err != nil {
		return err
	}
	consolidated := Consolidate(peerDef, local)
	if s.engine.Config.CompatibleMode == Strict {
		for _, c := range consolidated {
			if c.Local == nil {
				return errf(KindSchemaMismatch, "peer field %q has no local counterpart in strict mode", c.PeerField.Name)
			}
		}
		if len(MissingLocalFields(consolidated, local)) > 0 {
			return errf(KindSchemaMismatch, "local field missing from peer %s in strict mode", peerDef.ClassName())
		}
	}
	for _, c := range consolidated {
		val, err := s.readFieldValue(buf, refs, c.PeerField.Type, validators)
		if err != nil {
			return err
		}
		if c.Local == nil {
			continue // case (b): peer-only field, discarded
		}
		fv := c.Local.Field.Get(v)
		assignInto(fv, val)
	}
	return nil
}

// readFieldValue is the read-side counterpart of writeFieldValue: it reads
// one wire value per tref's shape and returns it boxed as any, using the
// canonical representation assignInto later widens into a concrete local
// field. validators threads RegisterValidation callbacks through nested
// slot-mode objects up to the top-level Deserialize caller.
func (s *Session) readFieldValue(buf *wire.Buffer, refs *RefResolver, tref TypeRef, validators *[]pendingValidator) (any, error) {
	cfg := s.engine.Config
	switch tref.Kind {
	case KindBool:
		v, ok := wire.RBool(buf)
		return v, okErrFrom(ok)
	case KindInt8:
		v, ok := wire.RByte(buf)
		return int8(v), okErrFrom(ok)
	case KindInt16:
		if cfg.CompressInts {
			v, ok := wire.RVInt64(buf)
			return int16(v), okErrFrom(ok)
		}
		v, ok := wire.RUInt16(buf)
		return int16(v), okErrFrom(ok)
	case KindInt32:
		if cfg.CompressInts {
			v, ok := wire.RVInt64(buf)
			return int32(v), okErrFrom(ok)
		}
		v, ok := wire.RUInt32(buf)
		return int32(v), okErrFrom(ok)
	case KindInt64:
		if cfg.CompressLongs {
			v, ok := wire.RVInt64(buf)
			return v, okErrFrom(ok)
		}
		v, ok := wire.RUInt64(buf)
		return int64(v), okErrFrom(ok)
	case KindFloat32:
		v, ok := wire.RFloat32(buf)
		return v, okErrFrom(ok)
	case KindFloat64:
		v, ok := wire.RFloat64(buf)
		return v, okErrFrom(ok)
	case KindChar:
		v, ok := wire.RRune(buf)
		return v, okErrFrom(ok)
	case KindString:
		v, ok := wire.RString(buf)
		return v, okErrFrom(ok)
	case KindObject:
		return s.readObjectField(buf, refs, tref, validators)
	case KindOpaque:
		return s.readOpaqueField(buf, refs, validators)
	case KindArray:
		return s.readArrayField(buf, refs, *tref.Elem, validators)
	}
	return nil, errf(KindProtocolViolation, "unreadable type kind %d", tref.Kind)
}

// readObjectField resolves tref's declared class name to a local type via
// the TypeRegistry (time.Time is special-cased as a built-in value object,
// §6 supplement) and reads one reference through readObjectRef.
func (s *Session) readObjectField(buf *wire.Buffer, refs *RefResolver, tref TypeRef, validators *[]pendingValidator) (any, error) {
	if tref.ClassName == "time.Time" {
		return readTimeValue(buf)
	}
	t, ok := s.engine.Types.Lookup(tref.ClassName)
	if !ok {
		return nil, errf(KindSchemaMismatch, "no local type registered for class %q", tref.ClassName)
	}
	ptr, err := s.readObjectRef(buf, refs, t, validators)
	if err != nil {
		return nil, err
	}
	if ptr.IsNil() {
		return nil, nil
	}
	return ptr.Interface(), nil
}

// readOpaqueField reads a ref header directly to check for null before
// consulting the registry, since an opaque field's wire form carries its own
// class handle identifying the concrete runtime type (§4.3 "opaque").
func (s *Session) readOpaqueField(buf *wire.Buffer, refs *RefResolver, validators *[]pendingValidator) (any, error) {
	isNull, existing, id, err := refs.ReadRefHeader(buf)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}
	if existing {
		v, ok := refs.ResolveExisting(id)
		if !ok {
			return nil, errf(KindProtocolViolation, "reference id %d has no prior instance", id)
		}
		return v.Interface(), nil
	}
	peerDef, err := s.engine.Classes.ReadClassInternal(buf, s.readMeta)
	if err != nil {
		return nil, err
	}
	t, ok := s.engine.Types.Lookup(peerDef.ClassName())
	if !ok {
		return nil, errf(KindSchemaMismatch, "no local type registered for opaque class %q", peerDef.ClassName())
	}
	instance := reflect.New(t)
	refs.Register(instance)
	if err := s.readObjectBody(buf, refs, instance.Elem(), validators); err != nil {
		return nil, err
	}
	return instance.Interface(), nil
}

// readArrayField reads a varint length followed by that many elements.
func (s *Session) readArrayField(buf *wire.Buffer, refs *RefResolver, elemRef TypeRef, validators *[]pendingValidator) (any, error) {
	n, ok := wire.RVInt(buf)
	if !ok {
		return nil, errf(KindEOF, "short read on array length")
	}
	goType := goSliceElemType(elemRef)
	out := reflect.MakeSlice(reflect.SliceOf(goType), n, n)
	for i := 0; i < n; i++ {
		val, err := s.readFieldValue(buf, refs, elemRef, validators)
		if err != nil {
			return nil, err
		}
		assignInto(out.Index(i), val)
	}
	return out.Interface(), nil
}

// goSliceElemType returns a reasonable concrete Go type to back a
// reflect.MakeSlice for elemRef. readArrayField always uses it, since the
// local field's own element type is not passed down; assignInto then copies
// the elements into the local slice or array type.
func goSliceElemType(t TypeRef) reflect.Type {
	switch t.Kind {
	case KindBool:
		return reflect.TypeOf(false)
	case KindInt8:
		return reflect.TypeOf(int8(0))
	case KindInt16:
		return reflect.TypeOf(int16(0))
	case KindInt32:
		return reflect.TypeOf(int32(0))
	case KindInt64:
		return reflect.TypeOf(int64(0))
	case KindFloat32:
		return reflect.TypeOf(float32(0))
	case KindFloat64:
		return reflect.TypeOf(float64(0))
	case KindChar:
		return reflect.TypeOf(rune(0))
	case KindString:
		return reflect.TypeOf("")
	default:
		return reflect.TypeOf((*any)(nil)).Elem()
	}
}

func okErrFrom(ok bool) error {
	if ok {
		return nil
	}
	return errf(KindEOF, "short read")
}

// readWireValue is the entry point SlotStream.ReadFields uses to read a
// put-field-ordered value; it is the same operation as readFieldValue.
func (s *Session) readWireValue(buf *wire.Buffer, refs *RefResolver, tref TypeRef, validators *[]pendingValidator) (any, error) {
	return s.readFieldValue(buf, refs, tref, validators)
}
