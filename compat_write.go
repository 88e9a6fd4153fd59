package classync

import (
	"reflect"

	"go.arlen.dev/classync/wire"
)

// writeObjectRef writes the reference header for v (§4.3.1 "Reference
// semantics") and, if this is the first time v has been seen, its body.
// v is a pointer (possibly nil), an interface holding one, or a struct value
// (a final object field).
func (s *Session) writeObjectRef(buf *wire.Buffer, refs *RefResolver, v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			wire.Byte(refTagNull, buf)
			return nil
		}
		v = v.Elem()
	}
	must := refs.WriteRef(buf, v)
	if !must {
		return nil
	}
	target := v
	if target.Kind() == reflect.Ptr {
		target = target.Elem()
	}
	return s.writeObjectBody(buf, refs, target)
}

// writeObjectBody writes one object's class header and field data,
// choosing slot mode or structural mode per the §4.3.3 eligibility gate.
func (s *Session) writeObjectBody(buf *wire.Buffer, refs *RefResolver, v reflect.Value) error {
	t := v.Type()
	slots, slotMode, err := EligibleForSlotMode(t)
	if err != nil {
		return err
	}
	if slotMode {
		return s.writeSlots(buf, refs, v, slots)
	}
	return s.writeStructural(buf, refs, v, t)
}

// writeStructural is the default compatibility path (§4.3.1 write path):
// the writer uses its own ClassDef and grouped field order, dispatching
// each field to the appropriate sub-serializer.
func (s *Session) writeStructural(buf *wire.Buffer, refs *RefResolver, v reflect.Value, t reflect.Type) error {
	lay, err := s.engine.Classes.WriteClass(buf, s.writeMeta, t, s.engine.Config.GroupingOptions())
	if err != nil {
		return err
	}
	for _, d := range lay.grouper.Ordered() {
		fv := d.Field.Get(v)
		if err := s.writeFieldValue(buf, refs, d.DeclaredType, fv); err != nil {
			return err
		}
	}
	return nil
}

// writeFieldValue dispatches a single field value to its sub-serializer,
// per §4.3.1's write path: primitive write, string write, or nested object
// write (which engages the reference resolver and, recursively, the class
// header machinery).
func (s *Session) writeFieldValue(buf *wire.Buffer, refs *RefResolver, tref TypeRef, fv reflect.Value) error {
	cfg := s.engine.Config
	if fv.Kind() == reflect.Ptr && tref.Kind != KindObject && tref.Kind != KindOpaque {
		if fv.IsNil() {
			wire.Bool(false, buf)
			return nil
		}
		wire.Bool(true, buf)
		fv = fv.Elem()
	}
	switch fv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		fv = reflect.ValueOf(int64(fv.Uint())) // unsigned fields share the signed TypeRefs (typeRefFor)
	}
	switch tref.Kind {
	case KindBool:
		wire.Bool(fv.Bool(), buf)
	case KindInt8:
		wire.Byte(byte(fv.Int()), buf)
	case KindInt16:
		if cfg.CompressInts {
			wire.VInt64(fv.Int(), buf)
		} else {
			wire.FUInt16(uint16(fv.Int()), buf)
		}
	case KindInt32:
		if cfg.CompressInts {
			wire.VInt64(fv.Int(), buf)
		} else {
			wire.FUInt32(uint32(fv.Int()), buf)
		}
	case KindInt64:
		if cfg.CompressLongs {
			wire.VInt64(fv.Int(), buf)
		} else {
			wire.FUInt64(uint64(fv.Int()), buf)
		}
	case KindFloat32:
		wire.Float32(float32(fv.Float()), buf)
	case KindFloat64:
		wire.Float64(fv.Float(), buf)
	case KindChar:
		wire.Rune(rune(fv.Int()), buf)
	case KindString:
		wire.String(fv.String(), buf)
	case KindObject:
		if tref.ClassName == "time.Time" {
			return writeTimeValue(fv, buf)
		}
		return s.writeObjectRef(buf, refs, fv)
	case KindOpaque:
		return s.writeOpaque(buf, refs, fv)
	case KindArray:
		return s.writeArray(buf, refs, *tref.Elem, fv)
	}
	return nil
}

// writeArray writes a slice/array field: a varint length followed by each
// element serialized per elemRef.
func (s *Session) writeArray(buf *wire.Buffer, refs *RefResolver, elemRef TypeRef, fv reflect.Value) error {
	if fv.Kind() == reflect.Slice && fv.IsNil() {
		wire.VInt(0, buf)
		return nil
	}
	n := fv.Len()
	wire.VInt(n, buf)
	for i := 0; i < n; i++ {
		if err := s.writeFieldValue(buf, refs, elemRef, fv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// writeOpaque handles a field whose generic parameters could not be
// recovered (§4.3, "opaque"): at runtime it dispatches on the concrete
// value found inside the interface, which is always some object.
func (s *Session) writeOpaque(buf *wire.Buffer, refs *RefResolver, fv reflect.Value) error {
	if fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			wire.Byte(refTagNull, buf)
			return nil
		}
		fv = fv.Elem()
	}
	if fv.Kind() != reflect.Ptr {
		ptr := reflect.New(fv.Type())
		ptr.Elem().Set(fv)
		fv = ptr
	}
	return s.writeObjectRef(buf, refs, fv)
}
