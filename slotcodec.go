package classync

import (
	"reflect"

	"go.arlen.dev/classync/wire"
)

// writeSlots writes the short slot count followed by each ancestor slot in
// superclass-first order: per slot, a class handle for that ancestor level
// (so the reader can align its own chain) and then the slot's payload —
// either a custom write hook's output or the slot's direct field encoding
// (§4.3.2 "Write: For each slot in superclass-first order").
func (s *Session) writeSlots(buf *wire.Buffer, refs *RefResolver, v reflect.Value, slots []*Slot) error {
	wire.FUInt16(uint16(len(slots)), buf)
	for _, slot := range slots {
		ref := &ClassRef{Name: slot.ClassName, Type: slot.Type}
		if s.writeMeta.WriteClassHandle(buf, ref, slot.Def) {
			slot.Def.EncodeTo(buf)
		}
		target := v.FieldByIndex(slot.IndexPrefix)
		if slot.HasWriteHook {
			w := target.Addr().Interface().(SelfWriter)
			ss := &SlotStream{session: s, slot: slot, buf: buf, refs: refs, target: target, mode: streamWriting}
			err := w.WriteSelf(ss)
			if ss.put != nil {
				ss.put.reset()
				slot.putPool.push(ss.put)
			}
			if err != nil {
				return err
			}
			if !ss.defaultCalled {
				return errf(KindInvalidObject, "%s.WriteSelf returned without calling DefaultWrite or WriteFields", slot.ClassName)
			}
			continue
		}
		if err := s.writeSlotFieldsDirect(buf, refs, slot, target); err != nil {
			return err
		}
	}
	return nil
}

// writeSlotFieldsDirect is the slot-level structural writer: slot.Descriptors
// in the slot's own grouped order, no extra class handle (the caller already
// wrote one for this ancestor level). Used both as the default path when a
// slot has no write hook and as DefaultWrite's implementation.
func (s *Session) writeSlotFieldsDirect(buf *wire.Buffer, refs *RefResolver, slot *Slot, target reflect.Value) error {
	for _, d := range slot.Grouper.Ordered() {
		fv := d.Field.Get(target)
		if err := s.writeFieldValue(buf, refs, d.DeclaredType, fv); err != nil {
			return err
		}
	}
	return nil
}

// readSlots reads the slot count and walks the wire's ancestor levels
// against the local type's own slot chain, superclass-first, invoking each
// slot's read hook or the default field reader, and firing ReadNoData for
// every local slot past the last wire slot (§4.3.2 "Read", §4.3.2
// read_no_data, §9 hierarchy-migration open question). Wire slot i is paired
// with local slot i; a local ancestor missing from the middle of the peer's
// chain is not skipped and gets no ReadNoData call. The class names then
// differ, which is a schema-mismatch unless AllowHierarchyMigration is set,
// in which case the wire slot is read against local slot i's fields.
func (s *Session) readSlots(buf *wire.Buffer, refs *RefResolver, target reflect.Value, slots []*Slot, validators *[]pendingValidator) error {
	wireCount, ok := wire.RUInt16(buf)
	if !ok {
		return errf(KindEOF, "short read on slot count")
	}
	n := int(wireCount)
	for i := 0; i < n; i++ {
		peerDef, err := s.engine.Classes.ReadClassInternal(buf, s.readMeta)
		if err != nil {
			return err
		}
		if i >= len(slots) {
			if !s.engine.Config.AllowHierarchyMigration {
				return errf(KindSchemaMismatch, "wire slot %d (%s) has no matching local ancestor", i, peerDef.ClassName())
			}
			if err := s.skipSlotBody(buf, refs, peerDef); err != nil {
				return err
			}
			continue
		}
		slot := slots[i]
		if slot.ClassName != peerDef.ClassName() && !s.engine.Config.AllowHierarchyMigration {
			return errf(KindSchemaMismatch, "wire slot %d is %s, local ancestor is %s", i, peerDef.ClassName(), slot.ClassName)
		}
		target2 := target.FieldByIndex(slot.IndexPrefix)
		if slot.HasReadHook {
			r := target2.Addr().Interface().(SelfReader)
			ss := &SlotStream{session: s, slot: slot, buf: buf, refs: refs, target: target2, mode: streamReading, peerDef: peerDef, validators: validators}
			err := r.ReadSelf(ss)
			if ss.get != nil {
				ss.get.reset()
				slot.getPool.push(ss.get)
			}
			if err != nil {
				return err
			}
			if !ss.defaultCalled {
				return errf(KindInvalidObject, "%s.ReadSelf returned without calling DefaultRead or ReadFields", slot.ClassName)
			}
			continue
		}
		if err := s.readSlotFieldsDirect(buf, refs, slot, target2, peerDef, validators); err != nil {
			return err
		}
	}
	for i := n; i < len(slots); i++ {
		slot := slots[i]
		if slot.HasNoData {
			target2 := target.FieldByIndex(slot.IndexPrefix)
			r := target2.Addr().Interface().(NoDataReader)
			if err := r.ReadNoData(); err != nil {
				return err
			}
		}
	}
	return nil
}

// readSlotFieldsDirect is the slot-level structural reader: it consolidates
// peerDef's own field list against this slot's local descriptors (§4.3.1),
// the same widening/skip rule readStructural applies at the top level, so a
// field added or dropped inside one ancestor's own declared set degrades
// gracefully instead of misaligning the buffer. Used both as the default
// path and as DefaultRead's implementation.
func (s *Session) readSlotFieldsDirect(buf *wire.Buffer, refs *RefResolver, slot *Slot, target reflect.Value, peerDef *ClassDef, validators *[]pendingValidator) error {
	for _, c := range Consolidate(peerDef, slot.Descriptors) {
		val, err := s.readWireValue(buf, refs, c.PeerField.Type, validators)
		if err != nil {
			return err
		}
		if c.Local == nil {
			continue // peer field this slot no longer declares: discarded
		}
		fv := c.Local.Field.Get(target)
		assignInto(fv, val)
	}
	return nil
}

// skipSlotBody discards a wire slot the local ancestor chain has no room
// for (§9, when AllowHierarchyMigration is set): it still must know how to
// walk the bytes, so it resolves peerDef's own registered type to interpret
// the slot's field layout, then discards the result.
func (s *Session) skipSlotBody(buf *wire.Buffer, refs *RefResolver, peerDef *ClassDef) error {
	local, ok := s.engine.Types.Lookup(peerDef.ClassName())
	if !ok {
		return errf(KindSchemaMismatch, "cannot skip unrecognized hierarchy slot %s; register its type", peerDef.ClassName())
	}
	descs, _, err := ReflectDescriptors(local)
	if err != nil {
		return err
	}
	consolidated := Consolidate(peerDef, descs)
	var discarded []pendingValidator
	for _, c := range consolidated {
		if _, err := s.readFieldValue(buf, refs, c.PeerField.Type, &discarded); err != nil {
			return err
		}
	}
	return nil
}

// assignInto stores val (as produced by readWireValue/readFieldValue) into
// fv, widening between the wire's canonical representation and the local
// field's concrete Go type (e.g. int64 -> int32, float64 -> float32).
func assignInto(fv reflect.Value, val any) {
	if val == nil {
		return
	}
	rv := reflect.ValueOf(val)
	if fv.Kind() == reflect.Ptr {
		if rv.Type().AssignableTo(fv.Type()) {
			fv.Set(rv) // keep the resolved instance itself, so shared and cyclic references stay shared
			return
		}
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		assignInto(fv.Elem(), val)
		return
	}
	// Object/opaque reads always produce a pointer (every object has
	// reference semantics on the wire); a local field declared as a plain
	// struct value (a final, non-nullable object, §4.1 group 3) takes the
	// pointee instead of the pointer itself.
	if rv.Kind() == reflect.Ptr && fv.Kind() != reflect.Ptr && rv.Type().Elem() == fv.Type() {
		fv.Set(rv.Elem())
		return
	}
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return
	}
	// Array reads produce a slice of goSliceElemType's element type; copy it
	// element by element into a local slice or array of another element type.
	if rv.Kind() == reflect.Slice && (fv.Kind() == reflect.Slice || fv.Kind() == reflect.Array) {
		if fv.Kind() == reflect.Slice {
			fv.Set(reflect.MakeSlice(fv.Type(), rv.Len(), rv.Len()))
		}
		for i := 0; i < rv.Len() && i < fv.Len(); i++ {
			assignInto(fv.Index(i), rv.Index(i).Interface())
		}
		return
	}
	if rv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rv.Convert(fv.Type()))
		return
	}
	if fv.Kind() == reflect.Interface {
		fv.Set(rv)
	}
}
