package classync

import (
	"reflect"

	"go.arlen.dev/classync/wire"
)

// streamMode selects which half of SlotStream's surface is legal to call.
type streamMode int

const (
	streamWriting streamMode = iota
	streamReading
)

// pendingValidator is a registered post-construction callback awaiting the
// descending-priority flush once the whole object graph has been read
// (§4.3.2, §4.3.3 register_validation).
type pendingValidator struct {
	priority int
	seq      int
	fn       func() error
}

// SlotStream is the scratch surface handed to a user's WriteSelf/ReadSelf
// hook (§4.3.3). It exposes exactly the operations that section lists;
// every legacy operation it does not list fails with unsupported-encoding.
type SlotStream struct {
	session *Session
	slot    *Slot
	buf     *wire.Buffer
	refs    *RefResolver
	target  reflect.Value
	mode    streamMode

	// peerDef is the wire ClassDef for this slot, set only in read mode.
	// ReadFields consolidates against it so a field this slot's own class
	// added or dropped (as opposed to the whole slot being absent, which
	// ReadNoData handles) degrades gracefully instead of desyncing reads.
	peerDef *ClassDef

	defaultCalled bool
	put           *PutField
	get           *GetField

	validators *[]pendingValidator // shared across the whole read call
}

// DefaultWrite writes the slot's declared fields in grouped order using the
// structural writer. Must be called at most once.
func (s *SlotStream) DefaultWrite() error {
	if s.mode != streamWriting {
		return errf(KindNotActive, "DefaultWrite called on a read stream")
	}
	if s.defaultCalled {
		return errf(KindNotActive, "not in writeObject invocation or fields already written")
	}
	s.defaultCalled = true
	return s.session.writeSlotFieldsDirect(s.buf, s.refs, s.slot, s.target)
}

// PutFields returns a pooled PutField for this slot invocation.
func (s *SlotStream) PutFields() (*PutField, error) {
	if s.mode != streamWriting {
		return nil, errf(KindNotActive, "PutFields called on a read stream")
	}
	if s.put == nil {
		if pf, ok := s.slot.putPool.pop(); ok {
			s.put = pf
		} else {
			s.put = newPutField(s.slot)
		}
	}
	return s.put, nil
}

// WriteFields finalizes the current PutField: emits its values in the
// slot's grouped field order (the order of the slot's ClassDef, which
// ReadFields consolidates against), substituting zero/nil for anything the
// hook never set, then recycles the PutField.
func (s *SlotStream) WriteFields() error {
	if s.mode != streamWriting {
		return errf(KindNotActive, "WriteFields called on a read stream")
	}
	if s.defaultCalled {
		return errf(KindNotActive, "not in writeObject invocation or fields already written")
	}
	if s.put == nil {
		return errf(KindNotActive, "no current PutField object")
	}
	for _, d := range s.slot.Grouper.Ordered() {
		val := s.put.vals[s.slot.fieldIndexByName[d.Name]]
		if val == nil {
			if d.DeclaredType.Kind == KindObject || d.DeclaredType.Kind == KindOpaque || d.DeclaredType.Kind == KindArray {
				wire.Byte(refTagNull, s.buf)
				continue
			}
			val = zeroValueFor(d.DeclaredType)
		}
		if err := s.session.writeFieldValue(s.buf, s.refs, d.DeclaredType, reflect.ValueOf(val)); err != nil {
			return err
		}
	}
	s.put.reset()
	s.slot.putPool.push(s.put)
	s.put = nil
	s.defaultCalled = true
	return nil
}

// DefaultRead reads the slot's declared fields and assigns them to the
// instance via the structural reader. Must be called at most once.
func (s *SlotStream) DefaultRead() error {
	if s.mode != streamReading {
		return errf(KindNotActive, "DefaultRead called on a write stream")
	}
	if s.defaultCalled {
		return errf(KindNotActive, "not in readObject invocation or fields already read")
	}
	s.defaultCalled = true
	return s.session.readSlotFieldsDirect(s.buf, s.refs, s.slot, s.target, s.peerDef, s.validators)
}

// ReadFields reads the slot's put-field-ordered values off the wire into a
// pooled GetField and returns it. It consolidates against peerDef rather
// than reading len(slot.Descriptors) values unconditionally in local order:
// a name the peer never wrote stays absentSentinel (Defaulted reports
// true, per §8's "defaulted(name) true iff the name was not set on the
// write side"), and a name the peer wrote that this slot no longer
// declares is read off the wire and discarded instead of desyncing the
// rest of the slot's fields.
func (s *SlotStream) ReadFields() (*GetField, error) {
	if s.mode != streamReading {
		return nil, errf(KindNotActive, "ReadFields called on a write stream")
	}
	if s.defaultCalled {
		return nil, errf(KindNotActive, "not in readObject invocation or fields already read")
	}
	if s.get == nil {
		if gf, ok := s.slot.getPool.pop(); ok {
			s.get = gf
			s.get.reset()
		} else {
			s.get = newGetField(s.slot)
		}
	}
	for _, c := range Consolidate(s.peerDef, s.slot.Descriptors) {
		v, err := s.session.readWireValue(s.buf, s.refs, c.PeerField.Type, s.validators)
		if err != nil {
			return nil, err
		}
		if c.Local == nil {
			continue // peer wrote a field this slot no longer declares
		}
		idx := s.slot.fieldIndexByName[c.Local.Name]
		s.get.vals[idx] = v
	}
	s.defaultCalled = true
	return s.get, nil
}

// RegisterValidation enqueues callback to fire after the entire object
// graph has been read, in descending-priority order.
func (s *SlotStream) RegisterValidation(callback func() error, priority int) error {
	if callback == nil {
		return errf(KindInvalidObject, "null validation callback")
	}
	*s.validators = append(*s.validators, pendingValidator{priority: priority, seq: len(*s.validators), fn: callback})
	return nil
}

// Typed scalar helpers delegate directly to the underlying buffer, per
// §4.3.3's "typed scalar read/write helpers".
func (s *SlotStream) WriteBool(v bool) error   { return s.writeScalar(func() { wire.Bool(v, s.buf) }) }
func (s *SlotStream) WriteInt8(v int8) error   { return s.writeScalar(func() { wire.Byte(byte(v), s.buf) }) }
func (s *SlotStream) WriteInt16(v int16) error { return s.writeScalar(func() { wire.FUInt16(uint16(v), s.buf) }) }
func (s *SlotStream) WriteInt32(v int32) error { return s.writeScalar(func() { wire.FUInt32(uint32(v), s.buf) }) }
func (s *SlotStream) WriteInt64(v int64) error { return s.writeScalar(func() { wire.FUInt64(uint64(v), s.buf) }) }
func (s *SlotStream) WriteFloat32(v float32) error { return s.writeScalar(func() { wire.Float32(v, s.buf) }) }
func (s *SlotStream) WriteFloat64(v float64) error { return s.writeScalar(func() { wire.Float64(v, s.buf) }) }
func (s *SlotStream) WriteChar(v rune) error   { return s.writeScalar(func() { wire.Rune(v, s.buf) }) }
func (s *SlotStream) WriteUTF(v string) error  { return s.writeScalar(func() { wire.String(v, s.buf) }) }

func (s *SlotStream) writeScalar(fn func()) error {
	if s.mode != streamWriting {
		return errf(KindNotActive, "write called on a read stream")
	}
	fn()
	return nil
}

func (s *SlotStream) ReadBool() (bool, error)       { return readScalar(s, wire.RBool) }
func (s *SlotStream) ReadInt8() (int8, error) {
	b, err := readScalar(s, wire.RByte)
	return int8(b), err
}
func (s *SlotStream) ReadInt16() (int16, error) {
	v, err := readScalar(s, wire.RUInt16)
	return int16(v), err
}
func (s *SlotStream) ReadInt32() (int32, error) {
	v, err := readScalar(s, wire.RUInt32)
	return int32(v), err
}
func (s *SlotStream) ReadInt64() (int64, error) {
	v, err := readScalar(s, wire.RUInt64)
	return int64(v), err
}
func (s *SlotStream) ReadFloat32() (float32, error) { return readScalar(s, wire.RFloat32) }
func (s *SlotStream) ReadFloat64() (float64, error) { return readScalar(s, wire.RFloat64) }
func (s *SlotStream) ReadChar() (rune, error)       { return readScalar(s, wire.RRune) }
func (s *SlotStream) ReadUTF() (string, error)      { return readScalar(s, wire.RString) }

func readScalar[T any](s *SlotStream, fn func(*wire.Buffer) (T, bool)) (v T, err error) {
	if s.mode != streamReading {
		return v, errf(KindNotActive, "read called on a write stream")
	}
	v, ok := fn(s.buf)
	if !ok {
		return v, errf(KindEOF, "short read in slot stream")
	}
	return v, nil
}

func okErr(ok bool) error {
	if ok {
		return nil
	}
	return errf(KindEOF, "short read in slot stream")
}

// The following legacy stream operations are deliberately not implemented
// (§4.3.3 "Unsupported operations"): calling any of them fails with
// unsupported-encoding, directing the caller toward a fallback serializer.
func (s *SlotStream) AnnotateClass() error         { return s.unsupported("annotate_class") }
func (s *SlotStream) WriteClassDescriptor() error  { return s.unsupported("write_class_descriptor") }
func (s *SlotStream) EnableReplaceObject() error   { return s.unsupported("enable_replace_object") }
func (s *SlotStream) Reset() error                 { return s.unsupported("reset") }
func (s *SlotStream) WriteStreamHeader() error     { return s.unsupported("write_stream_header") }
func (s *SlotStream) UseProtocolVersion() error    { return s.unsupported("use_protocol_version") }
func (s *SlotStream) ReadLine() (string, error) {
	return "", s.unsupported("read_line")
}

func (s *SlotStream) unsupported(op string) error {
	return errf(KindUnsupportedEncoding, "%s is not supported; use a fallback serializer for class %s", op, s.slot.ClassName)
}

// zeroValueFor returns the language-default value for a declared TypeRef,
// used to fill in a PutField entry the hook never set (§4.3.3
// write_fields "substituting ... zero for unset primitives").
func zeroValueFor(t TypeRef) any {
	switch t.Kind {
	case KindBool:
		return false
	case KindInt8, KindInt16, KindInt32, KindInt64, KindChar:
		return int64(0)
	case KindFloat32, KindFloat64:
		return float64(0)
	case KindString:
		return ""
	default:
		return nil // null for unset object fields
	}
}
