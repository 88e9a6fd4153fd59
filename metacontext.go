package classync

import (
	"go.hasen.dev/generic"

	"go.arlen.dev/classync/wire"
)

// MetaContext is a per-session cache of ClassDefs exchanged between two
// peers, belonging to one direction of one peer pairing. It persists across
// messages within that pairing (§3, §4.2).
type MetaContext struct {
	classToHandle map[string]uint32 // keyed by ClassRef.Name; handles are dense, start at 0
	readDefs      []*ClassDef       // definitions learned from the peer, in arrival order
}

// NewMetaContext returns an empty MetaContext ready for use on one
// direction of one peer pairing.
func NewMetaContext() *MetaContext {
	mc := &MetaContext{}
	generic.InitMap(&mc.classToHandle)
	return mc
}

// WriteClassHandle emits the class handle for cls per §4.2: 0 for "new,
// definition follows inline" (and the ClassDef bytes are written right
// after), or handle+1 to reference a previously sent definition. It returns
// whether the caller must now write the ClassDef bytes.
func (mc *MetaContext) WriteClassHandle(buf *wire.Buffer, cls *ClassRef, def *ClassDef) (mustWriteDef bool) {
	if handle, known := mc.classToHandle[cls.Name]; known {
		wire.VUInt64(uint64(handle)+1, buf)
		return false
	}
	handle := uint32(len(mc.classToHandle))
	mc.classToHandle[cls.Name] = handle
	wire.VUInt64(0, buf)
	return true
}

// ReadClassHandle reads a class handle written by WriteClassHandle. If the
// handle is 0, the caller must read a ClassDef next and pass it to
// RegisterReadDef. Otherwise the returned ClassDef is the previously-read
// definition the handle identifies.
func (mc *MetaContext) ReadClassHandle(buf *wire.Buffer) (def *ClassDef, isNew bool, err error) {
	h, ok := wire.RVUInt64(buf)
	if !ok {
		return nil, false, errf(KindEOF, "short read on class handle")
	}
	if h == 0 {
		return nil, true, nil
	}
	idx := int(h - 1)
	if idx >= len(mc.readDefs) {
		return nil, false, errf(KindProtocolViolation, "class handle %d exceeds %d known definitions", idx, len(mc.readDefs))
	}
	return mc.readDefs[idx], false, nil
}

// RegisterReadDef appends a freshly-read ClassDef to read_defs. Must be
// called exactly once per isNew==true result from ReadClassHandle, in wire
// order — handles are monotonic and assigned by arrival order.
func (mc *MetaContext) RegisterReadDef(def *ClassDef) {
	mc.readDefs = append(mc.readDefs, def)
}

// ReadDefs exposes the definitions learned so far, for callers (such as the
// slot-mode engine) that need to look one up by class name.
func (mc *MetaContext) ReadDefs() []*ClassDef { return mc.readDefs }
