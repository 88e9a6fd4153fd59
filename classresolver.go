package classync

import (
	"fmt"
	"reflect"
	"sync"

	"go.arlen.dev/classync/wire"
)

// ClassResolver is the other external collaborator named in §6
// ("write_class/read_class_internal"). In meta-shared mode it consults a
// MetaContext; it also owns the process-wide descriptor cache keyed by
// (type identity, ClassDef.id) described in §5, guarded by a RWMutex that
// allows concurrent lookups with single-writer installation.
type ClassResolver struct {
	mu    sync.RWMutex
	cache map[cacheKey]*typeLayout
}

type cacheKey struct {
	typ reflect.Type
	id  uint64
}

// typeLayout is what the cache stores: the local ClassDef for a type plus
// its precomputed descriptor grouping, shared across every serialization of
// that type once installed (§5 "atomic pointer swap observable on the next
// serialization" — a sync.Map-style RWMutex install achieves the same
// effect without requiring code generation, which is out of scope here).
type typeLayout struct {
	def     *ClassDef
	grouper *DescriptorGrouper
}

// NewClassResolver returns an empty resolver.
func NewClassResolver() *ClassResolver {
	return &ClassResolver{cache: make(map[cacheKey]*typeLayout)}
}

// LayoutFor returns the cached layout for t, building it (under the
// ClassDef id computed from its own declared fields) if this is the first
// time t has been seen. Concurrent callers racing to build the same type's
// layout are safe: the loser's result is discarded and the winner's is
// used, matching the single-writer-install rule in §5.
func (cr *ClassResolver) LayoutFor(t reflect.Type, opts GroupingOptions) (*typeLayout, error) {
	descs, className, err := ReflectDescriptors(t)
	if err != nil {
		return nil, err
	}
	grouper := NewDescriptorGrouper(descs, opts)
	def := NewClassDef(className, toFieldRecords(grouper.Ordered()))
	key := cacheKey{typ: t, id: def.id}

	cr.mu.RLock()
	if lay, ok := cr.cache[key]; ok {
		cr.mu.RUnlock()
		return lay, nil
	}
	cr.mu.RUnlock()

	lay := &typeLayout{def: def, grouper: grouper}

	cr.mu.Lock()
	if existing, ok := cr.cache[key]; ok {
		cr.mu.Unlock()
		return existing, nil
	}
	cr.cache[key] = lay
	cr.mu.Unlock()
	return lay, nil
}

func toFieldRecords(descs []*Descriptor) []FieldRecord {
	out := make([]FieldRecord, len(descs))
	for i, d := range descs {
		out[i] = FieldRecord{Name: d.Name, Type: d.DeclaredType, Nullable: d.Nullable}
	}
	return out
}

// WriteClass emits the class handle (and, on first occurrence, the inline
// ClassDef bytes) for t via mc, per §4.2.
func (cr *ClassResolver) WriteClass(buf *wire.Buffer, mc *MetaContext, t reflect.Type, opts GroupingOptions) (*typeLayout, error) {
	lay, err := cr.LayoutFor(t, opts)
	if err != nil {
		return nil, err
	}
	ref := &ClassRef{Name: lay.def.className, Type: t}
	if mustWrite := mc.WriteClassHandle(buf, ref, lay.def); mustWrite {
		lay.def.EncodeTo(buf)
	}
	return lay, nil
}

// ReadClassInternal reads the class handle (and, if new, the inline
// ClassDef) and returns the peer's ClassDef for the object about to be
// read.
func (cr *ClassResolver) ReadClassInternal(buf *wire.Buffer, mc *MetaContext) (*ClassDef, error) {
	def, isNew, err := mc.ReadClassHandle(buf)
	if err != nil {
		return nil, err
	}
	if isNew {
		def, err = DecodeClassDef(buf)
		if err != nil {
			return nil, err
		}
		mc.RegisterReadDef(def)
	}
	return def, nil
}

func (cr *ClassResolver) String() string {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return fmt.Sprintf("ClassResolver{%d cached layouts}", len(cr.cache))
}
