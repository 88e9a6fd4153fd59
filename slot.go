package classync

import (
	"log/slog"
	"reflect"
)

// SelfWriter is implemented by a type whose most-derived ancestor in its
// embedding chain wants to emit its own wire representation instead of the
// engine's default structural layout — the Go analogue of
// `writeObject(ObjectOutputStream)` (§4.3.2).
type SelfWriter interface {
	WriteSelf(s *SlotStream) error
}

// SelfReader is the read-side counterpart of SelfWriter, the analogue of
// `readObject(ObjectInputStream)`.
type SelfReader interface {
	ReadSelf(s *SlotStream) error
}

// NoDataReader is invoked when a slot is present locally but absent on the
// wire — the receiver extends a class the sender's version didn't have
// (§4.3.2, "read_no_data").
type NoDataReader interface {
	ReadNoData() error
}

// ObjectReplacer and ObjectResolver mark a type as wanting the
// replace/resolve-object protocol, which this engine does not implement
// (§4.3.3 eligibility gate, condition (b)). Their presence anywhere in the
// ancestor chain disqualifies the type from slot mode entirely.
type ObjectReplacer interface {
	ReplaceObject() (any, error)
}

type ObjectResolver interface {
	ResolveObject(any) (any, error)
}

// Slot corresponds to one ancestor level in a type's embedding chain — the
// Go analogue of one class in a Java ancestor chain participating in
// custom serialization (§4.3.2, §9 "model each slot as a value in a flat
// vector").
type Slot struct {
	Type        reflect.Type
	ClassName   string
	IndexPrefix []int // path from the root struct down to this slot's embedded field
	Descriptors []*Descriptor
	Def         *ClassDef
	Grouper     *DescriptorGrouper

	HasWriteHook bool
	HasReadHook  bool
	HasNoData    bool

	fieldIndexByName map[string]int
	putPool          objStack[*PutField]
	getPool          objStack[*GetField]
}

// BuildSlots walks t's embedding chain to locate every ancestor level and
// returns them in superclass-first order (§4.3.2 "Write ... For each slot
// in superclass-first order"). At each level the walk follows the first
// anonymous embedded struct field and stops at a level that has none; every
// embedding level on that path becomes a slot, whether or not it declares
// hooks, since Go has no notion of a class opting out of serializability
// (the analogue of Java's walk up to the closest non-serializable
// superclass). Each slot's ClassDef lists its fields in grouped order.
func BuildSlots(t reflect.Type) ([]*Slot, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var chain []reflect.Type
	var prefixes [][]int
	cur := t
	prefix := []int{}
	for {
		chain = append(chain, cur)
		prefixes = append(prefixes, append([]int{}, prefix...))
		next, idx, ok := firstAnonymousStructField(cur)
		if !ok {
			break
		}
		prefix = append(prefix, idx)
		cur = next
	}
	// chain/prefixes are most-derived-first (T, then its embedded
	// ancestor, ...); reverse to superclass-first for the wire order.
	n := len(chain)
	slots := make([]*Slot, n)
	seenNames := make(map[string]bool)
	for i := 0; i < n; i++ {
		srcIdx := n - 1 - i
		lvl := chain[srcIdx]
		className := qualifiedName(lvl)
		descs, err := directDescriptors(lvl, className)
		if err != nil {
			return nil, err
		}
		for _, d := range descs {
			if seenNames[d.Name] {
				return nil, errf(KindSchemaMismatch, "duplicate field name %q across ancestor chain of %s", d.Name, t)
			}
			seenNames[d.Name] = true
		}
		grouper := NewDescriptorGrouper(descs, GroupingOptions{})
		def := NewClassDef(className, toFieldRecords(grouper.Ordered()))
		sample := reflect.New(lvl).Interface()
		slots[i] = &Slot{
			Type:         lvl,
			ClassName:    className,
			IndexPrefix:  prefixes[srcIdx],
			Descriptors:  descs,
			Def:          def,
			Grouper:      grouper,
			HasWriteHook: implementsPtr[SelfWriter](sample),
			HasReadHook:  implementsPtr[SelfReader](sample),
			HasNoData:    implementsPtr[NoDataReader](sample),
		}
		slots[i].fieldIndexByName = make(map[string]int, len(descs))
		for idx, d := range descs {
			slots[i].fieldIndexByName[d.Name] = idx
		}
	}
	return slots, nil
}

// directDescriptors gathers only the fields declared directly on lvl (not
// its own embedded ancestor, which becomes its own slot). Field.Index is
// relative to lvl itself, not the root struct: every slot caller first
// slices the root value down to its own ancestor level (via Slot.IndexPrefix)
// before touching a Descriptor's FieldHandle, both on the direct read/write
// path and when handing the slice to a WriteSelf/ReadSelf hook.
func directDescriptors(lvl reflect.Type, className string) ([]*Descriptor, error) {
	var out []*Descriptor
	for i := 0; i < lvl.NumField(); i++ {
		sf := lvl.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			continue // becomes its own slot
		}
		if sf.PkgPath != "" {
			continue
		}
		if sf.Tag.Get(tagKey) == "-" {
			continue
		}
		tref, nullable, ok := typeRefFor(sf.Type)
		if !ok {
			continue
		}
		out = append(out, &Descriptor{
			Name:         sf.Name,
			DeclaredType: tref,
			OwningClass:  ClassRef{Name: className, Type: lvl},
			Nullable:     nullable,
			Field:        &FieldHandle{Index: []int{i}},
		})
	}
	return out, nil
}

func firstAnonymousStructField(t reflect.Type) (reflect.Type, int, bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			return sf.Type, i, true
		}
	}
	return nil, 0, false
}

func implementsPtr[I any](sample any) bool {
	_, ok := sample.(I)
	return ok
}

// EligibleForSlotMode implements the §4.3.3 eligibility gate. It returns
// (slots, true, nil) when slot mode should be used, (nil, false, nil) when
// the type has no custom hooks at all (use structural mode instead), and a
// non-nil error — directing the caller to a fallback serializer — when a
// replace/resolve hook is present or, only once slot mode is actually
// needed, the ancestor chain turns out to have duplicate field names.
//
// The hook check runs before BuildSlots, not after: a hookless type with
// legitimate Go field-shadowing across its embedding chain has no business
// going through slot mode at all, and must fall through to structural
// mode's most-derived-wins merge (§6) rather than being hard-failed by a
// duplicate-name check slot mode alone needs.
func EligibleForSlotMode(t reflect.Type) ([]*Slot, bool, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	sample := reflect.New(t).Interface()
	if implementsPtr[ObjectReplacer](sample) || implementsPtr[ObjectResolver](sample) {
		return nil, false, errf(KindUnsupportedEncoding,
			"%s declares replace/resolve-object hooks; use a dedicated replace-resolve serializer instead", t)
	}
	if !chainHasHooks(t) {
		return nil, false, nil
	}
	slots, err := BuildSlots(t)
	if err != nil {
		return nil, false, err
	}
	slog.Debug("classync: engaging slot-mode compatibility for custom hooks; prefer a structural serializer for new types", "type", t.String())
	return slots, true, nil
}

// chainHasHooks walks t's embedding chain looking for a WriteSelf/ReadSelf
// hook at any level, without building descriptors or checking for
// duplicate field names — it only needs to answer "does slot mode apply
// here at all", which must be decidable even for a type slot mode itself
// could never serialize.
func chainHasHooks(t reflect.Type) bool {
	cur := t
	for {
		sample := reflect.New(cur).Interface()
		if implementsPtr[SelfWriter](sample) || implementsPtr[SelfReader](sample) {
			return true
		}
		next, _, ok := firstAnonymousStructField(cur)
		if !ok {
			return false
		}
		cur = next
	}
}
