package classync

import (
	"reflect"
	"time"
)

// tagKey is the struct tag key; a field tagged `classync:"-"` is excluded
// from serialization — the "explicitly excluded by configuration" clause of the
// §6 field selection rule. The rest of that rule (instance fields not
// marked static — Go has no per-field static storage, so this clause is
// vacuous — including those inherited from serializable ancestors, i.e. Go
// anonymous embedded struct fields, most-derived wins on name collision) is
// implemented by the recursive walk below.
const tagKey = "classync"

// ReflectDescriptors enumerates t's serializable fields per §6 and returns
// them as local Descriptors (every one has a Field accessor, since they're
// all derived from the local type), along with the type's class name.
// Duplicate names across embedding levels are merged with the
// most-derived occurrence winning, per the field selection rule.
func ReflectDescriptors(t reflect.Type) ([]*Descriptor, string, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, "", errf(KindSchemaMismatch, "%s is not a struct type", t)
	}
	className := qualifiedName(t)
	byName := make(map[string]*Descriptor)
	var order []string
	walkFields(t, nil, className, byName, &order)

	out := make([]*Descriptor, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out, className, nil
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// walkFields recurses depth-first into anonymous (embedded) struct fields.
// On a name collision the occurrence with the shorter index path (the
// more-derived level) keeps the entry in byName, whatever the declaration
// order — "duplicates by name ... merged in structural mode, the
// most-derived wins" (§6).
func walkFields(t reflect.Type, indexPrefix []int, className string, byName map[string]*Descriptor, order *[]string) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" && !sf.Anonymous {
			continue // unexported, non-embedded: not a serializable instance field
		}
		idx := append(append([]int{}, indexPrefix...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			walkFields(sf.Type, idx, className, byName, order)
			continue
		}
		if sf.Tag.Get(tagKey) == "-" {
			continue
		}
		tref, nullable, ok := typeRefFor(sf.Type)
		if !ok {
			continue // unsupported field type: silently excluded, like an unsupported Java field type
		}
		prev, exists := byName[sf.Name]
		if exists && len(prev.Field.Index) < len(idx) {
			continue // a more-derived level already declared this name
		}
		if !exists {
			*order = append(*order, sf.Name)
		}
		byName[sf.Name] = &Descriptor{
			Name:         sf.Name,
			DeclaredType: tref,
			OwningClass:  ClassRef{Name: className, Type: t},
			Nullable:     nullable,
			Field:        &FieldHandle{Index: idx},
		}
	}
}

var timeType = reflect.TypeOf(time.Time{})

// typeRefFor maps a Go reflect.Type to its TypeRef per §3's TypeRef variant
// list, widening unrecoverable generic parameters to KindOpaque (§4.3).
func typeRefFor(t reflect.Type) (ref TypeRef, nullable bool, ok bool) {
	switch t.Kind() {
	case reflect.Bool:
		return TypeRef{Kind: KindBool}, false, true
	case reflect.Int8, reflect.Uint8:
		return TypeRef{Kind: KindInt8}, false, true
	case reflect.Int16, reflect.Uint16:
		return TypeRef{Kind: KindInt16}, false, true
	case reflect.Int32, reflect.Uint32:
		return TypeRef{Kind: KindInt32}, false, true
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return TypeRef{Kind: KindInt64}, false, true
	case reflect.Float32:
		return TypeRef{Kind: KindFloat32}, false, true
	case reflect.Float64:
		return TypeRef{Kind: KindFloat64}, false, true
	case reflect.String:
		return TypeRef{Kind: KindString}, false, true
	case reflect.Ptr:
		elem, _, ok := typeRefFor(t.Elem())
		if !ok {
			return TypeRef{}, false, false
		}
		return elem, true, true
	case reflect.Slice, reflect.Array:
		elem, _, ok := typeRefFor(t.Elem())
		if !ok {
			return TypeRef{}, false, false
		}
		return TypeRef{Kind: KindArray, Elem: &elem}, true, true
	case reflect.Struct:
		if t == timeType {
			return TypeRef{Kind: KindObject, ClassName: "time.Time"}, false, true
		}
		// A plain (non-pointer) struct field is a final object: always
		// present, never null, no polymorphism (§4.1 group 3). A field
		// declared as a pointer to a struct becomes nullable via the
		// reflect.Ptr case above, landing it in group 4 instead.
		return TypeRef{Kind: KindObject, ClassName: qualifiedName(t)}, false, true
	case reflect.Interface, reflect.Map:
		// Generic parameters/erased container element types cannot be
		// recovered reliably via reflection alone — declare opaque,
		// per §3/§4.3's "used when generic parameters cannot be
		// recovered" clause.
		return TypeRef{Kind: KindOpaque}, true, true
	default:
		return TypeRef{}, false, false
	}
}
