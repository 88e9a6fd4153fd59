package classync

// absentSentinel marks a GetField slot that was never set on the write
// side — distinguishable from an explicit nil/zero value (§4.3.3
// "defaulted(name) true iff the name was not set on the write side").
var absentSentinel = new(struct{})

// GetField is the read-side counterpart of PutField, populated from the
// wire in put-field order by read_fields() (§4.3.3).
type GetField struct {
	slot *Slot
	vals []any
}

func newGetField(slot *Slot) *GetField {
	g := &GetField{slot: slot, vals: make([]any, len(slot.Descriptors))}
	g.reset()
	return g
}

func (g *GetField) reset() {
	for i := range g.vals {
		g.vals[i] = absentSentinel
	}
}

// Defaulted reports whether name was absent on the write side.
func (g *GetField) Defaulted(name string) (bool, error) {
	idx, ok := g.slot.fieldIndexByName[name]
	if !ok {
		return false, errf(KindUnknownField, "field %q does not exist in class %s", name, g.slot.ClassName)
	}
	return g.vals[idx] == absentSentinel, nil
}

// Get returns the value stored under name, or fallback if it was never set.
func (g *GetField) Get(name string, fallback any) (any, error) {
	idx, ok := g.slot.fieldIndexByName[name]
	if !ok {
		return nil, errf(KindUnknownField, "field %q does not exist in class %s", name, g.slot.ClassName)
	}
	if g.vals[idx] == absentSentinel {
		return fallback, nil
	}
	return g.vals[idx], nil
}
