package classync

// putFieldState tracks the PutField state machine from §4.4:
// None -> Building (after the first Put) -> None. WriteFields flushes the
// values and resets the PutField straight to None before pooling it;
// putFlushed is not entered.
type putFieldState int

const (
	putNone putFieldState = iota
	putBuilding
	putFlushed
)

// PutField is the mutable sparse record a write-hook fills via put_fields()
// (§4.3.3). It is keyed by field name and pooled per slot to avoid
// allocation churn (§5).
type PutField struct {
	slot  *Slot
	vals  []any
	state putFieldState
}

func newPutField(slot *Slot) *PutField {
	return &PutField{slot: slot, vals: make([]any, len(slot.Descriptors))}
}

// reset clears all slots to nil before the PutField returns to its pool,
// so no state leaks across invocations (§5).
func (p *PutField) reset() {
	for i := range p.vals {
		p.vals[i] = nil
	}
	p.state = putNone
}

// Put records val under name. Setting an unknown name fails with
// unknown-field (§4.3.3).
func (p *PutField) Put(name string, val any) error {
	idx, ok := p.slot.fieldIndexByName[name]
	if !ok {
		return errf(KindUnknownField, "field %q does not exist in class %s", name, p.slot.ClassName)
	}
	p.vals[idx] = val
	p.state = putBuilding
	return nil
}
