package classync

import "testing"

func newTestSlotForFields(names ...string) *Slot {
	s := &Slot{ClassName: "pkg.Test", fieldIndexByName: make(map[string]int, len(names))}
	for i, n := range names {
		s.Descriptors = append(s.Descriptors, &Descriptor{Name: n})
		s.fieldIndexByName[n] = i
	}
	return s
}

func TestPutFieldPutAndUnknownName(t *testing.T) {
	slot := newTestSlotForFields("X", "Y")
	pf := newPutField(slot)
	if err := pf.Put("X", int32(5)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if pf.state != putBuilding {
		t.Fatalf("state = %v, want putBuilding", pf.state)
	}
	if pf.vals[0] != int32(5) {
		t.Fatalf("vals[0] = %v, want 5", pf.vals[0])
	}
	err := pf.Put("Z", int32(1))
	if k, ok := KindOf(err); !ok || k != KindUnknownField {
		t.Fatalf("Put(unknown) = %v, want KindUnknownField", err)
	}
}

func TestPutFieldResetClearsStateAndValues(t *testing.T) {
	slot := newTestSlotForFields("X")
	pf := newPutField(slot)
	_ = pf.Put("X", int32(9))
	pf.reset()
	if pf.state != putNone {
		t.Fatalf("state after reset = %v, want putNone", pf.state)
	}
	if pf.vals[0] != nil {
		t.Fatalf("vals[0] after reset = %v, want nil", pf.vals[0])
	}
}
