package classync

import "testing"

func TestGetFieldDefaultedForUnsetField(t *testing.T) {
	slot := newTestSlotForFields("X", "Y")
	gf := newGetField(slot)
	defaulted, err := gf.Defaulted("X")
	if err != nil {
		t.Fatalf("Defaulted: %v", err)
	}
	if !defaulted {
		t.Fatal("expected X to be defaulted (never set)")
	}
	val, err := gf.Get("X", int32(-1))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != int32(-1) {
		t.Fatalf("Get fallback = %v, want -1", val)
	}
}

func TestGetFieldReturnsSetValueNotDefaulted(t *testing.T) {
	slot := newTestSlotForFields("X")
	gf := newGetField(slot)
	gf.vals[0] = int32(42)
	defaulted, err := gf.Defaulted("X")
	if err != nil {
		t.Fatalf("Defaulted: %v", err)
	}
	if defaulted {
		t.Fatal("expected X to be reported as present, not defaulted")
	}
	val, err := gf.Get("X", int32(-1))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != int32(42) {
		t.Fatalf("Get = %v, want 42", val)
	}
}

func TestGetFieldUnknownNameErrors(t *testing.T) {
	slot := newTestSlotForFields("X")
	gf := newGetField(slot)
	if _, err := gf.Get("Z", nil); err == nil {
		t.Fatal("expected error for unknown field name")
	} else if k, ok := KindOf(err); !ok || k != KindUnknownField {
		t.Fatalf("KindOf = %v, %v, want KindUnknownField", k, ok)
	}
	if _, err := gf.Defaulted("Z"); err == nil {
		t.Fatal("expected error for unknown field name")
	}
}
