package classync

import (
	"reflect"
	"testing"
)

type slotGrandparent struct {
	G int32
}

type slotParent struct {
	slotGrandparent
	P int32
}

type slotChild struct {
	slotParent
	C int32
}

func TestBuildSlotsSuperclassFirstOrder(t *testing.T) {
	slots, err := BuildSlots(reflect.TypeOf(slotChild{}))
	if err != nil {
		t.Fatalf("BuildSlots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("len(slots) = %d, want 3", len(slots))
	}
	wantClasses := []string{
		qualifiedName(reflect.TypeOf(slotGrandparent{})),
		qualifiedName(reflect.TypeOf(slotParent{})),
		qualifiedName(reflect.TypeOf(slotChild{})),
	}
	for i, want := range wantClasses {
		if slots[i].ClassName != want {
			t.Fatalf("slots[%d].ClassName = %q, want %q", i, slots[i].ClassName, want)
		}
	}
}

type dupBase struct {
	Same string
}

type dupDerived struct {
	dupBase
	Same string
}

func TestBuildSlotsDetectsDuplicateFieldName(t *testing.T) {
	_, err := BuildSlots(reflect.TypeOf(dupDerived{}))
	if err == nil {
		t.Fatal("expected duplicate-field-name error")
	}
	if k, ok := KindOf(err); !ok || k != KindSchemaMismatch {
		t.Fatalf("KindOf = %v, %v, want KindSchemaMismatch", k, ok)
	}
}

type plainStruct struct {
	A int32
}

func TestEligibleForSlotModeFalseWithoutHooks(t *testing.T) {
	slots, ok, err := EligibleForSlotMode(reflect.TypeOf(plainStruct{}))
	if err != nil {
		t.Fatalf("EligibleForSlotMode: %v", err)
	}
	if ok || slots != nil {
		t.Fatalf("expected (nil, false, nil) for a hookless type, got (%v, %v)", slots, ok)
	}
}

func TestEligibleForSlotModeTrueWithWriteHook(t *testing.T) {
	slots, ok, err := EligibleForSlotMode(reflect.TypeOf(legacyWidget{}))
	if err != nil {
		t.Fatalf("EligibleForSlotMode: %v", err)
	}
	if !ok || len(slots) != 2 {
		t.Fatalf("expected slot mode engaged with 2 slots, got ok=%v slots=%+v", ok, slots)
	}
}

func TestEligibleForSlotModeFallsThroughOnHooklessDuplicateNames(t *testing.T) {
	slots, ok, err := EligibleForSlotMode(reflect.TypeOf(dupDerived{}))
	if err != nil {
		t.Fatalf("expected a hookless duplicate-name type to fall through to structural mode without error, got %v", err)
	}
	if ok || slots != nil {
		t.Fatalf("expected slot mode disabled for a hookless type, got ok=%v slots=%+v", ok, slots)
	}
}

type replacerType struct {
	X int32
}

func (r *replacerType) ReplaceObject() (any, error) { return r, nil }

func TestEligibleForSlotModeRejectsObjectReplacer(t *testing.T) {
	_, _, err := EligibleForSlotMode(reflect.TypeOf(replacerType{}))
	if err == nil {
		t.Fatal("expected error for ObjectReplacer type")
	}
	if k, ok := KindOf(err); !ok || k != KindUnsupportedEncoding {
		t.Fatalf("KindOf = %v, %v, want KindUnsupportedEncoding", k, ok)
	}
}
