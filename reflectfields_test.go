package classync

import (
	"reflect"
	"testing"
)

type reflectBase struct {
	Shared string
	FromBase int32
}

type reflectDerived struct {
	reflectBase
	Shared string // most-derived wins over reflectBase.Shared
	Hidden string `classync:"-"`
	unexported string
}

func TestReflectDescriptorsMostDerivedWinsOnNameCollision(t *testing.T) {
	descs, className, err := ReflectDescriptors(reflect.TypeOf(reflectDerived{}))
	if err != nil {
		t.Fatalf("ReflectDescriptors: %v", err)
	}
	if className != "go.arlen.dev/classync.reflectDerived" {
		t.Fatalf("className = %q", className)
	}
	var shared *Descriptor
	for _, d := range descs {
		if d.Name == "Shared" {
			shared = d
		}
	}
	if shared == nil {
		t.Fatal("Shared field not found")
	}
	if len(shared.Field.Index) != 1 {
		t.Fatalf("Shared.Field.Index = %v, want the derived (top-level) index, not the embedded one", shared.Field.Index)
	}
}

func TestReflectDescriptorsExcludesTaggedAndUnexportedFields(t *testing.T) {
	descs, _, err := ReflectDescriptors(reflect.TypeOf(reflectDerived{}))
	if err != nil {
		t.Fatalf("ReflectDescriptors: %v", err)
	}
	for _, d := range descs {
		if d.Name == "Hidden" {
			t.Fatal("Hidden field tagged classync:\"-\" should be excluded")
		}
		if d.Name == "unexported" {
			t.Fatal("unexported field should be excluded")
		}
	}
}

func TestReflectDescriptorsMergesAncestorFields(t *testing.T) {
	descs, _, err := ReflectDescriptors(reflect.TypeOf(reflectDerived{}))
	if err != nil {
		t.Fatalf("ReflectDescriptors: %v", err)
	}
	found := false
	for _, d := range descs {
		if d.Name == "FromBase" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected FromBase inherited from embedded reflectBase")
	}
}

func TestTypeRefForPointerToStructIsNullable(t *testing.T) {
	type Point struct{ X int32 }
	type Wrapper struct{ P *Point }
	fld, _ := reflect.TypeOf(Wrapper{}).FieldByName("P")
	ref, nullable, ok := typeRefFor(fld.Type)
	if !ok || ref.Kind != KindObject || !nullable {
		t.Fatalf("typeRefFor(*Point) = %+v, nullable=%v, ok=%v", ref, nullable, ok)
	}
}

func TestTypeRefForPlainStructIsFinal(t *testing.T) {
	type Point struct{ X int32 }
	type Wrapper struct{ P Point }
	fld, _ := reflect.TypeOf(Wrapper{}).FieldByName("P")
	ref, nullable, ok := typeRefFor(fld.Type)
	if !ok || ref.Kind != KindObject || nullable {
		t.Fatalf("typeRefFor(Point) = %+v, nullable=%v, ok=%v, want nullable=false", ref, nullable, ok)
	}
}

func TestTypeRefForUnsupportedKindExcluded(t *testing.T) {
	type Wrapper struct{ F func() }
	fld, _ := reflect.TypeOf(Wrapper{}).FieldByName("F")
	_, _, ok := typeRefFor(fld.Type)
	if ok {
		t.Fatal("expected func-typed field to be unsupported")
	}
}
