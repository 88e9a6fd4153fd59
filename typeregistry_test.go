package classync

import (
	"reflect"
	"testing"
)

type registryFixture struct {
	V int32
}

func TestTypeRegistryRegisterAndLookup(t *testing.T) {
	r := NewTypeRegistry()
	r.Register(&registryFixture{})
	name := qualifiedName(reflect.TypeOf(registryFixture{}))
	got, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("Lookup(%q) not found", name)
	}
	if got.Name() != "registryFixture" {
		t.Fatalf("Lookup returned %v", got)
	}
}

func TestTypeRegistryLookupMissReturnsFalse(t *testing.T) {
	r := NewTypeRegistry()
	if _, ok := r.Lookup("nonexistent.Type"); ok {
		t.Fatal("expected ok=false for an unregistered name")
	}
}
