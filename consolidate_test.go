package classync

import "testing"

func TestTypesCompatibleExactKindMatch(t *testing.T) {
	if !typesCompatible(TypeRef{Kind: KindInt32}, TypeRef{Kind: KindInt32}) {
		t.Fatal("identical primitive kinds should be compatible")
	}
	if typesCompatible(TypeRef{Kind: KindInt32}, TypeRef{Kind: KindInt64}) {
		t.Fatal("differing primitive kinds should not be compatible")
	}
}

func TestTypesCompatibleObjectRequiresSameClassName(t *testing.T) {
	a := TypeRef{Kind: KindObject, ClassName: "pkg.Foo"}
	b := TypeRef{Kind: KindObject, ClassName: "pkg.Foo"}
	c := TypeRef{Kind: KindObject, ClassName: "pkg.Bar"}
	if !typesCompatible(a, b) {
		t.Fatal("same class name should be compatible")
	}
	if typesCompatible(a, c) {
		t.Fatal("different class names should not be compatible")
	}
}

func TestTypesCompatibleOpaqueWidensWithObject(t *testing.T) {
	opaque := TypeRef{Kind: KindOpaque}
	obj := TypeRef{Kind: KindObject, ClassName: "pkg.Foo"}
	if !typesCompatible(opaque, obj) {
		t.Fatal("opaque<->object should be compatible")
	}
	if !typesCompatible(obj, opaque) {
		t.Fatal("object<->opaque should be compatible symmetrically")
	}
}

func TestTypesCompatibleArrayRecursesOnElement(t *testing.T) {
	elemA := TypeRef{Kind: KindInt32}
	elemB := TypeRef{Kind: KindInt64}
	a := TypeRef{Kind: KindArray, Elem: &elemA}
	b := TypeRef{Kind: KindArray, Elem: &elemA}
	c := TypeRef{Kind: KindArray, Elem: &elemB}
	if !typesCompatible(a, b) {
		t.Fatal("arrays of matching element type should be compatible")
	}
	if typesCompatible(a, c) {
		t.Fatal("arrays of mismatched element type should not be compatible")
	}
}

func TestConsolidateMatchesByNameAndType(t *testing.T) {
	peer := NewClassDef("pkg.Widget", []FieldRecord{
		{Name: "X", Type: TypeRef{Kind: KindInt32}},
		{Name: "Removed", Type: TypeRef{Kind: KindString}},
	})
	local := []*Descriptor{
		{Name: "X", DeclaredType: TypeRef{Kind: KindInt32}, Field: &FieldHandle{Index: []int{0}}},
		{Name: "Added", DeclaredType: TypeRef{Kind: KindInt32}, Field: &FieldHandle{Index: []int{1}}},
	}
	cons := Consolidate(peer, local)
	if len(cons) != 2 {
		t.Fatalf("len(cons) = %d, want 2", len(cons))
	}
	if cons[0].Local == nil || cons[0].Local.Name != "X" {
		t.Fatalf("cons[0].Local = %+v, want X", cons[0].Local)
	}
	if cons[1].Local != nil {
		t.Fatalf("cons[1].Local = %+v, want nil (Removed has no local match)", cons[1].Local)
	}

	missing := MissingLocalFields(cons, local)
	if len(missing) != 1 || missing[0].Name != "Added" {
		t.Fatalf("MissingLocalFields = %+v, want [Added]", missing)
	}
}

func TestConsolidateSkipsIncompatibleType(t *testing.T) {
	peer := NewClassDef("pkg.Widget", []FieldRecord{
		{Name: "X", Type: TypeRef{Kind: KindString}},
	})
	local := []*Descriptor{
		{Name: "X", DeclaredType: TypeRef{Kind: KindInt32}, Field: &FieldHandle{Index: []int{0}}},
	}
	cons := Consolidate(peer, local)
	if cons[0].Local != nil {
		t.Fatalf("expected incompatible types to leave Local nil, got %+v", cons[0].Local)
	}
}
