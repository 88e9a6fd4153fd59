package classync

import (
	"testing"

	"go.arlen.dev/classync/wire"
)

func TestClassDefRoundTrip(t *testing.T) {
	def := NewClassDef("demo.Point", []FieldRecord{
		{Name: "X", Type: TypeRef{Kind: KindInt32}},
		{Name: "Y", Type: TypeRef{Kind: KindInt32}},
	})

	buf := wire.NewWriter()
	def.EncodeTo(buf)

	r := wire.NewReader(buf.Data)
	got, err := DecodeClassDef(r)
	if err != nil {
		t.Fatalf("DecodeClassDef: %v", err)
	}
	if got.ClassName() != def.ClassName() {
		t.Fatalf("class name = %q, want %q", got.ClassName(), def.ClassName())
	}
	if got.ID() != def.ID() {
		t.Fatalf("ID mismatch: %x vs %x", got.ID(), def.ID())
	}
	if len(got.Fields()) != 2 || got.Fields()[0].Name != "X" {
		t.Fatalf("fields = %+v", got.Fields())
	}
}

func TestClassDefIDStableIffCanonicalBytesEqual(t *testing.T) {
	a := NewClassDef("demo.Point", []FieldRecord{{Name: "X", Type: TypeRef{Kind: KindInt32}}})
	b := NewClassDef("demo.Point", []FieldRecord{{Name: "X", Type: TypeRef{Kind: KindInt32}}})
	if a.ID() != b.ID() {
		t.Fatalf("identical ClassDefs produced different IDs: %x vs %x", a.ID(), b.ID())
	}
	c := NewClassDef("demo.Point", []FieldRecord{{Name: "X", Type: TypeRef{Kind: KindInt64}}})
	if a.ID() == c.ID() {
		t.Fatalf("differing field types produced the same ID")
	}
}

func TestClassDefArrayTypeRefRoundTrip(t *testing.T) {
	elem := TypeRef{Kind: KindString}
	def := NewClassDef("demo.Bag", []FieldRecord{
		{Name: "Items", Type: TypeRef{Kind: KindArray, Elem: &elem}, Nullable: true},
	})
	buf := wire.NewWriter()
	def.EncodeTo(buf)
	got, err := DecodeClassDef(wire.NewReader(buf.Data))
	if err != nil {
		t.Fatalf("DecodeClassDef: %v", err)
	}
	f := got.Fields()[0]
	if f.Type.Kind != KindArray || f.Type.Elem.Kind != KindString || !f.Nullable {
		t.Fatalf("field = %+v", f)
	}
}
