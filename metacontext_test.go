package classync

import (
	"testing"

	"go.arlen.dev/classync/wire"
)

func TestMetaContextHandleReuseAcrossMessages(t *testing.T) {
	mc := NewMetaContext()
	ref := &ClassRef{Name: "demo.Point"}
	def := NewClassDef("demo.Point", []FieldRecord{{Name: "X", Type: TypeRef{Kind: KindInt32}}})

	buf1 := wire.NewWriter()
	if !mc.WriteClassHandle(buf1, ref, def) {
		t.Fatal("first occurrence must require writing the ClassDef")
	}

	buf2 := wire.NewWriter()
	if mc.WriteClassHandle(buf2, ref, def) {
		t.Fatal("second occurrence must reuse the handle, not rewrite the ClassDef")
	}

	rmc := NewMetaContext()
	r1 := wire.NewReader(buf1.Data)
	d1, isNew, err := rmc.ReadClassHandle(r1)
	if err != nil || !isNew {
		t.Fatalf("first read: isNew=%v err=%v", isNew, err)
	}
	if d1 != nil {
		t.Fatalf("expected nil def before decoding inline bytes, got %v", d1)
	}
	rmc.RegisterReadDef(def)

	r2 := wire.NewReader(buf2.Data)
	d2, isNew2, err := rmc.ReadClassHandle(r2)
	if err != nil || isNew2 {
		t.Fatalf("second read: isNew=%v err=%v", isNew2, err)
	}
	if d2.ClassName() != "demo.Point" {
		t.Fatalf("second read returned %v", d2)
	}
}

func TestMetaContextUnknownHandleFails(t *testing.T) {
	mc := NewMetaContext()
	buf := wire.NewWriter()
	wire.VUInt64(5, buf)
	_, _, err := mc.ReadClassHandle(wire.NewReader(buf.Data))
	if err == nil {
		t.Fatal("expected protocol-violation for an out-of-range handle")
	}
	if kind, _ := KindOf(err); kind != KindProtocolViolation {
		t.Fatalf("kind = %v, want protocol-violation", kind)
	}
}
