package classync

import "testing"

type widgetV1 struct {
	X int32
	Y int32
	Z string
}

type widgetV2 struct {
	X int32
	Y int32
}

type inner struct {
	Label string
}

type outer struct {
	Name  string
	Tags  []string
	Child *inner
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestRoundTripSimpleStruct(t *testing.T) {
	e := newTestEngine(t, Config{CompatibleMode: ForwardBackward})
	e.Types.Register(&outer{})
	e.Types.Register(&inner{})

	in := &outer{Name: "root", Tags: []string{"a", "b", "c"}, Child: &inner{Label: "leaf"}}
	data, err := e.NewSession().Serialize(in)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	out := &outer{}
	if err := e.NewSession().Deserialize(data, out); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if out.Name != in.Name || len(out.Tags) != 3 || out.Tags[1] != "b" {
		t.Fatalf("out = %+v", out)
	}
	if out.Child == nil || out.Child.Label != "leaf" {
		t.Fatalf("out.Child = %+v", out.Child)
	}
}

func TestSchemaEvolutionRemovedField(t *testing.T) {
	e := newTestEngine(t, Config{CompatibleMode: ForwardBackward})
	e.Types.Register(&widgetV1{})

	data, err := e.NewSession().Serialize(&widgetV1{X: 1, Y: 2, Z: "dropped"})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	out := &widgetV2{}
	if err := e.NewSession().Deserialize(data, out); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if out.X != 1 || out.Y != 2 {
		t.Fatalf("out = %+v", out)
	}
}

func TestSchemaEvolutionAddedField(t *testing.T) {
	e := newTestEngine(t, Config{CompatibleMode: ForwardBackward})
	e.Types.Register(&widgetV2{})

	data, err := e.NewSession().Serialize(&widgetV2{X: 9, Y: 10})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	out := &widgetV1{Z: "should be zeroed"}
	if err := e.NewSession().Deserialize(data, out); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if out.X != 9 || out.Y != 10 || out.Z != "" {
		t.Fatalf("out = %+v, want Z reset to zero value", out)
	}
}

func TestStrictModeRejectsFieldMismatch(t *testing.T) {
	e := newTestEngine(t, Config{CompatibleMode: Strict})
	e.Types.Register(&widgetV1{})

	data, err := e.NewSession().Serialize(&widgetV1{X: 1, Y: 2, Z: "x"})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	out := &widgetV2{}
	err = e.NewSession().Deserialize(data, out)
	if err == nil {
		t.Fatal("expected schema-mismatch in strict mode when field sets differ")
	}
	if kind, _ := KindOf(err); kind != KindSchemaMismatch {
		t.Fatalf("kind = %v, want schema-mismatch", kind)
	}
}

func TestSerializeHooklessDuplicateFieldNameUsesStructuralMode(t *testing.T) {
	e := newTestEngine(t, Config{CompatibleMode: ForwardBackward})
	e.Types.Register(&dupDerived{})

	in := &dupDerived{dupBase: dupBase{Same: "base"}, Same: "derived"}
	data, err := e.NewSession().Serialize(in)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	out := &dupDerived{}
	if err := e.NewSession().Deserialize(data, out); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if out.Same != "derived" {
		t.Fatalf("Same = %q, want %q (most-derived wins)", out.Same, "derived")
	}
}

type node struct {
	Val  int32
	Next *node
}

func TestCyclicReferenceRoundTrip(t *testing.T) {
	e := newTestEngine(t, Config{CompatibleMode: ForwardBackward})
	e.Types.Register(&node{})

	a := &node{Val: 1}
	b := &node{Val: 2}
	a.Next = b
	b.Next = a

	data, err := e.NewSession().Serialize(a)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	out := &node{}
	if err := e.NewSession().Deserialize(data, out); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if out.Val != 1 || out.Next == nil || out.Next.Val != 2 {
		t.Fatalf("out = %+v", out)
	}
	if out.Next.Next != out {
		t.Fatal("cycle was not preserved: out.Next.Next should point back to out")
	}
}
