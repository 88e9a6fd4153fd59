package classync

import "reflect"

// TypeRegistry maps a wire class name back to a local Go type. Java can
// resolve `Class.forName(name)`; Go cannot, so a host application must
// register every concrete type it expects to receive from a peer. This is
// the Go-native equivalent of the "class resolver" collaborator's lookup
// half (§6).
type TypeRegistry struct {
	byName map[string]reflect.Type
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{byName: make(map[string]reflect.Type)}
}

// Register associates a zero-value sample of a struct type with its
// qualified class name, so the engine can allocate instances of it by name
// when reading an object whose declared TypeRef is an object reference.
func (r *TypeRegistry) Register(sample any) {
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.byName[qualifiedName(t)] = t
}

// Lookup returns the local type registered under name, if any.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}
