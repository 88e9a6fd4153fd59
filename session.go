package classync

import (
	"reflect"
	"sort"

	"go.arlen.dev/classync/wire"
)

// Engine holds the process-wide, config-driven state shared by every
// session: the class layout cache (§5) and the type registry a host
// application populates once at startup. It is safe for concurrent use by
// many sessions.
type Engine struct {
	Config  Config
	Classes *ClassResolver
	Types   *TypeRegistry
}

// NewEngine validates cfg and returns a ready Engine with an empty class
// cache and type registry.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		Config:  cfg,
		Classes: NewClassResolver(),
		Types:   NewTypeRegistry(),
	}, nil
}

// Session is one serialization/deserialization call's worth of state: the
// per-direction MetaContext pairs a host keeps alive across messages with
// one peer (§3, §4.2), plus a fresh RefResolver per call (§5 "concurrent
// serializations must use distinct resolvers").
type Session struct {
	engine    *Engine
	writeMeta *MetaContext
	readMeta  *MetaContext
}

// NewSession returns a session bound to e, with fresh, empty MetaContexts.
// A host that wants meta-sharing to persist across multiple Serialize or
// Deserialize calls with the same peer should hold onto the Session (or its
// MetaContexts) rather than creating a new one per message.
func (e *Engine) NewSession() *Session {
	return &Session{engine: e, writeMeta: NewMetaContext(), readMeta: NewMetaContext()}
}

// Serialize encodes v (which must be a non-nil pointer to a struct, or an
// interface holding one) into a self-contained byte slice.
func (s *Session) Serialize(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, errf(KindInvalidObject, "Serialize requires a non-nil pointer, got %T", v)
	}
	buf := wire.NewWriter()
	refs := NewRefResolver()
	if err := s.writeObjectRef(buf, refs, rv); err != nil {
		return nil, err
	}
	return buf.Data, nil
}

// Deserialize decodes data into out, which must be a non-nil pointer to a
// struct matching the type that was serialized. *out is reset to its zero
// value first, so fields the peer did not send end up zero. Every struct
// type that appears in the message as a nested object, opaque or
// skipped-hierarchy field must be registered with the Engine's
// TypeRegistry. Deserialize runs registered validators in
// descending-priority order once the whole object graph has been read
// (§4.3.2/§4.3.3 register_validation).
func (s *Session) Deserialize(data []byte, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errf(KindInvalidObject, "Deserialize requires a non-nil pointer, got %T", out)
	}
	buf := wire.NewReader(data)
	refs := NewRefResolver()
	var validators []pendingValidator

	isNull, existing, _, err := refs.ReadRefHeader(buf)
	if err != nil {
		return err
	}
	if isNull || existing {
		return errf(KindProtocolViolation, "top-level message cannot be a null or back-reference")
	}
	rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	refs.Register(rv)
	if err := s.readObjectBody(buf, refs, rv.Elem(), &validators); err != nil {
		return err
	}

	sort.SliceStable(validators, func(i, j int) bool {
		if validators[i].priority != validators[j].priority {
			return validators[i].priority > validators[j].priority
		}
		return validators[i].seq < validators[j].seq
	})
	for _, v := range validators {
		if err := v.fn(); err != nil {
			return err
		}
	}
	return nil
}
