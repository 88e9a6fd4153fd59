package classync

import (
	"errors"
	"fmt"
)

// Kind identifies which of §7's error categories a failure belongs to.
type Kind int

const (
	// KindSchemaMismatch covers an unreconcilable field mapping, a
	// duplicate-named field in a slot chain, or a wire class that no
	// remaining slot can accept.
	KindSchemaMismatch Kind = iota
	// KindProtocolViolation covers a bad class handle, bad type tag, or
	// truncated ClassDef.
	KindProtocolViolation
	// KindEOF covers a short buffer read.
	KindEOF
	// KindUnknownField covers PutField/GetField given an unrecognized name.
	KindUnknownField
	// KindNotActive covers a PutField/GetField state-machine violation.
	KindNotActive
	// KindUnsupportedEncoding covers a user hook invoking a forbidden
	// legacy stream operation.
	KindUnsupportedEncoding
	// KindInvalidObject covers a nil validator or an unreachable ancestor
	// constructor.
	KindInvalidObject
	// KindConstructionFailed covers a failed instance allocation when
	// unsafe allocation is disabled.
	KindConstructionFailed
)

func (k Kind) String() string {
	switch k {
	case KindSchemaMismatch:
		return "schema-mismatch"
	case KindProtocolViolation:
		return "protocol-violation"
	case KindEOF:
		return "eof"
	case KindUnknownField:
		return "unknown-field"
	case KindNotActive:
		return "not-active"
	case KindUnsupportedEncoding:
		return "unsupported-encoding"
	case KindInvalidObject:
		return "invalid-object"
	case KindConstructionFailed:
		return "construction-failed"
	default:
		return "unknown"
	}
}

// Error is the single error type the engine returns at any call boundary.
// It carries a Kind so callers can switch on failure category (per §7)
// without string matching.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.msg) }

// errf builds an *Error with a formatted message. It is the sole
// constructor used throughout the engine so every failure carries a Kind.
func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, with ok
// reporting whether the extraction succeeded.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
