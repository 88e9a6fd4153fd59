package classync

import (
	"reflect"
	"time"

	"go.arlen.dev/classync/wire"
)

// time.Time is carried as a built-in value object rather than a
// reflection-walked struct (§6 supplement, mirroring how the teacher's own
// composite helpers special-case types with a natural wire representation
// instead of structurally decomposing them). It is final and has no
// identity, so it skips the reference resolver entirely: a presence byte
// followed by Unix seconds and the sub-second nanosecond remainder.
func writeTimeValue(fv reflect.Value, buf *wire.Buffer) error {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			wire.Byte(refTagNull, buf)
			return nil
		}
		fv = fv.Elem()
	}
	t, ok := fv.Interface().(time.Time)
	if !ok {
		return errf(KindSchemaMismatch, "time.Time field holds unexpected type %s", fv.Type())
	}
	wire.Byte(refTagNew, buf)
	wire.VInt64(t.Unix(), buf)
	wire.VInt(t.Nanosecond(), buf)
	return nil
}

func readTimeValue(buf *wire.Buffer) (any, error) {
	tag, ok := wire.RByte(buf)
	if !ok {
		return nil, errf(KindEOF, "short read on time.Time presence tag")
	}
	if tag == refTagNull {
		return nil, nil
	}
	sec, ok := wire.RVInt64(buf)
	if !ok {
		return nil, errf(KindEOF, "short read on time.Time seconds")
	}
	nsec, ok := wire.RVInt(buf)
	if !ok {
		return nil, errf(KindEOF, "short read on time.Time nanoseconds")
	}
	return time.Unix(sec, int64(nsec)).UTC(), nil
}
