package classync

// ConsolidatedField is one entry of the sequence produced by Consolidate:
// same length and order as the peer ClassDef's fields (§4.3.1). Local is
// nil when the peer field has no matching local field (case (b)): it is
// skipped on read. Only the read side consolidates; the write path always
// emits the writer's own ClassDef and never consults this sequence.
type ConsolidatedField struct {
	PeerField FieldRecord
	Local     *Descriptor
}

// Consolidate aligns the peer ClassDef's fields against the local
// descriptor set, in peer order, applying the widening rules from §4.3.1:
// names must match; the local type must be assignable from the peer's
// declared type (or vice versa) under: numeric <-> its boxed form,
// declared opaque <-> any object type, array <-> array with recursively
// matching element types.
func Consolidate(peer *ClassDef, local []*Descriptor) []ConsolidatedField {
	byName := make(map[string]*Descriptor, len(local))
	for _, d := range local {
		byName[d.Name] = d
	}
	out := make([]ConsolidatedField, len(peer.fields))
	for i, pf := range peer.fields {
		ld, ok := byName[pf.Name]
		if ok && typesCompatible(ld.DeclaredType, pf.Type) {
			out[i] = ConsolidatedField{PeerField: pf, Local: ld}
		} else {
			out[i] = ConsolidatedField{PeerField: pf, Local: nil}
		}
	}
	return out
}

// typesCompatible implements the §4.3.1 widening rules, checked
// symmetrically (assignable either direction satisfies the rule).
func typesCompatible(a, b TypeRef) bool {
	if a.Kind == b.Kind {
		if a.Kind == KindArray {
			return typesCompatible(*a.Elem, *b.Elem)
		}
		if a.Kind == KindObject {
			return a.ClassName == b.ClassName
		}
		return true
	}
	if a.Kind == KindOpaque && b.Kind == KindObject {
		return true
	}
	if b.Kind == KindOpaque && a.Kind == KindObject {
		return true
	}
	return false
}

// MissingLocalFields returns the local descriptors that had no
// corresponding entry among consolidated — fields of T that never
// appeared in the peer's ClassDef, which retain their language-default
// zero value after a read completes (§4.3.1 "Read path").
func MissingLocalFields(consolidated []ConsolidatedField, local []*Descriptor) []*Descriptor {
	present := make(map[string]bool, len(consolidated))
	for _, c := range consolidated {
		if c.Local != nil {
			present[c.Local.Name] = true
		}
	}
	var missing []*Descriptor
	for _, d := range local {
		if !present[d.Name] {
			missing = append(missing, d)
		}
	}
	return missing
}
