package classync

import "sort"

// GroupingOptions controls how DescriptorGrouper buckets and orders fields;
// it mirrors the three booleans from §4.1.
type GroupingOptions struct {
	TrackRefsForBasics bool
	CompressInts       bool
	CompressLongs      bool
}

// DescriptorGrouper is a computed, read-only view over a set of Descriptors:
// the four fixed-order groups described in §3/§4.1. Grouping is pure
// (no I/O) and deterministic, so two peers holding the same descriptor set
// always produce the same sequence.
type DescriptorGrouper struct {
	opts GroupingOptions

	primitives       []*Descriptor // group 1: by descending size, then name
	boxedPrimitives  []*Descriptor // group 2: boxed/nullable primitives, same ordering
	finalObjects     []*Descriptor // group 3: non-polymorphic object fields
	otherObjects     []*Descriptor // group 4: everything else
}

// NewDescriptorGrouper partitions descriptors into the four canonical
// groups and sorts each one.
func NewDescriptorGrouper(descriptors []*Descriptor, opts GroupingOptions) *DescriptorGrouper {
	g := &DescriptorGrouper{opts: opts}
	for _, d := range descriptors {
		switch {
		case d.DeclaredType.IsPrimitive() && !d.Nullable:
			g.primitives = append(g.primitives, d)
		case d.DeclaredType.IsPrimitive() && d.Nullable:
			g.boxedPrimitives = append(g.boxedPrimitives, d)
		case d.DeclaredType.Kind == KindObject && !d.Nullable:
			g.finalObjects = append(g.finalObjects, d)
		default:
			g.otherObjects = append(g.otherObjects, d)
		}
	}
	sortBySizeThenName(g.primitives)
	sortBySizeThenName(g.boxedPrimitives)
	sortByClassThenField(g.finalObjects)
	sortByClassThenField(g.otherObjects)
	return g
}

func sortBySizeThenName(ds []*Descriptor) {
	sort.SliceStable(ds, func(i, j int) bool {
		si, sj := ds[i].DeclaredType.Size(), ds[j].DeclaredType.Size()
		if si != sj {
			return si > sj // descending size
		}
		return ds[i].Name < ds[j].Name
	})
}

func sortByClassThenField(ds []*Descriptor) {
	sort.SliceStable(ds, func(i, j int) bool {
		ci, cj := ds[i].DeclaredType.ClassName, ds[j].DeclaredType.ClassName
		if ci != cj {
			return ci < cj
		}
		return ds[i].Name < ds[j].Name
	})
}

// Ordered returns the full, stable field sequence: primitives, boxed
// primitives, final objects, other objects, in that fixed order. This is
// the sequence both the writer and reader must agree on for a given
// descriptor set.
func (g *DescriptorGrouper) Ordered() []*Descriptor {
	out := make([]*Descriptor, 0, len(g.primitives)+len(g.boxedPrimitives)+len(g.finalObjects)+len(g.otherObjects))
	out = append(out, g.primitives...)
	out = append(out, g.boxedPrimitives...)
	out = append(out, g.finalObjects...)
	out = append(out, g.otherObjects...)
	return out
}

// Primitives returns group 1, in order.
func (g *DescriptorGrouper) Primitives() []*Descriptor { return g.primitives }

// BoxedPrimitives returns group 2, in order.
func (g *DescriptorGrouper) BoxedPrimitives() []*Descriptor { return g.boxedPrimitives }

// FinalObjects returns group 3, in order.
func (g *DescriptorGrouper) FinalObjects() []*Descriptor { return g.finalObjects }

// OtherObjects returns group 4, in order.
func (g *DescriptorGrouper) OtherObjects() []*Descriptor { return g.otherObjects }
