package classync

type legacyPoint struct {
	X int32
	Y int32
}

func (p *legacyPoint) WriteSelf(s *SlotStream) error {
	pf, err := s.PutFields()
	if err != nil {
		return err
	}
	if err := pf.Put("X", int32(p.X)); err != nil {
		return err
	}
	if err := pf.Put("Y", int32(p.Y)); err != nil {
		return err
	}
	return s.WriteFields()
}

func (p *legacyPoint) ReadSelf(s *SlotStream) error {
	gf, err := s.ReadFields()
	if err != nil {
		return err
	}
	x, err := gf.Get("X", int32(0))
	if err != nil {
		return err
	}
	y, err := gf.Get("Y", int32(0))
	if err != nil {
		return err
	}
	p.X = x.(int32)
	p.Y = y.(int32)
	return nil
}

// legacyBase is the oldest ancestor in the chain: plain data, no hooks. It
// is always present on the wire, even when written by an older peer.
type legacyBase struct {
	Tag string
}

// legacyWidget is the most-derived slot. A peer running an older version of
// this hierarchy (one that predates legacyWidget's own layer) sends only the
// legacyBase slot; ReadNoData fills in a sentinel for the layer that never
// arrived (§4.3.2 read_no_data).
type legacyWidget struct {
	legacyBase
	Point legacyPoint
}

func (w *legacyWidget) WriteSelf(s *SlotStream) error {
	return s.DefaultWrite()
}

func (w *legacyWidget) ReadSelf(s *SlotStream) error {
	return s.DefaultRead()
}

func (w *legacyWidget) ReadNoData() error {
	w.Point = legacyPoint{X: -1, Y: -1}
	return nil
}
