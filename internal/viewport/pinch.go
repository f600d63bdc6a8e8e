package viewport

type pinchSample struct {
	center   Point
	distance float64
}

// Pinch tracks the previous sample of a two-finger gesture. The zero value
// has no baseline.
type Pinch struct {
	last *pinchSample
}

// Active reports whether a baseline sample is held.
func (p *Pinch) Active() bool {
	return p.last != nil
}

// Move feeds the current positions of two contacts. The first sample of a
// gesture only records the baseline and returns s unchanged with false.
// Later samples scale s by the ratio of the current distance to the
// previous one, anchored at the contacts' midpoint.
func (p *Pinch) Move(s State, p1, p2 Point) (State, bool) {
	cur := pinchSample{center: Center(p1, p2), distance: Distance(p1, p2)}
	prev := p.last
	p.last = &cur
	if prev == nil || prev.distance == 0 || cur.distance == 0 {
		// Coincident contacts give no usable ratio; treat as a new baseline.
		return s, false
	}
	newScale := s.Scale * (cur.distance / prev.distance)
	return s.ZoomAt(cur.center, newScale), true
}

// End forgets the baseline so the next gesture starts fresh.
func (p *Pinch) End() {
	p.last = nil
}
