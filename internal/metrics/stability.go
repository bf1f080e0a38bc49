package metrics

import "github.com/san-kum/heatrod/internal/heat"

// Stability is the fraction of snapshots whose temperatures all lie within
// [lo, hi]. With fixed-temperature ends a stable run never leaves the range
// spanned by the initial and boundary temperatures.
type Stability struct {
	name       string
	lo, hi     float64
	violations int
	samples    int
}

func NewStability(lo, hi float64) *Stability {
	return &Stability{
		name: "stability",
		lo:   lo,
		hi:   hi,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(_ int, t heat.Field) {
	s.samples++
	if !t.IsValid() || t.Min() < s.lo || t.Max() > s.hi {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
