package metrics

import (
	"math"

	"github.com/san-kum/heatrod/internal/heat"
)

// MaxIncrement tracks the largest change of any node between the last two
// snapshots. It reaches zero once the profile is steady.
type MaxIncrement struct {
	prev  heat.Field
	value float64
}

func NewMaxIncrement() *MaxIncrement {
	return &MaxIncrement{}
}

func (m *MaxIncrement) Name() string { return "max_increment" }

// Observe compares t with the previous snapshot. A snapshot of a different
// length restarts the comparison.
func (m *MaxIncrement) Observe(_ int, t heat.Field) {
	if m.prev == nil || len(m.prev) != len(t) {
		m.prev = t.Clone()
		m.value = 0
		return
	}
	m.value = 0
	for i, v := range t {
		if d := math.Abs(v - m.prev[i]); d > m.value {
			m.value = d
		}
	}
	copy(m.prev, t)
}

func (m *MaxIncrement) Value() float64 { return m.value }

func (m *MaxIncrement) Reset() {
	m.prev = nil
	m.value = 0
}
