package heat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Mesh is the discretized rod. Every per-node slice has length Nodes. T[0]
// and T[Nodes-1] are the boundary values; the drivers set them before any
// interior update.
type Mesh struct {
	Nodes   int
	Index   []float64 // 1..Nodes, plotting only
	T       Field
	Dt      []float64 // increment of the last pass, overwritten every step
	Density []float64
	Cp      []float64
	Q       []float64
	Res     []float64 // unused
	Dx      float64
	F0      float64
}

// NewMesh builds a uniform mesh at temperature tInit. F0 is left at zero and
// must be set with SetFourier before a Neumann run.
func NewMesh(nodes int, length, cp, tInit, densityInit float64) (*Mesh, error) {
	switch {
	case nodes < 2:
		return nil, invalid("mesh needs at least 2 nodes, got %d", nodes)
	case !(length > 0) || math.IsInf(length, 0):
		return nil, invalid("mesh length must be positive, got %g", length)
	case !(cp > 0):
		return nil, invalid("specific heat must be positive, got %g", cp)
	case !(densityInit > 0):
		return nil, invalid("density must be positive, got %g", densityInit)
	case math.IsNaN(tInit) || math.IsInf(tInit, 0):
		return nil, invalid("initial temperature must be finite, got %g", tInit)
	}

	m := &Mesh{
		Nodes:   nodes,
		Index:   make([]float64, nodes),
		T:       make(Field, nodes),
		Dt:      make([]float64, nodes),
		Density: make([]float64, nodes),
		Cp:      make([]float64, nodes),
		Q:       make([]float64, nodes),
		Res:     make([]float64, nodes),
		Dx:      length / float64(nodes),
	}
	floats.Span(m.Index, 1, float64(nodes))
	for i := 0; i < nodes; i++ {
		m.T[i] = tInit
		m.Density[i] = densityInit
		m.Cp[i] = cp
		m.Res[i] = 1
	}
	return m, nil
}

func (m *Mesh) Last() int { return m.Nodes - 1 }

// Fourier returns k*dt/(dx^2*rho*cp) for node n.
func (m *Mesh) Fourier(sp SimulationParameter, mp MaterialProperty, n int) float64 {
	return mp.K * sp.Timestep / (m.Dx * m.Dx * m.Density[n] * m.Cp[n])
}

// SetFourier fills F0 from the material's scalar density and specific heat.
func (m *Mesh) SetFourier(sp SimulationParameter, mp MaterialProperty) {
	m.F0 = mp.K * sp.Timestep / (m.Dx * m.Dx * mp.Density * mp.Cp)
}

func (m *Mesh) Snapshot() Field {
	return m.T.Clone()
}

func (m *Mesh) String() string {
	return fmt.Sprintf("Temperature: %v, %d nodes\n", []float64(m.T), len(m.T))
}
