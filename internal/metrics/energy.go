package metrics

import (
	"github.com/san-kum/heatrod/internal/heat"
	"github.com/san-kum/heatrod/internal/sim"
)

// ThermalEnergy is the stored heat of the rod at the latest snapshot,
// sum(rho*cp*T*dx), in J per unit cross-section.
type ThermalEnergy struct {
	name    string
	mesh    *heat.Mesh
	samples int
	energy  float64
}

func NewThermalEnergy(mesh *heat.Mesh) *ThermalEnergy {
	return &ThermalEnergy{
		name: "thermal_energy",
		mesh: mesh,
	}
}

func (e *ThermalEnergy) Name() string {
	return e.name
}

func (e *ThermalEnergy) Observe(_ int, t heat.Field) {
	e.samples++
	sum := 0.0
	for i, v := range t {
		sum += e.mesh.Density[i] * e.mesh.Cp[i] * v * e.mesh.Dx
	}
	e.energy = sum
}

func (e *ThermalEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.energy
}

func (e *ThermalEnergy) Reset() {
	e.samples = 0
	e.energy = 0
}

// PeakTemperature is the highest node temperature seen during the run.
type PeakTemperature struct {
	samples int
	peak    float64
}

func NewPeakTemperature() *PeakTemperature {
	return &PeakTemperature{}
}

func (p *PeakTemperature) Name() string { return "peak_temperature" }

func (p *PeakTemperature) Observe(_ int, t heat.Field) {
	if len(t) == 0 {
		return
	}
	if m := t.Max(); p.samples == 0 || m > p.peak {
		p.peak = m
	}
	p.samples++
}

func (p *PeakTemperature) Value() float64 { return p.peak }

func (p *PeakTemperature) Reset() {
	p.samples = 0
	p.peak = 0
}

// Default returns the metrics a run reports unless told otherwise.
func Default(mesh *heat.Mesh) []sim.Metric {
	return []sim.Metric{
		NewThermalEnergy(mesh),
		NewPeakTemperature(),
		NewMaxIncrement(),
	}
}
