package heat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultTimestep    = 1.0
	DefaultMinimumStep = 10
	DefaultMaximumStep = 100

	DefaultLength  = 10.0
	DefaultK       = 1e5
	DefaultCp      = 1000.0
	DefaultDensity = 1000.0
)

type SimulationParameter struct {
	Timestep    float64
	MinimumStep int
	MaximumStep int
}

func DefaultSimulationParameter() SimulationParameter {
	return SimulationParameter{
		Timestep:    DefaultTimestep,
		MinimumStep: DefaultMinimumStep,
		MaximumStep: DefaultMaximumStep,
	}
}

// Steps is the number of iterations a driver performs. The loop condition is
// "i <= MinimumStep || i <= MaximumStep", so the larger bound wins.
func (sp SimulationParameter) Steps() int {
	n := sp.MinimumStep
	if sp.MaximumStep > n {
		n = sp.MaximumStep
	}
	if n < 0 {
		return 0
	}
	return n
}

func (sp SimulationParameter) running(i int) bool {
	return i <= sp.MinimumStep || i <= sp.MaximumStep
}

func (sp SimulationParameter) Validate() error {
	if !(sp.Timestep > 0) || math.IsInf(sp.Timestep, 0) {
		return invalid("timestep must be positive, got %g", sp.Timestep)
	}
	return nil
}

type MaterialProperty struct {
	Name    string
	Length  float64
	K       float64
	Cp      float64
	Density float64
}

func DefaultMaterialProperty(name string) MaterialProperty {
	return MaterialProperty{
		Name:    name,
		Length:  DefaultLength,
		K:       DefaultK,
		Cp:      DefaultCp,
		Density: DefaultDensity,
	}
}

func (mp MaterialProperty) String() string {
	return fmt.Sprintf("%s property:\n length = %v\n k = %v", mp.Name, mp.Length, mp.K)
}

func (mp MaterialProperty) Validate() error {
	switch {
	case !(mp.Length > 0):
		return invalid("length must be positive, got %g", mp.Length)
	case !(mp.K > 0):
		return invalid("conductivity must be positive, got %g", mp.K)
	case !(mp.Cp > 0):
		return invalid("specific heat must be positive, got %g", mp.Cp)
	case !(mp.Density > 0):
		return invalid("density must be positive, got %g", mp.Density)
	}
	return nil
}

// Boundary holds the values the drivers impose: Left and Right temperatures
// for Dirichlet runs, and the outward heat flux at the last node for Neumann
// runs.
type Boundary struct {
	Left  float64
	Right float64
	Flux  float64
}

func DefaultBoundary() Boundary {
	return Boundary{Left: 1000, Right: 1100, Flux: -1e6}
}

// Field is a temperature profile, one value per node.
type Field []float64

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

func (f Field) IsValid() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (f Field) Min() float64 {
	if len(f) == 0 {
		return 0
	}
	return floats.Min(f)
}

func (f Field) Max() float64 {
	if len(f) == 0 {
		return 0
	}
	return floats.Max(f)
}
