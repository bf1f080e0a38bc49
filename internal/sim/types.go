package sim

import "github.com/san-kum/heatrod/internal/heat"

type Metric interface {
	Name() string
	Observe(step int, t heat.Field)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, t heat.Field)
}

type Config struct {
	// KeepHistory stores a copy of every snapshot in Result.Snapshots.
	KeepHistory bool
	// ValidateState stops the run at the first snapshot holding NaN or Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		KeepHistory:   true,
		ValidateState: true,
	}
}

type Result struct {
	Snapshots  []heat.Field
	Final      heat.Field
	StepsTaken int
	Metrics    map[string]float64
	Errors     []error
}
