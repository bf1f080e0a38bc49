package sim

import (
	"context"
	"iter"

	"github.com/san-kum/heatrod/internal/heat"
)

// Simulator pulls snapshots from a boundary driver and hands them to
// observers and metrics. It drains its sequence once.
type Simulator struct {
	seq       iter.Seq[heat.Field]
	metrics   []Metric
	observers []Observer
}

func New(seq iter.Seq[heat.Field]) *Simulator {
	return &Simulator{
		seq:       seq,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	result := &Result{
		Snapshots: make([]heat.Field, 0),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	err := s.RunWithCallback(ctx, func(step int, t heat.Field) bool {
		if cfg.ValidateState && !t.IsValid() {
			result.Errors = append(result.Errors, heat.SimError{Step: step, Message: "invalid temperature (NaN/Inf)"})
			return false
		}

		for _, m := range s.metrics {
			m.Observe(step, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(step, t)
		}

		result.StepsTaken = step
		if cfg.KeepHistory {
			result.Snapshots = append(result.Snapshots, t.Clone())
		}
		result.Final = t
		return true
	})

	if result.Final != nil {
		result.Final = result.Final.Clone()
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

// RunWithCallback calls fn with every snapshot, numbering steps from 1. The
// field passed to fn is the mesh's own storage; fn must copy it to keep it.
func (s *Simulator) RunWithCallback(ctx context.Context, fn func(step int, t heat.Field) bool) error {
	// Pulling the first snapshot already mutates the mesh.
	if err := ctx.Err(); err != nil {
		return err
	}
	step := 0
	for t := range s.seq {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		step++
		if !fn(step, t) {
			return nil
		}
	}
	return nil
}
