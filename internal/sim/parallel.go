package sim

import (
	"context"
	"iter"
	"sync"

	"github.com/san-kum/heatrod/internal/heat"
)

// Ensemble runs independent simulations side by side. Each sequence must
// own its mesh; metrics come from a factory so no run shares state.
type Ensemble struct {
	seqs    []iter.Seq[heat.Field]
	metrics func() []Metric
}

func NewEnsemble(seqs []iter.Seq[heat.Field], metrics func() []Metric) *Ensemble {
	return &Ensemble{seqs: seqs, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.seqs))
	errs := make([]error, len(e.seqs))

	var wg sync.WaitGroup
	for i, seq := range e.seqs {
		wg.Add(1)
		go func(idx int, seq iter.Seq[heat.Field]) {
			defer wg.Done()

			s := New(seq)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, seq)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
