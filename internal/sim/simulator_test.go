package sim

import (
	"context"
	"iter"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatrod/internal/heat"
)

type testMetric struct {
	count int
	last  int
}

func (m *testMetric) Name() string                   { return "test" }
func (m *testMetric) Observe(step int, _ heat.Field) { m.count++; m.last = step }
func (m *testMetric) Value() float64                 { return float64(m.count) }
func (m *testMetric) Reset()                         { m.count = 0 }

type recorder struct {
	steps []int
}

func (r *recorder) OnStep(step int, _ heat.Field) { r.steps = append(r.steps, step) }

func plateRun(steps int) (iter.Seq[heat.Field], *heat.Mesh) {
	sp := heat.SimulationParameter{Timestep: 1, MinimumStep: steps, MaximumStep: steps}
	mp := heat.MaterialProperty{Name: "metal_plate", Length: 10, K: 150000, Cp: 1000, Density: 1000}
	mesh, err := heat.NewMesh(10, mp.Length, mp.Cp, 1000, mp.Density)
	Expect(err).NotTo(HaveOccurred())
	return heat.Dirichlet(sp, mp, mesh), mesh
}

func fixed(fields ...heat.Field) iter.Seq[heat.Field] {
	return func(yield func(heat.Field) bool) {
		for _, f := range fields {
			if !yield(f) {
				return
			}
		}
	}
}

var _ = Describe("Simulator", func() {
	It("collects independent snapshots", func() {
		seq, mesh := plateRun(10)
		s := New(seq)

		result, err := s.Run(context.Background(), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		Expect(result.StepsTaken).To(Equal(10))
		Expect(result.Snapshots).To(HaveLen(10))
		Expect(result.Final).To(Equal(mesh.T))
		Expect(result.Snapshots[0]).NotTo(Equal(result.Snapshots[9]))
		Expect(result.Errors).To(BeEmpty())
	})

	It("returns an empty result for an empty sequence", func() {
		seq, _ := plateRun(0)

		result, err := New(seq).Run(context.Background(), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(BeZero())
		Expect(result.Snapshots).To(BeEmpty())
		Expect(result.Final).To(BeNil())
	})

	It("feeds observers and metrics every step", func() {
		seq, _ := plateRun(7)
		s := New(seq)
		metric := &testMetric{}
		obs := &recorder{}
		s.AddMetric(metric)
		s.AddObserver(obs)

		result, err := s.Run(context.Background(), Config{})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Metrics).To(HaveKeyWithValue("test", 7.0))
		Expect(metric.last).To(Equal(7))
		Expect(obs.steps).To(Equal([]int{1, 2, 3, 4, 5, 6, 7}))
		Expect(result.Snapshots).To(BeEmpty())
	})

	It("stops on a cancelled context", func() {
		seq, _ := plateRun(100)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := New(seq).Run(ctx, DefaultConfig())
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsTaken).To(BeZero())
	})

	It("leaves the mesh untouched on a cancelled context", func() {
		seq, mesh := plateRun(100)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := New(seq).RunWithCallback(ctx, func(int, heat.Field) bool { return true })
		Expect(err).To(MatchError(context.Canceled))
		Expect(mesh.T[9]).To(Equal(1000.0))
		Expect(mesh.T[8]).To(Equal(1000.0))
	})

	It("records invalid temperatures and stops", func() {
		seq := fixed(heat.Field{1, 2}, heat.Field{1, math.NaN()}, heat.Field{3, 4})

		result, err := New(seq).Run(context.Background(), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(1))
		Expect(result.Errors).To(HaveLen(1))

		var simErr heat.SimError
		Expect(result.Errors[0]).To(BeAssignableToTypeOf(simErr))
		Expect(result.Errors[0].Error()).To(Equal("step 2: invalid temperature (NaN/Inf)"))
	})

	It("streams until the callback declines", func() {
		seq, _ := plateRun(50)
		seen := 0

		err := New(seq).RunWithCallback(context.Background(), func(step int, _ heat.Field) bool {
			seen = step
			return step < 5
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal(5))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs every sequence on its own mesh", func() {
		a, meshA := plateRun(5)
		b, meshB := plateRun(20)

		results, err := NewEnsemble([]iter.Seq[heat.Field]{a, b}, func() []Metric {
			return []Metric{&testMetric{}}
		}).Run(context.Background(), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())

		Expect(results).To(HaveLen(2))
		Expect(results[0].StepsTaken).To(Equal(5))
		Expect(results[1].StepsTaken).To(Equal(20))
		Expect(results[0].Metrics["test"]).To(Equal(5.0))
		Expect(results[0].Final).To(Equal(meshA.T))
		Expect(results[1].Final).To(Equal(meshB.T))
	})
})

var _ = Describe("SnapshotPool", func() {
	It("hands out zeroed fields of the mesh size", func() {
		pool := NewSnapshotPool(4)

		f := pool.Get()
		Expect(f).To(HaveLen(4))
		f[0] = 1
		pool.Put(f)

		Expect(pool.Get()).To(Equal(heat.Field{0, 0, 0, 0}))
	})

	It("copies without aliasing the source", func() {
		pool := NewSnapshotPool(3)
		src := heat.Field{1, 2, 3}

		dst := pool.GetAndCopy(src)
		dst[0] = 99
		Expect(src[0]).To(Equal(1.0))
	})
})
