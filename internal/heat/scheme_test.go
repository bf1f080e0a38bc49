package heat

import (
	"iter"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func plate(nodes, minStep, maxStep int) (SimulationParameter, MaterialProperty, *Mesh) {
	sp := SimulationParameter{Timestep: 1, MinimumStep: minStep, MaximumStep: maxStep}
	mp := MaterialProperty{Name: "metal_plate", Length: 10, K: 150000, Cp: 1000, Density: 1000}
	mesh, err := NewMesh(nodes, mp.Length, mp.Cp, 1000, mp.Density)
	Expect(err).NotTo(HaveOccurred())
	return sp, mp, mesh
}

func count(seq iter.Seq[Field]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}

var _ = Describe("Explicit", func() {
	It("never writes the boundary nodes", func() {
		sp, mp, mesh := plate(10, 0, 0)
		mesh.T[0], mesh.T[9] = 1000, 1100
		mesh.T[4] = 1500

		for i := 0; i < 50; i++ {
			Explicit(sp, mp, mesh)
			Expect(mesh.T[0]).To(Equal(1000.0))
			Expect(mesh.T[9]).To(Equal(1100.0))
		}
	})

	It("only moves nodes next to a boundary jump on the first pass", func() {
		sp, mp, mesh := plate(10, 0, 0)
		mesh.T[0], mesh.T[9] = 1000, 1100

		Explicit(sp, mp, mesh)

		for n := 1; n <= 7; n++ {
			Expect(mesh.T[n]).To(Equal(1000.0), "node %d", n)
		}
		Expect(mesh.T[8]).To(BeNumerically("~", 1015, 1e-9))
		Expect(mesh.Dt[8]).To(BeNumerically("~", 15, 1e-9))
	})

	It("sees the left jump at node 1 when the left end is hotter", func() {
		sp, mp, mesh := plate(10, 0, 0)
		mesh.T[0] = 1100

		Explicit(sp, mp, mesh)

		Expect(mesh.T[1]).To(BeNumerically(">", 1000))
		Expect(mesh.T[2]).To(BeNumerically(">", 1000))
	})

	It("overwrites sequentially from left to right", func() {
		sp, mp, mesh := plate(4, 0, 0)
		mesh.Dx = 1
		mesh.T = Field{100, 0, 0, 0}
		c := mesh.Fourier(sp, mp, 1)

		Explicit(sp, mp, mesh)

		t1 := c * 100
		Expect(mesh.T[1]).To(BeNumerically("~", t1, 1e-12))
		// node 2 reads the updated node 1; a Jacobi pass would leave it at 0
		Expect(mesh.T[2]).To(BeNumerically("~", c*t1, 1e-12))
		Expect(mesh.T[2]).NotTo(BeZero())
	})

	It("produces zero increments at steady state", func() {
		sp, mp, mesh := plate(10, 0, 0)
		for i := range mesh.T {
			mesh.T[i] = 1234
		}

		Explicit(sp, mp, mesh)

		for n := 1; n < 9; n++ {
			Expect(mesh.Dt[n]).To(BeZero())
			Expect(mesh.T[n]).To(Equal(1234.0))
		}
	})

	It("is a no-op on a two-node mesh", func() {
		sp, mp, mesh := plate(2, 0, 0)
		mesh.T[0], mesh.T[1] = 1, 2

		Explicit(sp, mp, mesh)

		Expect(mesh.T).To(Equal(Field{1, 2}))
		Expect(mesh.Dt).To(Equal([]float64{0, 0}))
	})

	It("reports stability against the limit", func() {
		sp, mp, mesh := plate(10, 0, 0)
		Expect(Stable(sp, mp, mesh)).To(BeTrue())

		sp.Timestep = 4
		Expect(Stable(sp, mp, mesh)).To(BeFalse())
	})
})

var _ = Describe("Dirichlet", func() {
	It("pins both ends before the first snapshot", func() {
		sp, mp, mesh := plate(10, 1, 1)
		mesh.T[0], mesh.T[9] = 0, 0

		for t := range Dirichlet(sp, mp, mesh) {
			Expect(t[0]).To(Equal(1000.0))
			Expect(t[9]).To(Equal(1100.0))
		}
	})

	DescribeTable("runs for the larger of the two bounds",
		func(min, max, want int) {
			sp, mp, mesh := plate(10, min, max)
			Expect(count(Dirichlet(sp, mp, mesh))).To(Equal(want))
		},
		Entry("minimum above maximum", 10, 5, 10),
		Entry("maximum above minimum", 10, 200, 200),
		Entry("both zero", 0, 0, 0),
		Entry("both negative", -1, -5, 0),
	)

	It("leaves the mesh untouched until pulled", func() {
		sp, mp, mesh := plate(10, 3, 3)
		seq := Dirichlet(sp, mp, mesh)
		Expect(mesh.T[9]).To(Equal(1000.0))

		count(seq)
		Expect(mesh.T[9]).To(Equal(1100.0))
	})

	It("cannot be restarted", func() {
		sp, mp, mesh := plate(10, 5, 5)
		seq := Dirichlet(sp, mp, mesh)

		Expect(count(seq)).To(Equal(5))
		Expect(count(seq)).To(BeZero())
	})

	It("stops stepping when the consumer stops", func() {
		sp, mp, mesh := plate(10, 100, 100)
		var first Field
		for t := range Dirichlet(sp, mp, mesh) {
			first = t.Clone()
			break
		}

		Expect(mesh.T).To(Equal(first))
	})

	It("yields aliases of the mesh temperature", func() {
		sp, mp, mesh := plate(10, 5, 5)

		var kept []Field
		for t := range Dirichlet(sp, mp, mesh) {
			kept = append(kept, t)
		}

		Expect(kept).To(HaveLen(5))
		for _, t := range kept {
			Expect(t).To(Equal(mesh.T))
		}
		Expect(&kept[0][0]).To(BeIdenticalTo(&mesh.T[0]))
	})

	It("keeps distinct history through Collect", func() {
		sp, mp, mesh := plate(10, 5, 5)

		history := Collect(Dirichlet(sp, mp, mesh))

		Expect(history).To(HaveLen(5))
		Expect(history[0][8]).To(BeNumerically("~", 1015, 1e-9))
		Expect(history[4]).To(Equal(mesh.T))
		Expect(history[0]).NotTo(Equal(history[4]))
	})

	It("honors custom boundary values", func() {
		sp, mp, mesh := plate(10, 1, 1)
		b := Boundary{Left: 20, Right: 80}

		history := Collect(DirichletWith(sp, mp, mesh, b))

		Expect(history[0][0]).To(Equal(20.0))
		Expect(history[0][9]).To(Equal(80.0))
	})
})

var _ = Describe("Neumann", func() {
	It("applies the flux correction before the first snapshot", func() {
		sp, mp, mesh := plate(10, 3, 3)
		mesh.SetFourier(sp, mp)

		next, stop := iter.Pull(Neumann(sp, mp, mesh))
		defer stop()

		t, ok := next()
		Expect(ok).To(BeTrue())
		Expect(mesh.Q[9]).To(Equal(-1e6))
		// 2*F0*(1000-1000) - 2*1*(-1e6)/(1000*1000*1)
		Expect(mesh.Dt[9]).To(BeNumerically("~", 2, 1e-12))
		Expect(t[9]).To(BeNumerically("~", 1002, 1e-9))
	})

	It("applies the correction exactly once", func() {
		sp, mp, mesh := plate(10, 25, 25)
		mesh.SetFourier(sp, mp)

		steps := 0
		var corrected float64
		for t := range Neumann(sp, mp, mesh) {
			steps++
			if steps == 1 {
				corrected = t[9]
				mesh.Q[9] = 0
				continue
			}
			Expect(mesh.Q[9]).To(BeZero())
			Expect(t[9]).To(Equal(corrected))
		}
		Expect(steps).To(Equal(25))
	})

	It("never writes the left boundary", func() {
		sp, mp, mesh := plate(10, 50, 50)
		mesh.SetFourier(sp, mp)
		mesh.T[0] = 900

		for t := range Neumann(sp, mp, mesh) {
			Expect(t[0]).To(Equal(900.0))
		}
	})

	It("uses F0 as given by the caller", func() {
		sp, mp, mesh := plate(10, 1, 1)
		mesh.T[8] = 1100

		count(Neumann(sp, mp, mesh))

		// F0 is still zero, so only the flux term contributes
		Expect(mesh.Dt[9]).To(BeNumerically("~", 2, 1e-12))
		Expect(mesh.F0).To(BeZero())
	})

	It("takes the flux from the boundary", func() {
		sp, mp, mesh := plate(10, 0, 0)
		mesh.SetFourier(sp, mp)

		count(NeumannWith(sp, mp, mesh, Boundary{Flux: 5e5}))

		Expect(mesh.Q[9]).To(Equal(5e5))
		Expect(mesh.T[9]).To(BeNumerically("~", 999, 1e-9))
	})

	It("yields nothing but still corrects when no steps are requested", func() {
		sp, mp, mesh := plate(10, 0, 0)
		mesh.SetFourier(sp, mp)

		Expect(count(Neumann(sp, mp, mesh))).To(BeZero())
		Expect(mesh.T[9]).To(BeNumerically("~", 1002, 1e-9))
	})
})
