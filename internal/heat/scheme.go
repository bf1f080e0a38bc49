package heat

import "iter"

// StabilityLimit is the largest coefficient k*dt/(dx^2*rho*cp) for which the
// explicit scheme stays bounded.
const StabilityLimit = 0.5

// Explicit advances the interior nodes 1..Nodes-2 by one step. Nodes are
// updated in increasing order and in place, so node n sees the new value of
// n-1 and the old value of n+1. Boundary nodes are never written.
func Explicit(sp SimulationParameter, mp MaterialProperty, mesh *Mesh) {
	t := mesh.T
	for n := 1; n < mesh.Nodes-1; n++ {
		mesh.Dt[n] = mesh.Fourier(sp, mp, n) * (t[n-1] - 2*t[n] + t[n+1])
		t[n] += mesh.Dt[n]
	}
}

// Stable reports whether every interior coefficient is within StabilityLimit.
func Stable(sp SimulationParameter, mp MaterialProperty, mesh *Mesh) bool {
	for n := 1; n < mesh.Nodes-1; n++ {
		if mesh.Fourier(sp, mp, n) > StabilityLimit {
			return false
		}
	}
	return true
}

// Dirichlet runs with fixed end temperatures 1000 and 1100.
func Dirichlet(sp SimulationParameter, mp MaterialProperty, mesh *Mesh) iter.Seq[Field] {
	return DirichletWith(sp, mp, mesh, DefaultBoundary())
}

// DirichletWith pins T[0] to b.Left and T[last] to b.Right on the first pull,
// then yields mesh.T after every Explicit pass. The sequence can be ranged
// over once; later ranges yield nothing.
func DirichletWith(sp SimulationParameter, mp MaterialProperty, mesh *Mesh, b Boundary) iter.Seq[Field] {
	return once(func(yield func(Field) bool) {
		mesh.T[0] = b.Left
		mesh.T[mesh.Last()] = b.Right
		march(sp, mp, mesh, yield)
	})
}

// Neumann runs with an outward flux of 1e6 at the last node.
func Neumann(sp SimulationParameter, mp MaterialProperty, mesh *Mesh) iter.Seq[Field] {
	return NeumannWith(sp, mp, mesh, DefaultBoundary())
}

// NeumannWith applies a ghost-node flux correction to the last node once,
// before the first step, then marches like DirichletWith. mesh.F0 must be set
// by the caller. T[0] is never written and keeps its initial value.
func NeumannWith(sp SimulationParameter, mp MaterialProperty, mesh *Mesh, b Boundary) iter.Seq[Field] {
	return once(func(yield func(Field) bool) {
		last := mesh.Last()
		mesh.Q[last] = b.Flux
		mesh.Dt[last] = 2*mesh.F0*(mesh.T[last-1]-mesh.T[last]) -
			2*sp.Timestep*mesh.Q[last]/(mp.Density*mp.Cp*mesh.Dx)
		mesh.T[last] += mesh.Dt[last]
		march(sp, mp, mesh, yield)
	})
}

func march(sp SimulationParameter, mp MaterialProperty, mesh *Mesh, yield func(Field) bool) {
	for i := 1; sp.running(i); i++ {
		Explicit(sp, mp, mesh)
		if !yield(mesh.T) {
			return
		}
	}
}

func once(seq iter.Seq[Field]) iter.Seq[Field] {
	used := false
	return func(yield func(Field) bool) {
		if used {
			return
		}
		used = true
		seq(yield)
	}
}

// Collect drains seq and returns a copy of every snapshot.
func Collect(seq iter.Seq[Field]) []Field {
	var out []Field
	for f := range seq {
		out = append(out, f.Clone())
	}
	return out
}
