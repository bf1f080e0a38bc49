// Package heat integrates the 1-D transient heat conduction equation with an
// explicit finite-difference scheme.
//
// The package is built around three values and a handful of functions:
//
//   - [SimulationParameter]: time step and iteration bounds
//   - [MaterialProperty]: conductivity, specific heat, density, length
//   - [Mesh]: per-node state mutated in place by the scheme
//   - [Explicit]: one interior update pass
//   - [Dirichlet], [Neumann]: boundary drivers producing snapshot sequences
//
// # Example
//
//	sp := heat.SimulationParameter{Timestep: 1, MinimumStep: 10, MaximumStep: 200}
//	mp := heat.MaterialProperty{Name: "metal_plate", Length: 10, K: 150000, Cp: 1000, Density: 1000}
//	mesh, err := heat.NewMesh(10, mp.Length, mp.Cp, 1000, mp.Density)
//	if err != nil {
//	    return err
//	}
//	for t := range heat.Dirichlet(sp, mp, mesh) {
//	    render(t)
//	}
//
// # Aliasing
//
// Drivers yield mesh.T itself, not a copy. The slice is overwritten by the
// next step, so a consumer that keeps snapshots must call [Field.Clone].
//
// # Stability
//
// The explicit scheme diverges when k*dt/(dx^2*rho*cp) exceeds
// [StabilityLimit]. Nothing here enforces it; see [Stable].
package heat
