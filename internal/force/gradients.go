package force

import (
	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/vecd"
)

// ParticleGradients holds the per-real-particle density/pressure/
// velocity gradients spec.md §3's data model lists for GSPH
// reconstruction, recomputed every step immediately after the density
// solve, in a neighbor pass of their own that follows the one producing
// grad-h (spec.md §9's stated resolution to the gradient-refresh-cadence
// Open Question).
// internal/engine also uses GradVel's divergence/curl every step,
// regardless of scheme, to drive the Balsara switch (spec.md §4.10).
type ParticleGradients struct {
	Dens []vecd.Vec
	Pres []vecd.Vec
	Vel  []vecd.Mat
}

// ComputeGradients estimates grad(rho), grad(P), and grad(v) for every
// real particle via the standard SPH gradient-of-a-field sum
// ∇f_i = Σ_j (m_j/ρ_j)(f_j-f_i) ∇_iW_ij, reusing vecd.Mat.AddOuter for
// the velocity case's rank-1 tensor accumulation.
func ComputeGradients(coord *coordinator.Coordinator, krn kernel.Kernel, gamma float64) ParticleGradients {
	nReal := coord.NReal()
	out := ParticleGradients{
		Dens: make([]vecd.Vec, nReal),
		Pres: make([]vecd.Vec, nReal),
		Vel:  make([]vecd.Mat, nReal),
	}

	for i := 0; i < nReal; i++ {
		pi := coord.Particle(i)
		presI := IdealGasPressure(pi.Dens, pi.Ene, gamma)
		radius := krn.SupportRadius(pi.Sml)
		qr := coord.Tree().Query(pi.Pos, radius, maxNeighborCandidates)

		var gradDens, gradPres vecd.Vec
		var gradVel vecd.Mat

		for _, j := range qr.Indices {
			if j == i {
				continue
			}
			pj := coord.Particle(j)
			if pj.Dens <= 0 {
				continue
			}
			rij := pi.Pos.Sub(pj.Pos)
			r := rij.Norm()
			if r < 1e-12 {
				continue
			}
			presJ := IdealGasPressure(pj.Dens, pj.Ene, gamma)
			gradWi := krn.GradW(rij, r, pi.Sml)
			factor := pj.Mass / pj.Dens

			gradDens = gradDens.Add(gradWi.Scale(factor * (pj.Dens - pi.Dens)))
			gradPres = gradPres.Add(gradWi.Scale(factor * (presJ - presI)))

			dv := pj.Vel.Sub(pi.Vel)
			gradVel.AddOuter(dv, gradWi, factor)
		}

		out.Dens[i] = gradDens
		out.Pres[i] = gradPres
		out.Vel[i] = gradVel
	}

	return out
}
