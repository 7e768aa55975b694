package force

import (
	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/limiter"
	"github.com/san-kum/gosph/internal/particle"
	"github.com/san-kum/gosph/internal/riemann"
	"github.com/san-kum/gosph/internal/vecd"
)

// GSPHConfig parameterizes Godunov SPH (spec.md §4.7). It carries no
// artificial-viscosity field: the HLL solve at each pair already
// supplies the dissipation a grid Godunov scheme gets from its Riemann
// solver, so nothing here can enable Monaghan AV alongside it
// (spec.md §9's AV+GSPH misconfiguration, prevented structurally by
// this type never having the field to misconfigure).
type GSPHConfig struct {
	Gamma    float64
	UseMUSCL bool // linear reconstruction via the Van Leer limiter before the Riemann solve
}

// GSPH implements Inutsuka's Godunov SPH: a 1D Riemann problem solved
// along each pair's separation direction, with the resulting star
// pressure and velocity driving the momentum and energy equations
// directly. Grounded on internal/physics/sph.go's Derive force-pass
// shape; the physics is new (no Riemann solver existed in the pack).
type GSPH struct {
	Cfg GSPHConfig
}

func (g GSPH) Compute(coord *coordinator.Coordinator, krn kernel.Kernel, dim int, dt float64) (Output, error) {
	nReal := coord.NReal()
	out := newOutput(nReal)

	for i := 0; i < nReal; i++ {
		accel, dtEne, err := g.ComputeAt(coord, krn, dim, i, dt)
		if err != nil {
			return Output{}, err
		}
		out.Accel[i] = accel
		out.DtEnergy[i] = dtEne
	}

	return out, nil
}

// ComputeAt computes real particle i's acceleration and energy rate in
// isolation (no cross-particle pre-pass — GSPH's Riemann solve is
// entirely pairwise), the independence internal/engine's
// errgroup-parallel force phase relies on (spec.md §5). dt drives
// reconstruct's time-correction factor (spec.md §4.7c).
func (g GSPH) ComputeAt(coord *coordinator.Coordinator, krn kernel.Kernel, dim, i int, dt float64) (vecd.Vec, float64, error) {
	{
		pi := coord.Particle(i)
		radius := krn.SupportRadius(pi.Sml)
		qr := coord.Tree().Query(pi.Pos, radius, maxNeighborCandidates)

		var accel vecd.Vec
		var dtEne float64

		for _, j := range qr.Indices {
			if j == i {
				continue
			}
			pj := coord.Particle(j)
			rij := pi.Pos.Sub(pj.Pos)
			r := rij.Norm()
			if r < 1e-12 {
				continue
			}
			n := rij.Scale(1.0 / r)

			left, right := g.reconstruct(pi, pj, n, r, dt)

			star, err := riemann.Solve(left, right)
			if err != nil {
				return vecd.Zero(), 0, err
			}

			gradWi := krn.GradW(rij, r, pi.Sml)
			gradWj := krn.GradW(rij, r, pj.Sml)
			gradWbar := gradWi.Add(gradWj).Scale(0.5)

			invRho2Sum := 1.0/(pi.Dens*pi.Dens) + 1.0/(pj.Dens*pj.Dens)
			accel = accel.Sub(gradWbar.Scale(pj.Mass * star.Pres * invRho2Sum))

			vAvg := pi.Vel.Add(pj.Vel).Scale(0.5)
			vAvgNormal := vAvg.Dot(n)
			vStar := vAvg.Sub(n.Scale(vAvgNormal)).Add(n.Scale(star.VNorm))

			relative := pi.Vel.Sub(vStar)
			dtEne += pj.Mass * star.Pres / (pi.Dens * pi.Dens) * relative.Dot(gradWbar)
		}

		return accel, dtEne, nil
	}
}

// reconstruct builds the left (i-side) and right (j-side) Riemann
// states along n, the unit vector from j to i. Without MUSCL, each
// side is simply the particle's own cell-centered state. With MUSCL,
// spec.md §4.9's Van Leer limiter is applied to the particle's own
// stored gradients projected onto n, extrapolated toward the interface
// by spec.md §4.7c's time-corrected distance delta*r, where
// delta = 1/2*(1 - c*dt/r_ij) replaces the naive half-separation
// extrapolation with one that accounts for how far a signal travels
// during dt.
func (g GSPH) reconstruct(pi, pj particle.Particle, n vecd.Vec, r, dt float64) (riemann.State, riemann.State) {
	presI := IdealGasPressure(pi.Dens, pi.Ene, g.Cfg.Gamma)
	presJ := IdealGasPressure(pj.Dens, pj.Ene, g.Cfg.Gamma)

	left := riemann.State{
		Dens:  pi.Dens,
		Pres:  presI,
		VNorm: pi.Vel.Dot(n),
		Sound: pi.Sound,
	}
	right := riemann.State{
		Dens:  pj.Dens,
		Pres:  presJ,
		VNorm: pj.Vel.Dot(n),
		Sound: pj.Sound,
	}
	if !g.Cfg.UseMUSCL {
		return left, right
	}

	deltaI := 0.5 * (1 - pi.Sound*dt/r)
	deltaJ := 0.5 * (1 - pj.Sound*dt/r)
	if deltaI < 0 {
		deltaI = 0
	}
	if deltaJ < 0 {
		deltaJ = 0
	}
	distI := deltaI * r
	distJ := deltaJ * r

	localI := -pi.GradPres.Dot(n)
	localJ := pj.GradPres.Dot(n)
	upwindI := (presJ - presI) / r
	upwindJ := (presI - presJ) / r

	left.Pres = limiter.Reconstruct(presI, localI*distI, upwindI*distI)
	right.Pres = limiter.Reconstruct(presJ, localJ*distJ, upwindJ*distJ)
	if left.Pres < 0 {
		left.Pres = presI
	}
	if right.Pres < 0 {
		right.Pres = presJ
	}
	return left, right
}
