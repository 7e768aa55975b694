package force

import (
	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/vecd"
	"github.com/san-kum/gosph/internal/viscosity"
)

// maxNeighborCandidates bounds a single force-pass tree query.
const maxNeighborCandidates = 512

// SSPHConfig parameterizes standard grad-h SPH (spec.md §4.7).
type SSPHConfig struct {
	Gamma    float64
	AV       viscosity.Config
	AC       viscosity.ACConfig
	UseGradH bool // apply the Omega grad-h correction the density solver produced
}

// SSPH is standard symmetric SPH with Monaghan artificial viscosity.
// Grounded on the symmetric-pressure-force shape of
// internal/physics/sph.go's force loop, generalized to 1/2/3D and the
// grad-h correction spec.md §9's Open Question resolves to "symmetric
// form": both particles' own gradW(h_i)/gradW(h_j) contribute their
// own term rather than averaging a single shared gradient.
type SSPH struct {
	Cfg SSPHConfig
}

func (s SSPH) Compute(coord *coordinator.Coordinator, krn kernel.Kernel, dim int, dt float64) (Output, error) {
	nReal := coord.NReal()
	out := newOutput(nReal)

	for i := 0; i < nReal; i++ {
		accel, dtEne, err := s.ComputeAt(coord, krn, dim, i, dt)
		if err != nil {
			return Output{}, err
		}
		out.Accel[i] = accel
		out.DtEnergy[i] = dtEne
	}

	return out, nil
}

// ComputeAt computes real particle i's acceleration and energy rate in
// isolation, reading only the read-only combined buffer and tree and
// writing nothing but its own return value — the independence
// internal/engine's errgroup-parallel force phase relies on (spec.md
// §5). Compute is a thin serial loop over this method. dt is unused
// here (SSPH's dissipation carries no time-correction term) but is
// part of the Scheme/ParallelCompute contract GSPH's MUSCL
// reconstruction needs.
func (s SSPH) ComputeAt(coord *coordinator.Coordinator, krn kernel.Kernel, dim, i int, dt float64) (vecd.Vec, float64, error) {
	{
		pi := coord.Particle(i)
		presI := IdealGasPressure(pi.Dens, pi.Ene, s.Cfg.Gamma)
		omegaI := 1.0
		if s.Cfg.UseGradH {
			omegaI = pi.GradH
		}

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

			presJ := IdealGasPressure(pj.Dens, pj.Ene, s.Cfg.Gamma)
			omegaJ := 1.0
			if s.Cfg.UseGradH {
				omegaJ = pj.GradH
			}

			gradWi := krn.GradW(rij, r, pi.Sml)
			gradWj := krn.GradW(rij, r, pj.Sml)

			termI := presI / (omegaI * pi.Dens * pi.Dens)
			termJ := presJ / (omegaJ * pj.Dens * pj.Dens)

			pressureAccel := gradWi.Scale(termI).Add(gradWj.Scale(termJ))

			stateI := viscosity.PairState{
				Pos: pi.Pos, Vel: pi.Vel, Dens: pi.Dens, Pres: presI, Ene: pi.Ene,
				Sound: pi.Sound, Sml: pi.Sml, Balsara: pi.Balsara, AlphaVisc: pi.AlphaVisc,
			}
			stateJ := viscosity.PairState{
				Pos: pj.Pos, Vel: pj.Vel, Dens: pj.Dens, Pres: presJ, Ene: pj.Ene,
				Sound: pj.Sound, Sml: pj.Sml, Balsara: pj.Balsara, AlphaVisc: pj.AlphaVisc,
			}

			avPi := 0.0
			if pj.Dens > 0 && pi.Dens > 0 {
				avPi = viscosity.Pi(stateI, stateJ, s.Cfg.AV)
			}
			gradWbar := gradWi.Add(gradWj).Scale(0.5)
			avAccel := gradWbar.Scale(avPi)

			accel = accel.Sub(pressureAccel.Add(avAccel).Scale(pj.Mass))

			vij := pi.Vel.Sub(pj.Vel)
			dtEne += pj.Mass * termI * vij.Dot(gradWi)
			dtEne += 0.5 * pj.Mass * avPi * vij.Dot(gradWbar)

			cond := viscosity.Conductivity(stateI, stateJ, s.Cfg.AC)
			dtEne += pj.Mass / (0.5 * (pi.Dens + pj.Dens)) * cond * gradWbar.Dot(rij) / r
		}

		return accel, dtEne, nil
	}
}
