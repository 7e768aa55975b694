package force

import (
	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/vecd"
	"github.com/san-kum/gosph/internal/viscosity"
)

// DISPHConfig parameterizes density-independent SPH (spec.md §4.7):
// the pressure-entropy formulation that replaces each particle's
// density-derived pressure with a directly kernel-summed "smoothed
// pressure," sharpening contact discontinuities.
type DISPHConfig struct {
	Gamma float64
	AV    viscosity.Config
	AC    viscosity.ACConfig
}

// DISPH implements Saitoh & Makino's density-independent SPH. Grounded
// on the same internal/physics/sph.go Derive two-pass shape as SSPH
// (a summation pass, then a force pass), but the summation pass
// computes PresSmoothed instead of density.
type DISPH struct {
	Cfg DISPHConfig
}

// dt is unused here (DISPH's dissipation carries no time-correction
// term) but is part of the Scheme contract GSPH's MUSCL reconstruction
// needs.
func (d DISPH) Compute(coord *coordinator.Coordinator, krn kernel.Kernel, dim int, dt float64) (Output, error) {
	nReal := coord.NReal()
	nTotal := coord.GetSearchParticleCount()
	out := newOutput(nReal)

	presTilde := make([]float64, nTotal)
	for i := 0; i < nReal; i++ {
		pi := coord.Particle(i)
		radius := krn.SupportRadius(pi.Sml)
		qr := coord.Tree().Query(pi.Pos, radius, maxNeighborCandidates)

		sum := 0.0
		for _, j := range qr.Indices {
			pj := coord.Particle(j)
			r := pi.Pos.Sub(pj.Pos).Norm()
			sum += (d.Cfg.Gamma - 1) * pj.Mass * pj.Ene * krn.W(r, pi.Sml)
		}
		presTilde[i] = sum
	}
	for j := nReal; j < nTotal; j++ {
		src := coord.Particle(j).GhostSource
		if src >= 0 && src < nReal {
			presTilde[j] = presTilde[src]
		}
	}

	gm1sq := (d.Cfg.Gamma - 1) * (d.Cfg.Gamma - 1)

	for i := 0; i < nReal; i++ {
		pi := coord.Particle(i)
		if presTilde[i] <= 0 {
			continue
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
			if presTilde[j] <= 0 {
				continue
			}
			rij := pi.Pos.Sub(pj.Pos)
			r := rij.Norm()
			if r < 1e-12 {
				continue
			}

			gradWi := krn.GradW(rij, r, pi.Sml)
			gradWj := krn.GradW(rij, r, pj.Sml)

			weight := gm1sq * pi.Ene * pj.Ene
			pressureAccel := gradWi.Scale(weight / presTilde[i]).Add(gradWj.Scale(weight / presTilde[j]))

			stateI := viscosity.PairState{
				Pos: pi.Pos, Vel: pi.Vel, Dens: pi.Dens, Pres: presTilde[i], Ene: pi.Ene,
				Sound: pi.Sound, Sml: pi.Sml, Balsara: pi.Balsara, AlphaVisc: pi.AlphaVisc,
			}
			stateJ := viscosity.PairState{
				Pos: pj.Pos, Vel: pj.Vel, Dens: pj.Dens, Pres: presTilde[j], Ene: pj.Ene,
				Sound: pj.Sound, Sml: pj.Sml, Balsara: pj.Balsara, AlphaVisc: pj.AlphaVisc,
			}

			avPi := 0.0
			if pj.Dens > 0 && pi.Dens > 0 {
				avPi = viscosity.Pi(stateI, stateJ, d.Cfg.AV)
			}
			gradWbar := gradWi.Add(gradWj).Scale(0.5)
			avAccel := gradWbar.Scale(avPi)

			accel = accel.Sub(pressureAccel.Add(avAccel).Scale(pj.Mass))

			vij := pi.Vel.Sub(pj.Vel)
			dtEne += gm1sq * pi.Ene * pj.Mass * pj.Ene / presTilde[i] * vij.Dot(gradWi)
			dtEne += 0.5 * pj.Mass * avPi * vij.Dot(gradWbar)

			cond := viscosity.Conductivity(stateI, stateJ, d.Cfg.AC)
			dtEne += pj.Mass / (0.5 * (pi.Dens + pj.Dens)) * cond * gradWbar.Dot(rij) / r
		}

		out.Accel[i] = accel
		out.DtEnergy[i] = dtEne
	}

	return out, nil
}
