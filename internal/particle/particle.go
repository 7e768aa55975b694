// Package particle defines the SPH particle record and the invariants
// its id/ghost-flag/index relationship must uphold (spec.md §3).
package particle

import (
	"math"

	"github.com/san-kum/gosph/internal/vecd"
)

// Particle is the per-particle state carried through a step. Its
// zero value is a valid (if physically meaningless) particle.
type Particle struct {
	ID int

	Pos, Vel, VelHalf vecd.Vec
	Acc               vecd.Vec
	DtEnergy          float64

	Mass, Dens, Pres, Ene, Sound float64
	Sml                          float64
	GradH                        float64
	Balsara                      float64
	Neighbor                     int
	IsGhost                      bool

	// AlphaVisc is the per-particle artificial-viscosity coefficient
	// (spec.md §6's artificial_viscosity.time_dependent switch). Holds a
	// constant equal to the configured Alpha when that switch is off.
	AlphaVisc float64

	// DISPH volume-element surrogate (pressure-entropy variable),
	// replaces density in the DISPH force sums. Unused by SSPH/GSPH.
	PresSmoothed float64

	// GSPH per-particle gradients, refreshed every step alongside the
	// density solve (spec.md §9 Open Questions resolution, see
	// SPEC_FULL.md §4). Unused by SSPH/DISPH.
	GradDens vecd.Vec
	GradPres vecd.Vec
	GradVel  vecd.Mat

	// GhostSource is the index, in the real array, of the particle this
	// ghost mirrors. -1 for real particles.
	GhostSource int
}

// NewReal constructs a real particle with GhostSource marked -1.
func NewReal(pos, vel vecd.Vec, mass, dens, ene float64) Particle {
	return Particle{
		Pos: pos, Vel: vel, Mass: mass, Dens: dens, Ene: ene,
		GhostSource: -1,
	}
}

// IsValid reports whether every field holding a physical quantity is
// finite and non-negative where positivity is required. Used at the
// invariant-violation boundary (spec.md §7).
func (p Particle) IsValid() bool {
	finite := func(xs ...float64) bool {
		for _, x := range xs {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
		return true
	}
	if !finite(p.Mass, p.Dens, p.Pres, p.Ene, p.Sound, p.Sml, p.GradH, p.Balsara, p.AlphaVisc, p.DtEnergy) {
		return false
	}
	for i := 0; i < 3; i++ {
		if !finite(p.Pos[i], p.Vel[i], p.Acc[i]) {
			return false
		}
	}
	return p.Mass >= 0 && p.Sml >= 0
}
