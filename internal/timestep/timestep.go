// Package timestep computes the CFL-bounded global dt every step
// (spec.md §4.11): the minimum, over all real particles, of a
// sound-speed crossing time and a force/acceleration crossing time.
package timestep

import (
	"fmt"
	"math"

	"github.com/san-kum/gosph/internal/vecd"
)

// Config holds the two CFL coefficients spec.md §6 lists under
// cfl.sound / cfl.force, plus a hard ceiling so a degenerate (e.g.
// near-zero-velocity, near-zero-acceleration) start doesn't propose an
// unbounded dt.
type Config struct {
	CSound float64
	CForce float64
	Max    float64
}

// Validate enforces the construction-time invariants spec.md §7 calls
// Configuration errors.
func (c Config) Validate() error {
	if c.CSound <= 0 {
		return fmt.Errorf("timestep: CSound must be positive, got %f", c.CSound)
	}
	if c.CForce <= 0 {
		return fmt.Errorf("timestep: CForce must be positive, got %f", c.CForce)
	}
	if c.Max <= 0 {
		return fmt.Errorf("timestep: Max must be positive, got %f", c.Max)
	}
	return nil
}

// Particle is the minimal per-real-particle state the controller
// needs: smoothing length, sound speed, velocity magnitude, and
// acceleration magnitude.
type Particle struct {
	Sml   float64
	Sound float64
	Vel   vecd.Vec
	Acc   vecd.Vec
}

// Compute returns min_i min(C_sound*h_i/(c_i+|v_i|), C_force*sqrt(h_i/|a_i|))
// over every particle in ps, clamped to Config.Max (spec.md §4.11). An
// empty particle set returns Config.Max.
func Compute(ps []Particle, cfg Config) float64 {
	dt := cfg.Max
	for _, p := range ps {
		speed := p.Vel.Norm()
		denom := p.Sound + speed
		if denom > 0 {
			if cand := cfg.CSound * p.Sml / denom; cand < dt {
				dt = cand
			}
		}
		accel := p.Acc.Norm()
		if accel > 1e-300 {
			if cand := cfg.CForce * math.Sqrt(p.Sml/accel); cand < dt {
				dt = cand
			}
		}
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = cfg.Max
	}
	return dt
}
