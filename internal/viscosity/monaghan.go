// Package viscosity computes the Monaghan artificial-viscosity pair
// term, the time-dependent alpha switch that decays it away from
// shocks, the Balsara shear switch that suppresses it in pure shear
// flows, and an artificial thermal conductivity term for smoothing
// internal energy across contact discontinuities (spec.md §4.10). It
// has no analog to the teacher's ad hoc viscLap/Mu term beyond the
// shape: a pairwise, relative-velocity-gated contribution added only
// when particles are approaching each other.
package viscosity

import (
	"math"

	"github.com/san-kum/gosph/internal/vecd"
)

// Config holds the Monaghan signal-velocity artificial-viscosity
// parameters (spec.md §6's artificial_viscosity block) and the
// Morris-Monaghan (1997) time-dependent switch that decays each
// particle's own Alpha toward AlphaMin between shocks and drives it
// back up toward AlphaMax under compression.
type Config struct {
	Alpha      float64
	UseBalsara bool

	// TimeDependent enables the per-particle alpha ODE (EvolveAlpha).
	// When false every particle's AlphaVisc is held fixed at Alpha.
	TimeDependent bool
	AlphaMin      float64
	AlphaMax      float64
	Epsilon       float64 // softens the mu_ij denominator: eta^2 = Epsilon*h^2
}

// DefaultConfig returns the standard literature values: alpha=1, the
// time-dependent switch off, and the eta^2=0.01*h^2 regularization.
func DefaultConfig() Config {
	return Config{
		Alpha:      1.0,
		UseBalsara: true,
		AlphaMin:   0.1,
		AlphaMax:   1.0,
		Epsilon:    0.01,
	}
}

// PairState is the subset of two particles' state the dissipation
// terms need.
type PairState struct {
	Pos, Vel  vecd.Vec
	Dens      float64
	Pres      float64
	Ene       float64
	Sound     float64
	Sml       float64
	Balsara   float64 // ignored unless Config.UseBalsara
	AlphaVisc float64 // per-particle AV coefficient, see Config.TimeDependent
}

// Pi computes Π_ij, the Monaghan signal-velocity artificial-viscosity
// pressure term contributed by a single ordered pair (spec.md §4.10).
// Callers add m_j*Pi_ij*gradW to the momentum equation and the
// matching work term to the energy equation (spec.md §4.7). Pi_ij is
// zero unless the pair is approaching (v_ij . r_ij < 0); this is the
// gate spec.md calls the "approaching-only" invariant. The dissipation
// strength is carried entirely by the pair-averaged AlphaVisc and the
// signal velocity v_sig = c_i + c_j - 3*mu_ij, rather than a second
// free (beta) coefficient.
func Pi(a, b PairState, cfg Config) float64 {
	rij := a.Pos.Sub(b.Pos)
	vij := a.Vel.Sub(b.Vel)
	vDotR := vij.Dot(rij)
	if vDotR >= 0 {
		return 0
	}

	hbar := 0.5 * (a.Sml + b.Sml)
	r2 := rij.Dot(rij)
	eps := cfg.Epsilon
	if eps == 0 {
		eps = 0.01
	}
	eta2 := eps * hbar * hbar
	muij := hbar * vDotR / (r2 + eta2)

	vsig := a.Sound + b.Sound - 3*muij
	rhobar := 0.5 * (a.Dens + b.Dens)
	alphaBar := 0.5 * (a.AlphaVisc + b.AlphaVisc)

	pi := -alphaBar * vsig * muij / rhobar

	f := 1.0
	if cfg.UseBalsara {
		f = 0.5 * (a.Balsara + b.Balsara)
	}
	return f * pi
}

// BalsaraSwitch computes f_i = |div v| / (|div v| + |curl v| + eps*c/h),
// the shear indicator that suppresses artificial viscosity in pure
// shear flows while leaving it active under compression (spec.md
// §4.10).
func BalsaraSwitch(divV, curlVNorm, sound, sml float64) float64 {
	const eps = 1e-4
	absDiv := math.Abs(divV)
	denom := absDiv + curlVNorm + eps*sound/sml
	if denom <= 0 {
		return 0
	}
	return absDiv / denom
}

// EvolveAlpha advances one particle's artificial-viscosity coefficient
// by one timestep under the Morris & Monaghan (1997) switch: alpha
// relaxes toward AlphaMin on the sound-crossing timescale tau=h/c, and
// is driven up toward AlphaMax whenever the particle is compressing
// (divV < 0). Returns cfg.Alpha when cfg.TimeDependent is false.
func EvolveAlpha(alpha, divV, sound, sml, dt float64, cfg Config) float64 {
	if !cfg.TimeDependent {
		return cfg.Alpha
	}
	if sound <= 0 || sml <= 0 {
		return alpha
	}

	source := 0.0
	if divV < 0 {
		source = -divV * (cfg.AlphaMax - alpha)
	}

	tau := sml / sound
	decay := (alpha - cfg.AlphaMin) / tau

	next := alpha + dt*(source-decay)
	if next < cfg.AlphaMin {
		next = cfg.AlphaMin
	}
	if next > cfg.AlphaMax {
		next = cfg.AlphaMax
	}
	return next
}

// ACConfig parameterizes the artificial thermal conductivity term
// (spec.md §6's artificial_conductivity block).
type ACConfig struct {
	Alpha float64
}

// Conductivity computes the Price (2008)-style artificial thermal
// conductivity contribution between a pair: it smooths specific
// internal energy across contact discontinuities using the
// pressure-based signal velocity v_sig_u = sqrt(2|P_i-P_j|/(rho_i+rho_j)),
// independent of the approaching-only gate Pi uses since conduction
// acts across contacts regardless of relative motion.
func Conductivity(a, b PairState, cfg ACConfig) float64 {
	if cfg.Alpha == 0 {
		return 0
	}
	rhoSum := a.Dens + b.Dens
	if rhoSum <= 0 {
		return 0
	}
	vsigU := math.Sqrt(2 * math.Abs(a.Pres-b.Pres) / rhoSum)
	return cfg.Alpha * vsigU * (a.Ene - b.Ene)
}
