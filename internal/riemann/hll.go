// Package riemann implements the HLL approximate Riemann solver GSPH
// uses along each interacting pair's separation direction (spec.md
// §4.8). Unlike a grid code's HLL, which returns a flux, this solver
// returns the star-region pressure and normal velocity directly —
// Inutsuka's Godunov-SPH formulation uses P*/v* as pairwise force
// inputs, not a flux divergence.
package riemann

import (
	"fmt"
	"math"
)

// State is one side of the 1D Riemann problem along the pair's
// separation direction: density, pressure, normal velocity component,
// and sound speed.
type State struct {
	Dens  float64
	Pres  float64
	VNorm float64
	Sound float64
}

// Validate rejects non-physical input states (spec.md §7's
// Configuration/runtime validation boundary and §4.8 point 4: "input
// validation: non-positive density, pressure, or sound speed is an
// error"). A particle whose kernel-summed density reaches zero (no
// real neighbors within its support) is a caller-side invariant
// violation, not a state this solver degenerates through: the
// vacuum_formation scenario (spec.md §8) never feeds the solver zero
// states — it opens an interior low-density region through ordinary
// diverging-velocity dynamics, with every pairwise Riemann problem
// still solved between two positive-density, positive-pressure sides.
func (s State) Validate() error {
	if s.Dens <= 0 {
		return fmt.Errorf("riemann: non-positive density %f", s.Dens)
	}
	if s.Pres <= 0 {
		return fmt.Errorf("riemann: non-positive pressure %f", s.Pres)
	}
	if s.Sound <= 0 {
		return fmt.Errorf("riemann: non-positive sound speed %f", s.Sound)
	}
	if math.IsNaN(s.VNorm) || math.IsInf(s.VNorm, 0) {
		return fmt.Errorf("riemann: non-finite normal velocity %f", s.VNorm)
	}
	return nil
}

// Star is the solved star-region state: pressure and normal velocity,
// both continuous across the contact discontinuity in this
// approximation.
type Star struct {
	Pres  float64
	VNorm float64
}

// Solve runs the HLL solver with Roe-averaged outer wave speed
// estimates (Einfeldt's bounds, spec.md §4.8).
func Solve(left, right State) (Star, error) {
	if err := left.Validate(); err != nil {
		return Star{}, err
	}
	if err := right.Validate(); err != nil {
		return Star{}, err
	}

	sl, sr := waveSpeeds(left, right)

	switch {
	case sl >= 0:
		return Star{Pres: left.Pres, VNorm: left.VNorm}, nil
	case sr <= 0:
		return Star{Pres: right.Pres, VNorm: right.VNorm}, nil
	}

	denom := right.Dens*(sr-right.VNorm) - left.Dens*(sl-left.VNorm)
	if denom == 0 {
		mid := 0.5 * (left.VNorm + right.VNorm)
		return Star{Pres: 0.5 * (left.Pres + right.Pres), VNorm: mid}, nil
	}

	num := right.Dens*right.VNorm*(sr-right.VNorm) -
		left.Dens*left.VNorm*(sl-left.VNorm) +
		left.Pres - right.Pres
	uStar := num / denom

	pStar := left.Pres + left.Dens*(sl-left.VNorm)*(uStar-left.VNorm)

	return Star{Pres: pStar, VNorm: uStar}, nil
}

// waveSpeeds returns the Einfeldt HLL outer wave-speed bounds using a
// density-weighted (Roe-style) average of the normal velocity and
// sound speed between the two states.
func waveSpeeds(left, right State) (sl, sr float64) {
	sqrtL := math.Sqrt(left.Dens)
	sqrtR := math.Sqrt(right.Dens)
	wSum := sqrtL + sqrtR

	uRoe := (sqrtL*left.VNorm + sqrtR*right.VNorm) / wSum
	cRoe := (sqrtL*left.Sound + sqrtR*right.Sound) / wSum

	sl = math.Min(left.VNorm-left.Sound, uRoe-cRoe)
	sr = math.Max(right.VNorm+right.Sound, uRoe+cRoe)
	return sl, sr
}
