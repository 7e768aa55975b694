// Package force computes pairwise SPH accelerations and energy rates
// under one of three interchangeable schemes (spec.md §4.7): SSPH,
// DISPH, and GSPH. The teacher's internal/physics/sph.go Derive loop
// shape — a density pass, then a force pass — is kept; the physics
// inside each pass is replaced per scheme.
package force

import "math"

// IdealGasPressure returns P = (gamma-1)*rho*ene for the ideal-gas
// equation of state spec.md §4.2 assumes.
func IdealGasPressure(rho, ene, gamma float64) float64 {
	if rho <= 0 {
		return 0
	}
	return (gamma - 1) * rho * ene
}

// SoundSpeed returns c = sqrt(gamma*P/rho), clamped to zero for a
// vacuum particle rather than producing NaN.
func SoundSpeed(rho, pres, gamma float64) float64 {
	if rho <= 0 || pres <= 0 {
		return 0
	}
	return math.Sqrt(gamma * pres / rho)
}
