// Package metrics reduces the per-real-particle state into the
// per-step energy/momentum record spec.md §6 requires, using
// gonum.org/v1/gonum for the summations and drift statistics the way
// the teacher's internal/metrics package reduced state trajectories
// into scalar diagnostics — generalized from a single pendulum's
// theta/omega to a whole particle set's kinetic/thermal/momentum
// budget.
package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gosph/internal/particle"
	"github.com/san-kum/gosph/internal/vecd"
)

// EnergyRecord is the per-step energy record spec.md §6 specifies.
type EnergyRecord struct {
	Time            float64
	Kinetic         float64
	Thermal         float64
	Total           float64
	LinearMomentum  vecd.Vec
	AngularMomentum vecd.Vec // only the first dim*(dim-1)/2 components are meaningful
}

// Energy reduces the real-particle slice reals (indices [0,nReal))
// into an EnergyRecord at simulation time t. Kinetic and thermal sums
// run through gonum/floats.Sum rather than a hand-rolled accumulator
// loop, the way the domain stack is meant to be exercised wherever a
// component can use it.
func Energy(reals []particle.Particle, dim int, t float64) EnergyRecord {
	n := len(reals)
	kineticTerms := make([]float64, n)
	thermalTerms := make([]float64, n)

	var linear vecd.Vec
	var angular vecd.Vec

	for i, p := range reals {
		kineticTerms[i] = 0.5 * p.Mass * p.Vel.Norm2()
		thermalTerms[i] = p.Mass * p.Ene

		linear = linear.Add(p.Vel.Scale(p.Mass))

		switch dim {
		case 2:
			angular[0] += p.Mass * p.Pos.Cross2D(p.Vel)
		case 3:
			l := p.Pos.Cross3D(p.Vel).Scale(p.Mass)
			angular = angular.Add(l)
		}
	}

	kinetic := floats.Sum(kineticTerms)
	thermal := floats.Sum(thermalTerms)

	return EnergyRecord{
		Time:            t,
		Kinetic:         kinetic,
		Thermal:         thermal,
		Total:           kinetic + thermal,
		LinearMomentum:  linear,
		AngularMomentum: angular,
	}
}

// RelativeDrift returns |cur-initial|/|initial|, the conservation
// tolerance spec.md §8's universal invariants are checked against.
// When initial is exactly zero it returns 0 if cur is also zero and 1
// otherwise, instead of a spurious Inf on an ideal zero-momentum start.
func RelativeDrift(initial, cur float64) float64 {
	if initial == 0 {
		if cur == 0 {
			return 0
		}
		return 1
	}
	d := cur - initial
	if d < 0 {
		d = -d
	}
	if initial < 0 {
		initial = -initial
	}
	return d / initial
}
