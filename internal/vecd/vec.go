// Package vecd provides fixed-capacity vector arithmetic for the
// dimension-parameterized (D ∈ {1,2,3}) SPH engine.
//
// Go has no const-generic array size, so Vec is a fixed [3]float64
// regardless of the configured dimension; components at index >= Dim
// are always zero and every reduction (Dot, Norm, ...) sums across all
// three slots, so carrying the unused zero components is free and
// never perturbs a lower-dimensional result.
package vecd

import "math"

// Vec is a 3-slot vector; only the first Dim components (Dim carried
// by the caller, not by Vec itself) are meaningful.
type Vec [3]float64

// Zero returns the additive identity.
func Zero() Vec { return Vec{} }

func (a Vec) Add(b Vec) Vec {
	return Vec{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec) Sub(b Vec) Vec {
	return Vec{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a Vec) Scale(s float64) Vec {
	return Vec{a[0] * s, a[1] * s, a[2] * s}
}

func (a Vec) Dot(b Vec) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec) Norm2() float64 { return a.Dot(a) }

func (a Vec) Norm() float64 { return math.Sqrt(a.Norm2()) }

// Unit returns a/|a|, or the zero vector if |a| is (numerically) zero.
func (a Vec) Unit() Vec {
	n := a.Norm()
	if n < 1e-300 {
		return Zero()
	}
	return a.Scale(1.0 / n)
}

// Cross2D returns the scalar z-component of a × b, treating a and b as
// 2D vectors (ignores index 2). Used for 2D angular momentum.
func (a Vec) Cross2D(b Vec) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Cross3D returns the full 3D cross product a × b.
func (a Vec) Cross3D(b Vec) Vec {
	return Vec{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Clamp zeroes every component at index >= dim. Callers that build a Vec
// from user input (e.g. config) should clamp to the run's Dim once, so
// downstream reductions never see stray data in unused slots.
func (a Vec) Clamp(dim int) Vec {
	out := a
	for i := dim; i < 3; i++ {
		out[i] = 0
	}
	return out
}
