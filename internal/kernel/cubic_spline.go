package kernel

import (
	"math"

	"github.com/san-kum/gosph/internal/vecd"
)

// cubicSigma holds the dimension-dependent normalization σ_D for the
// cubic B-spline, indexed [D-1]. Derived so ∫ W dV = 1:
// σ_1 = 2/3, σ_2 = 10/(7π), σ_3 = 1/π.
var cubicSigma = [3]float64{
	2.0 / 3.0,
	10.0 / (7.0 * math.Pi),
	1.0 / math.Pi,
}

// cubicSpline is the standard Monaghan (1992) cubic B-spline, compact
// support radius 2h.
type cubicSpline struct {
	dim   int
	sigma float64
}

// f evaluates the unnormalized shape function of q = r/h.
func (c cubicSpline) f(q float64) float64 {
	switch {
	case q < 0:
		return 0
	case q < 1:
		return 1 - 1.5*q*q + 0.75*q*q*q
	case q < 2:
		t := 2 - q
		return 0.25 * t * t * t
	default:
		return 0
	}
}

// dfdq evaluates df/dq.
func (c cubicSpline) dfdq(q float64) float64 {
	switch {
	case q < 0:
		return 0
	case q < 1:
		return -3*q + 2.25*q*q
	case q < 2:
		t := 2 - q
		return -0.75 * t * t
	default:
		return 0
	}
}

func (c cubicSpline) W(r, h float64) float64 {
	if h <= 0 {
		return 0
	}
	q := r / h
	return c.sigma / math.Pow(h, float64(c.dim)) * c.f(q)
}

func (c cubicSpline) GradW(rvec vecd.Vec, r, h float64) vecd.Vec {
	if h <= 0 {
		return vecd.Zero()
	}
	q := r / h
	// dW/dr = sigma/h^D * (1/h) * df/dq
	dWdr := c.sigma / math.Pow(h, float64(c.dim)+1) * c.dfdq(q)
	return gradFromScalarDerivative(dWdr, rvec, r)
}

func (c cubicSpline) DWDh(r, h float64) float64 {
	if h <= 0 {
		return 0
	}
	q := r / h
	d := float64(c.dim)
	hp := math.Pow(h, d)
	// W = sigma/h^D * f(q); dW/dh = sigma*( -D/h^(D+1) f(q) + 1/h^D f'(q) * (-r/h^2) )
	term1 := -d / h * c.f(q)
	term2 := -q / h * c.dfdq(q)
	return c.sigma / hp * (term1 + term2)
}

func (c cubicSpline) SupportRadius(h float64) float64 { return 2 * h }
