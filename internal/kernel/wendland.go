package kernel

import (
	"math"

	"github.com/san-kum/gosph/internal/vecd"
)

// wendlandSigma holds the dimension-dependent normalization σ_D for the
// Wendland C4 kernel, indexed [D-1]: σ_1 = 27/32, σ_2 = 9/(4π),
// σ_3 = 495/(256π). Derived the same way as cubicSigma (∫ W dV = 1 over
// the compact support [0,2h]).
var wendlandSigma = [3]float64{
	27.0 / 32.0,
	9.0 / (4.0 * math.Pi),
	495.0 / (256.0 * math.Pi),
}

// wendlandC4 is the Wendland (1995) C4-smooth quintic, in the SPH form
// f(q) = (1-q/2)^6 (35/12 q^2 + 3q + 1), compact support radius 2h.
type wendlandC4 struct {
	dim   int
	sigma float64
}

func (w wendlandC4) f(q float64) float64 {
	if q < 0 || q > 2 {
		return 0
	}
	t := 1 - q/2
	t6 := t * t * t * t * t * t
	return t6 * (35.0/12.0*q*q + 3*q + 1)
}

// dfdq = d/dq [ t^6 * poly(q) ], t = 1-q/2, dt/dq = -1/2.
func (w wendlandC4) dfdq(q float64) float64 {
	if q < 0 || q > 2 {
		return 0
	}
	t := 1 - q/2
	t5 := t * t * t * t * t
	poly := 35.0/12.0*q*q + 3*q + 1
	dpoly := 35.0/6.0*q + 3
	// d/dq(t^6) = 6 t^5 * (-1/2) = -3 t^5
	return -3*t5*poly + t*t5*dpoly
}

func (w wendlandC4) W(r, h float64) float64 {
	if h <= 0 {
		return 0
	}
	q := r / h
	return w.sigma / math.Pow(h, float64(w.dim)) * w.f(q)
}

func (w wendlandC4) GradW(rvec vecd.Vec, r, h float64) vecd.Vec {
	if h <= 0 {
		return vecd.Zero()
	}
	q := r / h
	dWdr := w.sigma / math.Pow(h, float64(w.dim)+1) * w.dfdq(q)
	return gradFromScalarDerivative(dWdr, rvec, r)
}

func (w wendlandC4) DWDh(r, h float64) float64 {
	if h <= 0 {
		return 0
	}
	q := r / h
	d := float64(w.dim)
	hp := math.Pow(h, d)
	term1 := -d / h * w.f(q)
	term2 := -q / h * w.dfdq(q)
	return w.sigma / hp * (term1 + term2)
}

func (w wendlandC4) SupportRadius(h float64) float64 { return 2 * h }
