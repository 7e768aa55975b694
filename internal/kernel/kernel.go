// Package kernel implements the compact-support smoothing kernels used
// to weight neighbor contributions in the density and force sums
// (spec.md §4.1). Two kernels are provided: the cubic B-spline and the
// Wendland C4 quintic; both have compact support radius 2h and are
// normalized so ∫ W dV = 1 for the configured dimension D ∈ {1,2,3}.
package kernel

import (
	"fmt"

	"github.com/san-kum/gosph/internal/vecd"
)

// Kind selects a smoothing kernel. Kept as a small closed tagged set
// rather than an open plugin registry — spec.md §9 calls this the
// natural choice when the set of variants is small and known at
// compile time.
type Kind int

const (
	CubicSpline Kind = iota
	WendlandC4
)

func (k Kind) String() string {
	switch k {
	case CubicSpline:
		return "cubic_spline"
	case WendlandC4:
		return "wendland_c4"
	default:
		return "unknown"
	}
}

// ParseKind maps the config-file kernel name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "cubic_spline", "":
		return CubicSpline, nil
	case "wendland_c4":
		return WendlandC4, nil
	default:
		return 0, fmt.Errorf("kernel: unknown kernel %q", name)
	}
}

// Kernel exposes the W/grad-W/dW-dh contract every density and force
// computation is built on.
type Kernel interface {
	// W returns the kernel value at separation r for smoothing length h.
	W(r, h float64) float64
	// GradW returns ∇_i W for a separation vector rvec = x_i - x_j with
	// |rvec| == r. Antisymmetric in rvec: GradW(rvec,...) == -GradW(rvec.Scale(-1),...).
	GradW(rvec vecd.Vec, r, h float64) vecd.Vec
	// DWDh returns ∂W/∂h at separation r, smoothing length h.
	DWDh(r, h float64) float64
	// SupportRadius returns the compact support radius for smoothing length h.
	SupportRadius(h float64) float64
}

// New returns the Kernel implementation for dim ∈ {1,2,3}.
func New(kind Kind, dim int) (Kernel, error) {
	if dim < 1 || dim > 3 {
		return nil, fmt.Errorf("kernel: unsupported dimension %d", dim)
	}
	switch kind {
	case CubicSpline:
		return cubicSpline{dim: dim, sigma: cubicSigma[dim-1]}, nil
	case WendlandC4:
		return wendlandC4{dim: dim, sigma: wendlandSigma[dim-1]}, nil
	default:
		return nil, fmt.Errorf("kernel: unknown kind %d", kind)
	}
}

// gradFromScalarDerivative turns a radial derivative dW/dr (a scalar
// function of r, h) into the vector gradient ∇_iW = (dW/dr) * rvec/r,
// shared by both kernels.
func gradFromScalarDerivative(dWdr float64, rvec vecd.Vec, r float64) vecd.Vec {
	if r < 1e-12 {
		return vecd.Zero()
	}
	return rvec.Scale(dWdr / r)
}
