package vecd

import "math"

// Periodic describes, per axis, whether a domain wraps and over what
// length. It is consumed by every distance computation inside neighbor
// queries and force loops (spec.md §4.2); an axis with Enabled=false is
// the identity on that component.
type Periodic struct {
	Enabled [3]bool
	Length  [3]float64
}

// MinimumImage returns a-b with each enabled axis's component reduced
// to (-L/2, L/2], the minimum-image convention. Disabled axes pass
// through unchanged.
func (p Periodic) MinimumImage(a, b Vec) Vec {
	d := a.Sub(b)
	for i := 0; i < 3; i++ {
		if !p.Enabled[i] {
			continue
		}
		L := p.Length[i]
		if L <= 0 {
			continue
		}
		d[i] = wrapHalfOpen(d[i], L)
	}
	return d
}

// WrapDelta reduces x into (-L/2, L/2] under a period of length L. It
// is the scalar core of MinimumImage, exported so callers outside this
// package (e.g. the tree's periodic box-overlap test) can wrap a single
// axis without round-tripping through a full Vec.
func WrapDelta(x, L float64) float64 {
	return wrapHalfOpen(x, L)
}

// wrapHalfOpen reduces x into (-L/2, L/2].
func wrapHalfOpen(x, L float64) float64 {
	half := L / 2
	x = math.Mod(x+half, L)
	if x <= 0 {
		x += L
	}
	return x - half
}
