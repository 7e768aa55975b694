package metrics

import (
	"gonum.org/v1/gonum/stat"
)

// NeighborStats summarizes the real-only neighbor counts the density
// solver reports each step (spec.md §8: "neighbor truncation ... is
// logged and reported"), using gonum/stat's Mean/StdDev the way the
// teacher's Stability metric reduced a trajectory to a scalar
// violation fraction.
type NeighborStats struct {
	Mean   float64
	StdDev float64
	Min    int
	Max    int
}

// SummarizeNeighbors reduces one step's per-real-particle neighbor
// counts into a NeighborStats record.
func SummarizeNeighbors(counts []int) NeighborStats {
	if len(counts) == 0 {
		return NeighborStats{}
	}
	xs := make([]float64, len(counts))
	min, max := counts[0], counts[0]
	for i, c := range counts {
		xs[i] = float64(c)
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	return NeighborStats{Mean: mean, StdDev: std, Min: min, Max: max}
}

// MomentumDrift tracks the running maximum relative drift of linear
// momentum magnitude away from its value at the start of the run
// (spec.md §8's closed-periodic-domain zero-momentum invariant).
type MomentumDrift struct {
	initial  float64
	maxDrift float64
	started  bool
}

// Observe records one step's momentum magnitude.
func (d *MomentumDrift) Observe(momentumMagnitude float64) {
	if !d.started {
		d.initial = momentumMagnitude
		d.started = true
		return
	}
	drift := RelativeDrift(d.initial, momentumMagnitude)
	if drift > d.maxDrift {
		d.maxDrift = drift
	}
}

// MaxDrift returns the largest relative drift observed so far.
func (d *MomentumDrift) MaxDrift() float64 { return d.maxDrift }
