package force

import (
	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/vecd"
)

// Output is one Compute call's result: per-real-particle acceleration
// and rate of specific-energy change.
type Output struct {
	Accel    []vecd.Vec
	DtEnergy []float64
}

// Scheme computes hydrodynamic accelerations and energy rates for
// every real particle in coord. Implementations are SSPH, DISPH, and
// GSPH (spec.md §4.7); each owns its own dissipation mechanism, so
// Scheme carries no shared artificial-viscosity knob — GSPH's type
// structurally has none, preventing the AV+GSPH misconfiguration
// spec.md §9 flags.
type Scheme interface {
	Compute(coord *coordinator.Coordinator, krn kernel.Kernel, dim int, dt float64) (Output, error)
}

func newOutput(n int) Output {
	return Output{Accel: make([]vecd.Vec, n), DtEnergy: make([]float64, n)}
}

// ParallelCompute is implemented by schemes whose per-real-particle
// force contribution can be computed in isolation, with no
// cross-particle pre-pass shared between calls. internal/engine's
// errgroup-chunked force phase (spec.md §5) type-asserts for this and
// falls back to the serial Compute path when a scheme doesn't
// implement it. SSPH and GSPH implement it; DISPH's two-phase
// presTilde pre-pass does not decompose into an independent per-index
// call without recomputing that shared array on every invocation, so
// it is only ever run serially.
type ParallelCompute interface {
	ComputeAt(coord *coordinator.Coordinator, krn kernel.Kernel, dim, i int, dt float64) (vecd.Vec, float64, error)
}
