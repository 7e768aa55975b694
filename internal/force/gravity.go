package force

import (
	"math"

	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/vecd"
)

// GravityConfig parameterizes the optional direct-summation self-
// gravity stub spec.md §1 allows ("a simple direct/tree stub") and §9
// explicitly keeps separate from the BH tree's neighbor-query API
// (the tree carries no multipole data here, reserved for a future
// gravity walker). Off by default.
type GravityConfig struct {
	Enabled   bool
	G         float64
	Softening float64
}

// AddDirectGravity adds a softened O(N^2) direct-summation
// acceleration to every real particle in out.Accel, grounded on
// internal/physics/nbody.go's softening convention: eps^2 added to the
// squared separation before the inverse-cube weight, never a bare 1/r^2
// singularity. A no-op when cfg.Enabled is false.
func AddDirectGravity(coord *coordinator.Coordinator, cfg GravityConfig, out Output) {
	if !cfg.Enabled {
		return
	}
	nReal := coord.NReal()
	eps2 := cfg.Softening * cfg.Softening

	for i := 0; i < nReal; i++ {
		pi := coord.Particle(i)
		var acc vecd.Vec
		for j := 0; j < nReal; j++ {
			if j == i {
				continue
			}
			pj := coord.Particle(j)
			d := pj.Pos.Sub(pi.Pos)
			r2 := d.Norm2() + eps2
			invR3 := 1.0 / (r2 * math.Sqrt(r2))
			acc = acc.Add(d.Scale(cfg.G * pj.Mass * invR3))
		}
		out.Accel[i] = out.Accel[i].Add(acc)
	}
}
