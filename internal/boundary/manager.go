package boundary

import (
	"github.com/san-kum/gosph/internal/particle"
	"github.com/san-kum/gosph/internal/vecd"
)

// tolerance is the ε spec.md §4.3 requires on every boundary-distance
// comparison, so a particle sitting exactly on the kernel-support
// radius from a wall is never silently dropped by float rounding.
const tolerance = 1e-10

// direction names which face of an axis a candidate ghost mirrors or
// wraps across.
type direction int

const (
	lower direction = iota
	upper
)

// axisCandidate is one axis's contribution to a ghost combination: the
// axis index, which face triggered it, and that axis's configured
// type.
type axisCandidate struct {
	axis int
	dir  direction
	typ  AxisType
	cfg  AxisConfig
}

// Manager generates ghost particles from real particles at domain
// boundaries and regenerates them every step from the current real
// positions (spec.md §4.3, §3 Lifecycle step "refresh ghosts").
type Manager struct {
	cfg     Config
	support float64 // current kernel compact-support radius R = 2*h_max
}

// NewManager validates cfg and returns a Manager. Construction fails
// the same way Config.Validate fails: a Periodic/Mirror axis must have
// at least one enabled face.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg}, nil
}

// SetKernelSupport updates R, the distance from a boundary within
// which a real particle must emit ghosts for its kernel support to be
// complete. Called once per step after the smoothing-length solve,
// before Regenerate (spec.md §3 Lifecycle).
func (m *Manager) SetKernelSupport(r float64) { m.support = r }

// Periodic derives the vecd.Periodic wrap descriptor implied by this
// manager's periodic axes, for use by the tree and minimum-image
// distance computations.
func (m *Manager) Periodic() vecd.Periodic {
	var p vecd.Periodic
	for a := 0; a < m.cfg.Dim; a++ {
		ax := m.cfg.Axes[a]
		if ax.Type == Periodic {
			p.Enabled[a] = true
			p.Length[a] = ax.length()
		}
	}
	return p
}

// Regenerate produces the full ghost set for the given real particles.
// Ghosts are recomputed from scratch every call; spec.md §3 invariant
// 3 forbids updating a previous step's ghosts in place. A particle
// near a multi-axis corner in 2D/3D emits one ghost per non-empty
// combination of its near-boundary axes (spec.md §4.3).
func (m *Manager) Regenerate(reals []particle.Particle) []particle.Particle {
	var ghosts []particle.Particle
	for i, real := range reals {
		candidates := m.nearBoundaryAxes(real.Pos)
		if len(candidates) == 0 {
			continue
		}
		for _, combo := range nonEmptySubsets(candidates) {
			ghosts = append(ghosts, m.buildGhost(real, i, combo))
		}
	}
	return ghosts
}

// nearBoundaryAxes returns, for every axis with a boundary type, the
// candidate face(s) pos lies within R (+ε) of.
func (m *Manager) nearBoundaryAxes(pos vecd.Vec) []axisCandidate {
	var out []axisCandidate
	for a := 0; a < m.cfg.Dim; a++ {
		ax := m.cfg.Axes[a]
		switch ax.Type {
		case None:
			continue
		case Periodic:
			if m.nearBoundary(pos[a], ax.Lo) {
				out = append(out, axisCandidate{axis: a, dir: lower, typ: Periodic, cfg: ax})
			}
			if m.nearBoundary(ax.Hi, pos[a]) {
				out = append(out, axisCandidate{axis: a, dir: upper, typ: Periodic, cfg: ax})
			}
		case Mirror:
			if ax.EnableLower && m.nearBoundary(pos[a], ax.Lo) {
				out = append(out, axisCandidate{axis: a, dir: lower, typ: Mirror, cfg: ax})
			}
			if ax.EnableUpper && m.nearBoundary(ax.Hi, pos[a]) {
				out = append(out, axisCandidate{axis: a, dir: upper, typ: Mirror, cfg: ax})
			}
		}
	}
	return out
}

// nearBoundary reports whether the distance hi-lo (oriented so it is
// the gap from the particle to the wall) is within the current
// support radius, within tolerance.
func (m *Manager) nearBoundary(hi, lo float64) bool {
	return hi-lo <= m.support+tolerance
}

// nonEmptySubsets enumerates every non-empty combination of candidates
// that selects at most one direction per axis. Two candidates on the
// same axis (possible only when the domain is narrower than 2R) are
// mutually exclusive within a combination.
func nonEmptySubsets(candidates []axisCandidate) [][]axisCandidate {
	n := len(candidates)
	var out [][]axisCandidate
	for mask := 1; mask < (1 << n); mask++ {
		seenAxis := map[int]bool{}
		combo := make([]axisCandidate, 0, n)
		conflict := false
		for i := 0; i < n; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			c := candidates[i]
			if seenAxis[c.axis] {
				conflict = true
				break
			}
			seenAxis[c.axis] = true
			combo = append(combo, c)
		}
		if conflict {
			continue
		}
		out = append(out, combo)
	}
	return out
}

// buildGhost applies every axis transform in combo to a copy of real,
// in the two passes spec.md §4.3 describes: position transforms apply
// independently per axis; velocity transforms apply per axis too,
// except that any NO_SLIP mirror axis in the combination negates the
// whole velocity vector once, overriding any FREE_SLIP partial
// negation already computed for other axes in the same combination.
func (m *Manager) buildGhost(real particle.Particle, sourceIdx int, combo []axisCandidate) particle.Particle {
	ghost := real
	ghost.IsGhost = true
	ghost.GhostSource = sourceIdx

	newVel := real.Vel
	noSlip := false
	for _, c := range combo {
		switch c.typ {
		case Periodic:
			shift := c.cfg.length()
			if c.dir == lower {
				ghost.Pos[c.axis] += shift
			} else {
				ghost.Pos[c.axis] -= shift
			}
			// velocity preserved exactly across a periodic image.
		case Mirror:
			wall := c.cfg.Lo
			if c.dir == upper {
				wall = c.cfg.Hi
			}
			ghost.Pos[c.axis] = 2*wall - real.Pos[c.axis]
			if c.cfg.Mode == NoSlip {
				noSlip = true
			} else {
				newVel[c.axis] = -newVel[c.axis]
			}
		}
	}
	if noSlip {
		newVel = real.Vel.Scale(-1)
	}
	ghost.Vel = newVel
	ghost.VelHalf = ghost.Vel
	return ghost
}
