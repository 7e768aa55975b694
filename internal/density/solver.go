package density

import (
	"fmt"
	"math"

	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/kernel"
)

// maxNeighborCandidates bounds how many entries a single tree query may
// return while solving for h; it is generous slack above any
// physically sane NeighborTarget, not a correctness-affecting cap.
const maxNeighborCandidates = 512

// Result carries one particle's solved state plus the diagnostics the
// engine needs to decide whether a non-convergence is fatal.
type Result struct {
	Dens       float64
	Sml        float64
	GradH      float64 // Omega_i, the grad-h correction factor
	Neighbor   int      // real-only neighbor count at the converged h
	Iterations int
	Converged  bool
	Truncated  bool // true if the final neighbor query hit the collector's capacity (spec.md §4.4, §7)
}

// NonConvergenceError reports a particle whose root-find exceeded
// MaxIterations under Config.OnNonConvergence == Abort.
type NonConvergenceError struct {
	ParticleIndex int
	Residual      float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("density: particle %d failed to converge, residual=%g", e.ParticleIndex, e.Residual)
}

// Solver owns the kernel and configuration used by every Solve call.
type Solver struct {
	krn kernel.Kernel
	dim int
	cfg Config
}

// New validates cfg and returns a Solver.
func New(krn kernel.Kernel, dim int, cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{krn: krn, dim: dim, cfg: cfg}, nil
}

// Solve root-finds h for every real particle in coord, using its
// current h as the Newton-Raphson starting point. mass/hInit are
// supplied per real index; the coordinator's combined buffer (reals
// and ghosts) supplies the neighbor sums.
//
// The root function is spec.md §4.6's literal
// f(h) = rho(h)*h^D - m*N_target/V_D^*, where rho(h) = sum_j m_j
// W(r,h) runs over every neighbor, ghosts included, so a particle near
// a wall still sees the right density. The real-only neighbor count
// (coord.IsGhost-filtered) plays no part in the root equation; it is
// reported separately as Result.Neighbor, a diagnostic ghosts must
// never inflate.
func (s *Solver) Solve(coord *coordinator.Coordinator, mass []float64, hInit []float64) ([]Result, error) {
	nReal := coord.NReal()
	results := make([]Result, nReal)
	coeff := ballVolumeCoeff(s.dim)

	for i := 0; i < nReal; i++ {
		res, err := s.solveOne(coord, i, mass[i], hInit[i], coeff)
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return results, nil
}

// SolveOne runs the Newton-Raphson root-find for a single real
// particle at index i, using exactly the numerics Solve's loop runs.
// Exposed so a caller (internal/engine's errgroup-chunked density
// phase, spec.md §5) can drive the per-particle loop itself while the
// sequential Solve path above keeps using the same code.
func (s *Solver) SolveOne(coord *coordinator.Coordinator, i int, mass, h0 float64) (Result, error) {
	return s.solveOne(coord, i, mass, h0, ballVolumeCoeff(s.dim))
}

func (s *Solver) solveOne(coord *coordinator.Coordinator, i int, mass, h0, coeff float64) (Result, error) {
	h := h0
	if h <= 0 {
		h = s.cfg.HMin
	}

	var (
		rho, drhoDhAll float64
		realCount      int
		iter           int
		truncated      bool
	)

	target := mass * s.cfg.NeighborTarget / coeff

	// When iterative smoothing-length solving is switched off, h is
	// left exactly at its input value (spec.md §6's
	// iterative_smoothing_length flag) and this loop only gathers rho
	// and the diagnostic neighbor count at that fixed h.
	maxIter := s.cfg.MaxIterations
	if s.cfg.FixedSmoothingLength {
		maxIter = 1
	}

	pos := coord.Particle(i).Pos
	for iter = 0; iter < maxIter; iter++ {
		radius := s.krn.SupportRadius(h)
		qr := coord.Tree().Query(pos, radius, maxNeighborCandidates)
		truncated = qr.Truncated

		rho, drhoDhAll = 0, 0
		realCount = 0

		for _, j := range qr.Indices {
			other := coord.Particle(j)
			d := pos.Sub(other.Pos)
			r := d.Norm()
			w := s.krn.W(r, h)
			dwdh := s.krn.DWDh(r, h)

			rho += other.Mass * w
			drhoDhAll += other.Mass * dwdh

			if !coord.IsGhost(j) {
				realCount++
			}
		}

		if s.cfg.FixedSmoothingLength {
			break
		}

		// f(h) = rho(h)*h^D - m*N_target/V_D^* (spec.md §4.6), rho
		// ghost-inclusive; df/dh from the product rule on rho*h^D.
		hPowD := math.Pow(h, float64(s.dim))
		hPowDm1 := 0.0
		if h > 0 {
			hPowDm1 = hPowD / h
		}
		f := rho*hPowD - target
		df := drhoDhAll*hPowD + float64(s.dim)*rho*hPowDm1

		ratio := 1.0
		if target != 0 {
			ratio = (rho * hPowD) / target
		}
		if math.Abs(ratio-1) <= s.cfg.Tolerance {
			break
		}
		if df == 0 {
			df = 1e-300 // avoid division by zero; next clamp will correct direction
		}

		step := f / df
		maxStep := 0.2 * h
		if step > maxStep {
			step = maxStep
		} else if step < -maxStep {
			step = -maxStep
		}
		hNew := h - step
		if hNew < s.cfg.HMin {
			hNew = s.cfg.HMin
		}
		if hNew > s.cfg.HMax {
			hNew = s.cfg.HMax
		}
		h = hNew
	}

	converged := s.cfg.FixedSmoothingLength || iter < s.cfg.MaxIterations
	if !converged && s.cfg.OnNonConvergence == Abort {
		residRatio := 0.0
		if target != 0 {
			residRatio = (rho*math.Pow(h, float64(s.dim)))/target - 1
		}
		return Result{}, &NonConvergenceError{ParticleIndex: i, Residual: residRatio}
	}

	omega := 1.0
	if rho > 0 {
		omega = 1.0 + (h/(float64(s.dim)*rho))*drhoDhAll
	}

	return Result{
		Dens:       rho,
		Sml:        h,
		GradH:      omega,
		Neighbor:   realCount,
		Iterations: iter,
		Converged:  converged,
		Truncated:  truncated,
	}, nil
}

// ballVolumeCoeff returns the coefficient C in V(r) = C*r^dim for the
// D-ball, for D in {1,2,3}.
func ballVolumeCoeff(dim int) float64 {
	switch dim {
	case 1:
		return 2.0
	case 2:
		return math.Pi
	case 3:
		return 4.0 / 3.0 * math.Pi
	default:
		return 1.0
	}
}
