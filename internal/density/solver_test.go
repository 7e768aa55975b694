package density

import (
	"math"
	"testing"

	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/particle"
	"github.com/san-kum/gosph/internal/vecd"
)

func uniformLine(n int, spacing float64) []particle.Particle {
	out := make([]particle.Particle, n)
	for i := range out {
		x := float64(i) * spacing
		out[i] = particle.NewReal(vecd.Vec{x, 0, 0}, vecd.Vec{}, 1, 1, 1)
	}
	return out
}

func baseConfig() Config {
	return Config{
		NeighborTarget:   4,
		Tolerance:        1e-6,
		MaxIterations:    100,
		HMin:             0.01,
		HMax:             10,
		OnNonConvergence: Abort,
	}
}

func TestSolveConvergesForUniformLine(t *testing.T) {
	krn, err := kernel.New(kernel.CubicSpline, 1)
	if err != nil {
		t.Fatal(err)
	}
	solver, err := New(krn, 1, baseConfig())
	if err != nil {
		t.Fatal(err)
	}

	reals := uniformLine(50, 0.1)
	coord := coordinator.New(1, vecd.Periodic{})
	coord.Resync(reals, nil)

	mass := make([]float64, len(reals))
	hInit := make([]float64, len(reals))
	for i := range reals {
		mass[i] = 1
		hInit[i] = 0.3
	}

	results, err := solver.Solve(coord, mass, hInit)
	if err != nil {
		t.Fatalf("unexpected non-convergence: %v", err)
	}
	for i, r := range results {
		if !r.Converged {
			t.Errorf("particle %d did not converge", i)
		}
		if r.Sml <= 0 {
			t.Errorf("particle %d has non-positive smoothing length %f", i, r.Sml)
		}
		if r.Dens <= 0 {
			t.Errorf("particle %d has non-positive density %f", i, r.Dens)
		}
	}
}

func TestSolveGhostsContributeToDensityNotNeighborCount(t *testing.T) {
	krn, err := kernel.New(kernel.CubicSpline, 1)
	if err != nil {
		t.Fatal(err)
	}
	solver, err := New(krn, 1, baseConfig())
	if err != nil {
		t.Fatal(err)
	}

	reals := uniformLine(20, 0.1)
	coordNoGhost := coordinator.New(1, vecd.Periodic{})
	coordNoGhost.Resync(reals, nil)

	ghosts := uniformLine(5, 0.1) // extra mass co-located near the reals
	coordWithGhost := coordinator.New(1, vecd.Periodic{})
	coordWithGhost.Resync(reals, ghosts)

	mass := make([]float64, len(reals))
	hInit := make([]float64, len(reals))
	for i := range reals {
		mass[i] = 1
		hInit[i] = 0.3
	}

	r1, err := solver.Solve(coordNoGhost, mass, hInit)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := solver.Solve(coordWithGhost, mass, hInit)
	if err != nil {
		t.Fatal(err)
	}

	mid := 10
	if r2[mid].Dens <= r1[mid].Dens {
		t.Errorf("density should increase with ghost contributions: without=%f with=%f", r1[mid].Dens, r2[mid].Dens)
	}
	if r2[mid].Neighbor != r1[mid].Neighbor {
		t.Errorf("ghosts must not affect the real neighbor count: without=%d with=%d", r1[mid].Neighbor, r2[mid].Neighbor)
	}
}

func TestSolveHonorsHMinHMaxClamp(t *testing.T) {
	krn, err := kernel.New(kernel.CubicSpline, 1)
	if err != nil {
		t.Fatal(err)
	}
	cfg := baseConfig()
	cfg.HMin = 0.5
	cfg.HMax = 0.6
	// the clamp makes the target unreachable, so keep the clamped h
	// instead of aborting on non-convergence.
	cfg.OnNonConvergence = KeepLast
	solver, err := New(krn, 1, cfg)
	if err != nil {
		t.Fatal(err)
	}

	reals := uniformLine(10, 0.001) // extremely dense, would otherwise shrink h far below HMin
	coord := coordinator.New(1, vecd.Periodic{})
	coord.Resync(reals, nil)

	mass := make([]float64, len(reals))
	hInit := make([]float64, len(reals))
	for i := range reals {
		mass[i] = 1
		hInit[i] = 0.55
	}

	results, err := solver.Solve(coord, mass, hInit)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r.Sml < cfg.HMin-1e-9 || r.Sml > cfg.HMax+1e-9 {
			t.Errorf("particle %d: h=%f outside [%f,%f]", i, r.Sml, cfg.HMin, cfg.HMax)
		}
	}
}

func TestConfigValidateRejectsBadFields(t *testing.T) {
	bad := []Config{
		{NeighborTarget: 0, Tolerance: 1e-6, MaxIterations: 10, HMin: 0.1, HMax: 1},
		{NeighborTarget: 4, Tolerance: 0, MaxIterations: 10, HMin: 0.1, HMax: 1},
		{NeighborTarget: 4, Tolerance: 1e-6, MaxIterations: 0, HMin: 0.1, HMax: 1},
		{NeighborTarget: 4, Tolerance: 1e-6, MaxIterations: 10, HMin: 1, HMax: 0.1},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestNonConvergenceAbortReturnsError(t *testing.T) {
	krn, err := kernel.New(kernel.CubicSpline, 1)
	if err != nil {
		t.Fatal(err)
	}
	cfg := baseConfig()
	cfg.MaxIterations = 1
	cfg.Tolerance = 1e-300 // unreachable in one iteration
	solver, err := New(krn, 1, cfg)
	if err != nil {
		t.Fatal(err)
	}

	reals := uniformLine(10, 0.1)
	coord := coordinator.New(1, vecd.Periodic{})
	coord.Resync(reals, nil)

	mass := make([]float64, len(reals))
	hInit := make([]float64, len(reals))
	for i := range reals {
		mass[i] = 1
		hInit[i] = 0.3
	}

	_, err = solver.Solve(coord, mass, hInit)
	if err == nil {
		t.Fatalf("expected non-convergence error")
	}
	var nc *NonConvergenceError
	if !isNonConvergence(err, &nc) {
		t.Errorf("expected *NonConvergenceError, got %T", err)
	}
}

func isNonConvergence(err error, target **NonConvergenceError) bool {
	nc, ok := err.(*NonConvergenceError)
	if ok {
		*target = nc
	}
	return ok
}

func TestOmegaNearOneForUniformDensity(t *testing.T) {
	krn, err := kernel.New(kernel.CubicSpline, 1)
	if err != nil {
		t.Fatal(err)
	}
	solver, err := New(krn, 1, baseConfig())
	if err != nil {
		t.Fatal(err)
	}

	reals := uniformLine(80, 0.1)
	coord := coordinator.New(1, vecd.Periodic{})
	coord.Resync(reals, nil)

	mass := make([]float64, len(reals))
	hInit := make([]float64, len(reals))
	for i := range reals {
		mass[i] = 1
		hInit[i] = 0.3
	}

	results, err := solver.Solve(coord, mass, hInit)
	if err != nil {
		t.Fatal(err)
	}
	mid := results[40]
	if math.Abs(mid.GradH-1.0) > 0.3 {
		t.Errorf("expected Omega near 1 for near-uniform density, got %f", mid.GradH)
	}
}
