package boundary

import (
	"testing"

	"github.com/san-kum/gosph/internal/particle"
	"github.com/san-kum/gosph/internal/vecd"
)

func mk(x, y float64) particle.Particle {
	return particle.NewReal(vecd.Vec{x, y, 0}, vecd.Vec{1, 2, 0}, 1, 1, 1)
}

func TestValidateRejectsMirrorWithNoEnabledFace(t *testing.T) {
	cfg := Config{Dim: 1, Axes: [3]AxisConfig{{Type: Mirror, Lo: 0, Hi: 1}}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for mirror axis with no enabled face")
	}
}

func TestValidateRejectsBadRange(t *testing.T) {
	cfg := Config{Dim: 1, Axes: [3]AxisConfig{{Type: Periodic, Lo: 1, Hi: 0}}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for lo >= hi")
	}
}

func TestPeriodicGhostPreservesVelocity(t *testing.T) {
	cfg := Config{Dim: 1, Axes: [3]AxisConfig{{Type: Periodic, Lo: 0, Hi: 10}}}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mgr.SetKernelSupport(0.5)

	real := mk(0.1, 0)
	ghosts := mgr.Regenerate([]particle.Particle{real})
	if len(ghosts) != 1 {
		t.Fatalf("expected 1 ghost, got %d", len(ghosts))
	}
	g := ghosts[0]
	if g.Vel != real.Vel {
		t.Errorf("periodic ghost velocity must be preserved exactly, got %v want %v", g.Vel, real.Vel)
	}
	wantX := real.Pos[0] + 10
	if g.Pos[0] != wantX {
		t.Errorf("periodic ghost x = %f, want %f", g.Pos[0], wantX)
	}
	if g.GhostSource != 0 {
		t.Errorf("expected GhostSource 0, got %d", g.GhostSource)
	}
}

func TestMirrorNoSlipNegatesAllComponents(t *testing.T) {
	cfg := Config{Dim: 1, Axes: [3]AxisConfig{{Type: Mirror, Lo: 0, Hi: 10, EnableLower: true, Mode: NoSlip}}}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mgr.SetKernelSupport(0.5)

	real := mk(0.1, 0)
	real.Vel = vecd.Vec{3, 4, 0}
	ghosts := mgr.Regenerate([]particle.Particle{real})
	if len(ghosts) != 1 {
		t.Fatalf("expected 1 ghost, got %d", len(ghosts))
	}
	g := ghosts[0]
	want := vecd.Vec{-3, -4, 0}
	if g.Vel != want {
		t.Errorf("no-slip ghost velocity = %v, want %v", g.Vel, want)
	}
	wantPos := 2*0 - real.Pos[0]
	if g.Pos[0] != wantPos {
		t.Errorf("mirror ghost x = %f, want %f", g.Pos[0], wantPos)
	}
}

func TestMirrorFreeSlipNegatesOnlyNormalComponent(t *testing.T) {
	cfg := Config{Dim: 1, Axes: [3]AxisConfig{{Type: Mirror, Lo: 0, Hi: 10, EnableLower: true, Mode: FreeSlip}}}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mgr.SetKernelSupport(0.5)

	real := mk(0.1, 0)
	real.Vel = vecd.Vec{3, 4, 0}
	ghosts := mgr.Regenerate([]particle.Particle{real})
	g := ghosts[0]
	want := vecd.Vec{-3, 4, 0}
	if g.Vel != want {
		t.Errorf("free-slip ghost velocity = %v, want %v", g.Vel, want)
	}
}

func TestCornerEmitsAllCombinations(t *testing.T) {
	cfg := Config{Dim: 2, Axes: [3]AxisConfig{
		{Type: Periodic, Lo: 0, Hi: 10},
		{Type: Periodic, Lo: 0, Hi: 10},
	}}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mgr.SetKernelSupport(0.5)

	real := mk(0.1, 0.1)
	ghosts := mgr.Regenerate([]particle.Particle{real})
	// near both lower faces in x and y: combos are {x}, {y}, {x,y} = 3 ghosts.
	if len(ghosts) != 3 {
		t.Fatalf("expected 3 corner ghosts, got %d", len(ghosts))
	}
}

func TestNoGhostsFarFromBoundary(t *testing.T) {
	cfg := Config{Dim: 1, Axes: [3]AxisConfig{{Type: Periodic, Lo: 0, Hi: 10}}}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mgr.SetKernelSupport(0.1)

	real := mk(5, 0)
	ghosts := mgr.Regenerate([]particle.Particle{real})
	if len(ghosts) != 0 {
		t.Errorf("expected no ghosts far from any boundary, got %d", len(ghosts))
	}
}

func TestBoundaryToleranceIncludesExactSupportDistance(t *testing.T) {
	cfg := Config{Dim: 1, Axes: [3]AxisConfig{{Type: Periodic, Lo: 0, Hi: 10}}}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mgr.SetKernelSupport(0.5)

	real := mk(0.5, 0) // exactly at support distance from lo=0
	ghosts := mgr.Regenerate([]particle.Particle{real})
	if len(ghosts) != 1 {
		t.Fatalf("expected particle exactly at support distance to still emit a ghost, got %d", len(ghosts))
	}
}

func TestPeriodicDescriptorMatchesAxes(t *testing.T) {
	cfg := Config{Dim: 2, Axes: [3]AxisConfig{
		{Type: Periodic, Lo: 0, Hi: 10},
		{Type: Mirror, Lo: 0, Hi: 5, EnableLower: true},
	}}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	per := mgr.Periodic()
	if !per.Enabled[0] || per.Length[0] != 10 {
		t.Errorf("expected axis 0 periodic with length 10, got enabled=%v length=%f", per.Enabled[0], per.Length[0])
	}
	if per.Enabled[1] {
		t.Errorf("mirror axis must not be reported as periodic")
	}
}
