package coordinator

import (
	"testing"

	"github.com/san-kum/gosph/internal/particle"
	"github.com/san-kum/gosph/internal/vecd"
)

func mkReal(x float64) particle.Particle {
	return particle.NewReal(vecd.Vec{x, 0, 0}, vecd.Vec{}, 1, 1, 1)
}

func TestResyncAssignsIDsAndGhostFlags(t *testing.T) {
	c := New(1, vecd.Periodic{})
	reals := []particle.Particle{mkReal(0), mkReal(1), mkReal(2)}
	ghosts := []particle.Particle{mkReal(3), mkReal(4)}

	c.Resync(reals, ghosts)

	if c.GetSearchParticleCount() != 5 {
		t.Fatalf("expected 5 total particles, got %d", c.GetSearchParticleCount())
	}
	if c.NReal() != 3 {
		t.Fatalf("expected 3 reals, got %d", c.NReal())
	}
	for i := 0; i < 5; i++ {
		p := c.Particle(i)
		if p.ID != i {
			t.Errorf("particle %d has ID %d", i, p.ID)
		}
		wantGhost := i >= 3
		if p.IsGhost != wantGhost {
			t.Errorf("particle %d: IsGhost=%v, want %v", i, p.IsGhost, wantGhost)
		}
		if c.IsGhost(i) != wantGhost {
			t.Errorf("coordinator.IsGhost(%d)=%v, want %v", i, c.IsGhost(i), wantGhost)
		}
	}
}

func TestResyncRebuildsTreeUsableForQuery(t *testing.T) {
	c := New(1, vecd.Periodic{})
	reals := []particle.Particle{mkReal(0), mkReal(0.01), mkReal(5)}
	c.Resync(reals, nil)

	result := c.Tree().Query(vecd.Vec{0, 0, 0}, 0.5, 10)
	if len(result.Indices) != 2 {
		t.Errorf("expected 2 neighbors within 0.5, got %d", len(result.Indices))
	}
}

func TestResyncBufferGrowsAcrossCalls(t *testing.T) {
	c := New(1, vecd.Periodic{})
	reals := make([]particle.Particle, 3)
	for i := range reals {
		reals[i] = mkReal(float64(i))
	}
	c.Resync(reals, nil)

	moreReals := make([]particle.Particle, 10)
	for i := range moreReals {
		moreReals[i] = mkReal(float64(i))
	}
	c.Resync(moreReals, nil)

	if c.GetSearchParticleCount() != 10 {
		t.Fatalf("expected 10 after growth, got %d", c.GetSearchParticleCount())
	}
}
