package particle

import (
	"math"
	"testing"

	"github.com/san-kum/gosph/internal/vecd"
)

func TestNewRealMarksGhostSourceNegative(t *testing.T) {
	p := NewReal(vecd.Vec{1, 0, 0}, vecd.Vec{}, 1.0, 1.0, 1.0)
	if p.GhostSource != -1 {
		t.Errorf("expected GhostSource -1 for a real particle, got %d", p.GhostSource)
	}
	if p.IsGhost {
		t.Error("NewReal must not set IsGhost")
	}
}

func TestIsValidRejectsNaN(t *testing.T) {
	p := NewReal(vecd.Vec{}, vecd.Vec{}, 1, 1, 1)
	p.Pres = math.NaN()
	if p.IsValid() {
		t.Error("expected IsValid() == false for NaN pressure")
	}
}

func TestIsValidRejectsNegativeMass(t *testing.T) {
	p := NewReal(vecd.Vec{}, vecd.Vec{}, -1, 1, 1)
	if p.IsValid() {
		t.Error("expected IsValid() == false for negative mass")
	}
}

func TestIsValidAcceptsWellFormedParticle(t *testing.T) {
	p := NewReal(vecd.Vec{1, 2, 3}, vecd.Vec{0.1, 0.2, 0.3}, 1, 1, 1)
	p.Sml = 0.1
	if !p.IsValid() {
		t.Error("expected well-formed particle to be valid")
	}
}
