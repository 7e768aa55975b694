package viscosity

import (
	"testing"

	"github.com/san-kum/gosph/internal/vecd"
)

func approaching(sep, closingSpeed float64) (PairState, PairState) {
	cfg := DefaultConfig()
	a := PairState{Pos: vecd.Vec{0, 0, 0}, Vel: vecd.Vec{closingSpeed / 2, 0, 0}, Dens: 1, Sound: 1, Sml: 1, Balsara: 1, AlphaVisc: cfg.Alpha}
	b := PairState{Pos: vecd.Vec{sep, 0, 0}, Vel: vecd.Vec{-closingSpeed / 2, 0, 0}, Dens: 1, Sound: 1, Sml: 1, Balsara: 1, AlphaVisc: cfg.Alpha}
	return a, b
}

func TestPiZeroWhenSeparating(t *testing.T) {
	cfg := DefaultConfig()
	a := PairState{Pos: vecd.Vec{0, 0, 0}, Vel: vecd.Vec{-1, 0, 0}, Dens: 1, Sound: 1, Sml: 1, AlphaVisc: cfg.Alpha}
	b := PairState{Pos: vecd.Vec{1, 0, 0}, Vel: vecd.Vec{1, 0, 0}, Dens: 1, Sound: 1, Sml: 1, AlphaVisc: cfg.Alpha}
	if pi := Pi(a, b, cfg); pi != 0 {
		t.Errorf("expected zero viscosity for separating pair, got %f", pi)
	}
}

func TestPiNonzeroWhenApproaching(t *testing.T) {
	a, b := approaching(1.0, 2.0)
	pi := Pi(a, b, DefaultConfig())
	if pi <= 0 {
		t.Errorf("expected positive dissipative Pi for approaching pair, got %f", pi)
	}
}

func TestPiSymmetricUnderSwap(t *testing.T) {
	a, b := approaching(1.0, 2.0)
	pi1 := Pi(a, b, DefaultConfig())
	pi2 := Pi(b, a, DefaultConfig())
	if pi1 != pi2 {
		t.Errorf("Pi must be symmetric under pair swap: Pi(a,b)=%f Pi(b,a)=%f", pi1, pi2)
	}
}

func TestPiScalesWithBalsaraSwitch(t *testing.T) {
	a, b := approaching(1.0, 2.0)
	full := Pi(a, b, DefaultConfig())

	a.Balsara, b.Balsara = 0, 0
	suppressed := Pi(a, b, DefaultConfig())
	if suppressed != 0 {
		t.Errorf("expected Pi suppressed to 0 when both Balsara factors are 0, got %f", suppressed)
	}

	cfgNoBalsara := DefaultConfig()
	cfgNoBalsara.UseBalsara = false
	unaffected := Pi(a, b, cfgNoBalsara)
	if unaffected != full {
		t.Errorf("disabling Balsara should ignore the zeroed factors: got %f want %f", unaffected, full)
	}
}

func TestBalsaraSwitchPureShearIsZero(t *testing.T) {
	f := BalsaraSwitch(0, 5, 1, 1)
	if f != 0 {
		t.Errorf("pure shear (div v = 0) should give Balsara switch 0, got %f", f)
	}
}

func TestBalsaraSwitchPureCompressionIsOne(t *testing.T) {
	f := BalsaraSwitch(5, 0, 0, 1)
	if f < 0.99 {
		t.Errorf("pure compression (curl v = 0, negligible eps term) should give Balsara switch near 1, got %f", f)
	}
}

func TestBalsaraSwitchBounded(t *testing.T) {
	f := BalsaraSwitch(3, 4, 1, 1)
	if f < 0 || f > 1 {
		t.Errorf("Balsara switch must lie in [0,1], got %f", f)
	}
}
