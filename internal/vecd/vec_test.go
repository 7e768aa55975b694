package vecd

import "testing"

func TestDotNorm(t *testing.T) {
	v := Vec{3, 4, 0}
	if got := v.Norm(); got != 5 {
		t.Errorf("expected norm 5, got %f", got)
	}
	if got := v.Norm2(); got != 25 {
		t.Errorf("expected norm2 25, got %f", got)
	}
}

func TestAddSubScale(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{0.5, 0.5, 0.5}

	if got := a.Add(b); got != (Vec{1.5, 2.5, 3.5}) {
		t.Errorf("Add mismatch: %v", got)
	}
	if got := a.Sub(b); got != (Vec{0.5, 1.5, 2.5}) {
		t.Errorf("Sub mismatch: %v", got)
	}
	if got := a.Scale(2); got != (Vec{2, 4, 6}) {
		t.Errorf("Scale mismatch: %v", got)
	}
}

func TestClamp(t *testing.T) {
	v := Vec{1, 2, 3}
	got := v.Clamp(1)
	if got != (Vec{1, 0, 0}) {
		t.Errorf("expected clamp to zero unused dims, got %v", got)
	}
}

func TestMinimumImageIdentityWhenDisabled(t *testing.T) {
	p := Periodic{}
	a, b := Vec{10, 0, 0}, Vec{0, 0, 0}
	d := p.MinimumImage(a, b)
	if d != a.Sub(b) {
		t.Errorf("expected identity distance, got %v", d)
	}
}

func TestMinimumImageWraps(t *testing.T) {
	p := Periodic{Enabled: [3]bool{true, false, false}, Length: [3]float64{2.0, 0, 0}}
	a := Vec{1.9, 0, 0}
	b := Vec{0.0, 0, 0}
	d := p.MinimumImage(a, b)
	// raw distance 1.9, should wrap to -0.1 (shorter path around the torus)
	if d[0] < -0.1-1e-9 || d[0] > -0.1+1e-9 {
		t.Errorf("expected wrapped distance near -0.1, got %f", d[0])
	}
}

func TestMinimumImageBoundaryTolerance(t *testing.T) {
	p := Periodic{Enabled: [3]bool{true, false, false}, Length: [3]float64{4.0, 0, 0}}
	// exactly at the half-length boundary must resolve to +L/2, not -L/2
	a := Vec{2.0, 0, 0}
	b := Vec{0, 0, 0}
	d := p.MinimumImage(a, b)
	if d[0] != 2.0 {
		t.Errorf("expected boundary value 2.0 (half-open upper), got %f", d[0])
	}
}
