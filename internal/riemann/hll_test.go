package riemann

import (
	"math"
	"testing"
)

func TestSolveRejectsNegativeDensity(t *testing.T) {
	_, err := Solve(State{Dens: -1, Pres: 1, Sound: 1}, State{Dens: 1, Pres: 1, Sound: 1})
	if err == nil {
		t.Fatalf("expected validation error for negative density")
	}
}

func TestSolveRejectsNegativePressure(t *testing.T) {
	_, err := Solve(State{Dens: 1, Pres: -1, Sound: 1}, State{Dens: 1, Pres: 1, Sound: 1})
	if err == nil {
		t.Fatalf("expected validation error for negative pressure")
	}
}

func TestSolveEqualStatesReturnsSameState(t *testing.T) {
	s := State{Dens: 1, Pres: 1, VNorm: 0.5, Sound: 1}
	star, err := Solve(s, s)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(star.Pres-s.Pres) > 1e-9 {
		t.Errorf("equal states should return the same pressure, got %f want %f", star.Pres, s.Pres)
	}
	if math.Abs(star.VNorm-s.VNorm) > 1e-9 {
		t.Errorf("equal states should return the same velocity, got %f want %f", star.VNorm, s.VNorm)
	}
}

func TestSolveRejectsZeroDensityLeft(t *testing.T) {
	right := State{Dens: 1, Pres: 2, VNorm: 0.3, Sound: 1}
	_, err := Solve(State{Dens: 0, Pres: 0, VNorm: 0, Sound: 0}, right)
	if err == nil {
		t.Fatal("expected validation error for zero-density left state")
	}
}

func TestSolveRejectsZeroDensityRight(t *testing.T) {
	left := State{Dens: 1, Pres: 2, VNorm: -0.3, Sound: 1}
	_, err := Solve(left, State{Dens: 0, Pres: 0, VNorm: 0, Sound: 0})
	if err == nil {
		t.Fatal("expected validation error for zero-density right state")
	}
}

func TestSolveRejectsZeroPressure(t *testing.T) {
	_, err := Solve(State{Dens: 1, Pres: 0, Sound: 1}, State{Dens: 1, Pres: 1, Sound: 1})
	if err == nil {
		t.Fatal("expected validation error for zero pressure")
	}
}

func TestSolveRejectsZeroSoundSpeed(t *testing.T) {
	_, err := Solve(State{Dens: 1, Pres: 1, Sound: 0}, State{Dens: 1, Pres: 1, Sound: 1})
	if err == nil {
		t.Fatal("expected validation error for zero sound speed")
	}
}

func TestSolveSodShockTubePressureBetweenExtremes(t *testing.T) {
	left := State{Dens: 1.0, Pres: 1.0, VNorm: 0, Sound: math.Sqrt(1.4)}
	right := State{Dens: 0.125, Pres: 0.1, VNorm: 0, Sound: math.Sqrt(1.4 * 0.1 / 0.125)}
	star, err := Solve(left, right)
	if err != nil {
		t.Fatal(err)
	}
	if star.Pres < right.Pres || star.Pres > left.Pres {
		t.Errorf("Sod star pressure %f should lie between left=%f and right=%f", star.Pres, left.Pres, right.Pres)
	}
}

func TestSolveSupersonicLeftTakesLeftState(t *testing.T) {
	left := State{Dens: 1, Pres: 1, VNorm: 100, Sound: 1}
	right := State{Dens: 1, Pres: 1, VNorm: 0, Sound: 1}
	star, err := Solve(left, right)
	if err != nil {
		t.Fatal(err)
	}
	if star.Pres != left.Pres || star.VNorm != left.VNorm {
		t.Errorf("supersonic rightward flow should take the left state entirely, got %+v", star)
	}
}
