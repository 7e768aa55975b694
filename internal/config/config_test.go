package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dim != 1 {
		t.Errorf("expected dim 1, got %d", cfg.Dim)
	}
	if cfg.Gamma <= 1 {
		t.Error("gamma should be > 1")
	}
	if _, err := cfg.ToEngineConfig(); err != nil {
		t.Fatalf("DefaultConfig should produce a valid engine.Config: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("sod_ssph")
	if cfg == nil {
		t.Fatal("expected sod_ssph preset, got nil")
	}
	if cfg.InitialCondition != "sod_shock_tube" {
		t.Errorf("expected sod_shock_tube initial condition, got %s", cfg.InitialCondition)
	}
	if _, err := cfg.ToEngineConfig(); err != nil {
		t.Fatalf("sod_ssph preset should produce a valid engine.Config: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected at least one preset")
	}
	found := false
	for _, n := range names {
		if n == "sod_ssph" {
			found = true
		}
	}
	if !found {
		t.Error("expected sod_ssph in ListPresets output")
	}
}

func TestGSPHRejectsArtificialViscosity(t *testing.T) {
	cfg := GetPreset("sod_gsph")
	if cfg == nil {
		t.Fatal("expected sod_gsph preset, got nil")
	}
	if cfg.AV.Alpha != 0 {
		t.Error("sod_gsph preset should not configure artificial viscosity")
	}
	if cfg.AC.Alpha != 0 {
		t.Error("sod_gsph preset should not configure artificial conductivity")
	}
	engCfg, err := cfg.ToEngineConfig()
	if err != nil {
		t.Fatalf("sod_gsph preset should produce a valid engine.Config: %v", err)
	}
	engCfg.AV.Alpha = 1
	if err := engCfg.Validate(); err == nil {
		t.Error("gsph with artificial viscosity set should fail validation")
	}
}

func TestBuildInitialCondition(t *testing.T) {
	for _, name := range []string{"sod_ssph", "vacuum_formation", "contact_discontinuity", "ghost_boundary_regression"} {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("missing preset %s", name)
		}
		reals, err := BuildInitialCondition(cfg)
		if err != nil {
			t.Fatalf("BuildInitialCondition(%s): %v", name, err)
		}
		if len(reals) == 0 {
			t.Errorf("BuildInitialCondition(%s): expected particles, got none", name)
		}
	}
}

func TestBuildInitialCondition_Unknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialCondition = "does_not_exist"
	if _, err := BuildInitialCondition(cfg); err == nil {
		t.Error("expected an error for an unknown initial condition")
	}
}
