// Package config loads and validates the YAML run configuration
// (spec.md §6) and converts it into an internal/engine.Config, the
// way the teacher's config.go loaded a dynamics-model YAML file into
// the model/integrator/controller parameters sim.Simulator needed —
// generalized here from one ODE model's scalar knobs to the SPH
// engine's kernel/boundary/density/viscosity/timestep sub-configs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gosph/internal/boundary"
	"github.com/san-kum/gosph/internal/density"
	"github.com/san-kum/gosph/internal/engine"
	"github.com/san-kum/gosph/internal/force"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/timestep"
	"github.com/san-kum/gosph/internal/viscosity"
)

// Defaults mirrored from the teacher's DefaultDt/DefaultDuration
// constants, scaled to SPH's typical shock-tube parameters rather than
// a pendulum's.
const (
	DefaultNeighborNumber = 32.0
	DefaultGamma          = 1.4
	DefaultCFLSound       = 0.3
	DefaultCFLForce       = 0.3
	DefaultTimestepMax    = 0.01
)

// Config is the YAML-serializable run configuration. Every field maps
// onto one or more of internal/engine.Config's sub-configs via
// ToEngineConfig.
type Config struct {
	Dim            int     `yaml:"dim"`
	Kernel         string  `yaml:"kernel"`
	SPHType        string  `yaml:"sph_type"`
	Gamma          float64 `yaml:"gamma"`
	NeighborNumber float64 `yaml:"neighbor_number"`
	Seed           int64   `yaml:"seed"`

	Density  DensityConfig  `yaml:"density"`
	AV       AVConfig       `yaml:"artificial_viscosity"`
	AC       ACConfig       `yaml:"artificial_conductivity"`
	GSPH     GSPHConfig     `yaml:"gsph"`
	Boundary BoundaryConfig `yaml:"boundary"`
	Timestep TimestepConfig `yaml:"timestep"`
	Gravity  GravityConfig  `yaml:"gravity"`
	Time     TimeConfig     `yaml:"time"`
	Output   OutputConfig   `yaml:"output"`

	Parallel                 bool `yaml:"parallel"`
	StrictDomainEscape       bool `yaml:"strict_domain_escape"`
	IterativeSmoothingLength bool `yaml:"iterative_smoothing_length"`

	// InitialCondition names a registered initial-condition builder
	// (see presets.go) used when this config is expanded via
	// BuildInitialCondition.
	InitialCondition string             `yaml:"initial_condition"`
	InitialParams    map[string]float64 `yaml:"initial_params"`
}

// DensityConfig is the YAML form of density.Config.
type DensityConfig struct {
	Tolerance        float64 `yaml:"tolerance"`
	MaxIterations    int     `yaml:"max_iterations"`
	HMin             float64 `yaml:"h_min"`
	HMax             float64 `yaml:"h_max"`
	OnNonConvergence string  `yaml:"on_non_convergence"`
}

// AVConfig is the YAML form of viscosity.Config.
type AVConfig struct {
	Alpha      float64 `yaml:"alpha"`
	UseBalsara bool    `yaml:"use_balsara"`

	TimeDependent bool    `yaml:"time_dependent"`
	AlphaMin      float64 `yaml:"alpha_min"`
	AlphaMax      float64 `yaml:"alpha_max"`
	Epsilon       float64 `yaml:"epsilon"`
}

// ACConfig is the YAML form of viscosity.ACConfig.
type ACConfig struct {
	Alpha float64 `yaml:"alpha"`
}

// GSPHConfig is the YAML form of engine.GSPHOptions.
type GSPHConfig struct {
	SecondOrder bool `yaml:"second_order"`
}

// AxisConfig is the YAML form of one boundary.AxisConfig.
type AxisConfig struct {
	Type         string  `yaml:"type"`
	EnableLower  bool    `yaml:"enable_lower"`
	EnableUpper  bool    `yaml:"enable_upper"`
	Mode         string  `yaml:"mode"`
	Lo           float64 `yaml:"lo"`
	Hi           float64 `yaml:"hi"`
	SpacingLower float64 `yaml:"spacing_lower"`
	SpacingUpper float64 `yaml:"spacing_upper"`
}

// BoundaryConfig is the YAML form of boundary.Config.
type BoundaryConfig struct {
	Axes [3]AxisConfig `yaml:"axes"`
}

// TimestepConfig is the YAML form of timestep.Config.
type TimestepConfig struct {
	CFLSound float64 `yaml:"cfl_sound"`
	CFLForce float64 `yaml:"cfl_force"`
	Max      float64 `yaml:"max"`
}

// GravityConfig is the YAML form of force.GravityConfig.
type GravityConfig struct {
	Enabled   bool    `yaml:"enabled"`
	G         float64 `yaml:"g"`
	Softening float64 `yaml:"softening"`
}

// TimeConfig holds the run's start/end simulation time.
type TimeConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// OutputConfig holds the snapshot/energy emission cadence.
type OutputConfig struct {
	ParticleInterval float64 `yaml:"particle_interval"`
	EnergyInterval   float64 `yaml:"energy_interval"`
}

// DefaultConfig returns a 1D Sod-type shock-tube configuration,
// mirroring the teacher's DefaultConfig returning a runnable pendulum.
// It runs on [-0.5,0.5] with no boundary ghosts, 32 target neighbors,
// and sodShockTube's default 320+80 particles with a right-hand state
// of rho=0.25, P=0.1795.
func DefaultConfig() *Config {
	return &Config{
		Dim:            1,
		Kernel:         "cubic_spline",
		SPHType:        "ssph",
		Gamma:          DefaultGamma,
		NeighborNumber: DefaultNeighborNumber,
		Density: DensityConfig{
			Tolerance: 1e-4, MaxIterations: 50, HMin: 1e-4, HMax: 10.0,
			OnNonConvergence: "keep_last",
		},
		AV: AVConfig{
			Alpha: 1.0, UseBalsara: true,
			TimeDependent: false, AlphaMin: 0.1, AlphaMax: 1.0, Epsilon: 0.01,
		},
		IterativeSmoothingLength: true,
		Boundary: BoundaryConfig{
			Axes: [3]AxisConfig{
				{Type: "none", Lo: -0.5, Hi: 0.5},
			},
		},
		Timestep:         TimestepConfig{CFLSound: DefaultCFLSound, CFLForce: DefaultCFLForce, Max: DefaultTimestepMax},
		Time:             TimeConfig{Start: 0, End: 0.2},
		Output:           OutputConfig{ParticleInterval: 0.01, EnergyInterval: 0.01},
		InitialCondition: "sod_shock_tube",
	}
}

// Load reads and parses a YAML file at path, starting from
// DefaultConfig so any field the file omits keeps its default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save marshals cfg to YAML and writes it to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func parseNonConvergence(s string) (density.NonConvergencePolicy, error) {
	switch s {
	case "keep_last", "":
		return density.KeepLast, nil
	case "abort":
		return density.Abort, nil
	default:
		return 0, fmt.Errorf("config: unknown on_non_convergence %q", s)
	}
}

func parseAxisType(s string) (boundary.AxisType, error) {
	switch s {
	case "none", "":
		return boundary.None, nil
	case "periodic":
		return boundary.Periodic, nil
	case "mirror":
		return boundary.Mirror, nil
	default:
		return 0, fmt.Errorf("config: unknown boundary axis type %q", s)
	}
}

func parseMirrorMode(s string) (boundary.MirrorMode, error) {
	switch s {
	case "no_slip", "":
		return boundary.NoSlip, nil
	case "free_slip":
		return boundary.FreeSlip, nil
	default:
		return 0, fmt.Errorf("config: unknown mirror mode %q", s)
	}
}

// ToEngineConfig converts the YAML configuration into an
// internal/engine.Config, parsing every string-tagged enum field and
// returning the first parse error encountered.
func (c *Config) ToEngineConfig() (engine.Config, error) {
	krn, err := kernel.ParseKind(c.Kernel)
	if err != nil {
		return engine.Config{}, err
	}
	sphType, err := engine.ParseSPHType(c.SPHType)
	if err != nil {
		return engine.Config{}, err
	}
	onNC, err := parseNonConvergence(c.Density.OnNonConvergence)
	if err != nil {
		return engine.Config{}, err
	}

	var axes [3]boundary.AxisConfig
	for i := 0; i < c.Dim; i++ {
		a := c.Boundary.Axes[i]
		typ, err := parseAxisType(a.Type)
		if err != nil {
			return engine.Config{}, err
		}
		mode, err := parseMirrorMode(a.Mode)
		if err != nil {
			return engine.Config{}, err
		}
		axes[i] = boundary.AxisConfig{
			Type: typ, EnableLower: a.EnableLower, EnableUpper: a.EnableUpper,
			Mode: mode, Lo: a.Lo, Hi: a.Hi,
			SpacingLower: a.SpacingLower, SpacingUpper: a.SpacingUpper,
		}
	}

	cfg := engine.Config{
		Dim:            c.Dim,
		Kernel:         krn,
		SPHType:        sphType,
		Gamma:          c.Gamma,
		NeighborNumber: c.NeighborNumber,
		Density: density.Config{
			NeighborTarget:   c.NeighborNumber,
			Tolerance:        c.Density.Tolerance,
			MaxIterations:    c.Density.MaxIterations,
			HMin:             c.Density.HMin,
			HMax:             c.Density.HMax,
			OnNonConvergence: onNC,
		},
		AV: viscosity.Config{
			Alpha: c.AV.Alpha, UseBalsara: c.AV.UseBalsara,
			TimeDependent: c.AV.TimeDependent, AlphaMin: c.AV.AlphaMin, AlphaMax: c.AV.AlphaMax, Epsilon: c.AV.Epsilon,
		},
		AC:       viscosity.ACConfig{Alpha: c.AC.Alpha},
		GSPH:     engine.GSPHOptions{SecondOrder: c.GSPH.SecondOrder},
		Boundary: boundary.Config{Dim: c.Dim, Axes: axes},
		Timestep: timestep.Config{CSound: c.Timestep.CFLSound, CForce: c.Timestep.CFLForce, Max: c.Timestep.Max},
		Gravity:  force.GravityConfig{Enabled: c.Gravity.Enabled, G: c.Gravity.G, Softening: c.Gravity.Softening},

		TimeStart:              c.Time.Start,
		TimeEnd:                c.Time.End,
		OutputParticleInterval: c.Output.ParticleInterval,
		OutputEnergyInterval:   c.Output.EnergyInterval,

		Parallel:                 c.Parallel,
		StrictDomainEscape:       c.StrictDomainEscape,
		IterativeSmoothingLength: c.IterativeSmoothingLength,
	}
	return cfg, nil
}
