package engine

import (
	"fmt"

	"github.com/san-kum/gosph/internal/boundary"
	"github.com/san-kum/gosph/internal/density"
	"github.com/san-kum/gosph/internal/force"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/timestep"
	"github.com/san-kum/gosph/internal/viscosity"
)

// SPHType selects one of the three interchangeable force modules
// spec.md §4.7 specifies.
type SPHType int

const (
	SSPHType SPHType = iota
	DISPHType
	GSPHType
)

func (t SPHType) String() string {
	switch t {
	case SSPHType:
		return "ssph"
	case DISPHType:
		return "disph"
	case GSPHType:
		return "gsph"
	default:
		return "unknown"
	}
}

// ParseSPHType maps the config-file sph_type name to an SPHType
// (spec.md §6).
func ParseSPHType(name string) (SPHType, error) {
	switch name {
	case "ssph", "":
		return SSPHType, nil
	case "disph":
		return DISPHType, nil
	case "gsph":
		return GSPHType, nil
	default:
		return 0, fmt.Errorf("engine: unknown sph_type %q", name)
	}
}

// GSPHOptions holds the GSPH-specific knobs spec.md §6 lists
// (gsph.second_order). Kept as its own struct, rather than folded into
// a shared force-scheme config, so that setting an artificial-
// viscosity field alongside it is a type the GSPH path never reads —
// the structural half of spec.md §9's AV+GSPH exclusion; Config.Validate
// below supplies the other (runtime) half by rejecting a non-zero AV
// whenever SPHType is GSPH.
type GSPHOptions struct {
	SecondOrder bool
}

// Config is the full run configuration (spec.md §6's parameter
// object), validated once at construction time.
type Config struct {
	Dim     int
	Kernel  kernel.Kind
	SPHType SPHType
	Gamma   float64

	NeighborNumber float64
	Density        density.Config
	AV             viscosity.Config   // only meaningful for SSPH/DISPH
	AC             viscosity.ACConfig // only meaningful for SSPH/DISPH
	GSPH           GSPHOptions

	// IterativeSmoothingLength enables the Newton-Raphson coupled
	// density/h solve (spec.md §6). When false each particle's h is
	// held fixed at its supplied value.
	IterativeSmoothingLength bool

	Boundary boundary.Config
	Timestep timestep.Config
	Gravity  force.GravityConfig

	TimeStart, TimeEnd              float64
	OutputParticleInterval          float64
	OutputEnergyInterval            float64

	// Parallel selects the errgroup-chunked density/force execution
	// path (spec.md §5); false runs every phase serially, the "may
	// choose its execution model" escape hatch spec.md §5 and
	// SPEC_FULL.md §5 both call out.
	Parallel bool

	// StrictDomainEscape aborts the step (ErrDomainEscape) the first
	// time a real particle leaves a non-periodic bounded axis, instead
	// of the default log-and-continue policy (spec.md §7).
	StrictDomainEscape bool
}

// Validate enforces the construction-time invariants spec.md §7 calls
// Configuration errors, including the type-level-plus-runtime
// GSPH+artificial-viscosity exclusion spec.md §9 requires.
func (c Config) Validate() error {
	if c.Dim < 1 || c.Dim > 3 {
		return fmt.Errorf("%w: unsupported dimension %d", ErrConfiguration, c.Dim)
	}
	if c.Gamma <= 1 {
		return fmt.Errorf("%w: gamma must be > 1, got %f", ErrConfiguration, c.Gamma)
	}
	if c.NeighborNumber <= 0 {
		return fmt.Errorf("%w: neighbor_number must be positive, got %f", ErrConfiguration, c.NeighborNumber)
	}
	if c.SPHType == GSPHType && c.AV.Alpha != 0 {
		return fmt.Errorf("%w: gsph does not accept an artificial_viscosity configuration", ErrConfiguration)
	}
	if c.SPHType == GSPHType && c.AC.Alpha != 0 {
		return fmt.Errorf("%w: gsph does not accept an artificial_conductivity configuration", ErrConfiguration)
	}
	if c.AV.TimeDependent && c.AV.AlphaMin > c.AV.AlphaMax {
		return fmt.Errorf("%w: artificial_viscosity.alpha_min must be <= alpha_max", ErrConfiguration)
	}
	if c.TimeEnd <= c.TimeStart {
		return fmt.Errorf("%w: time.end must be > time.start", ErrConfiguration)
	}
	if c.OutputParticleInterval <= 0 {
		return fmt.Errorf("%w: output.particle_interval must be positive", ErrConfiguration)
	}
	if c.OutputEnergyInterval <= 0 {
		return fmt.Errorf("%w: output.energy_interval must be positive", ErrConfiguration)
	}
	if err := c.Boundary.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := c.Timestep.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	densityCfg := c.densityConfig()
	if err := densityCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if c.Gravity.Enabled && c.Gravity.G <= 0 {
		return fmt.Errorf("%w: gravity.G must be positive when enabled", ErrConfiguration)
	}
	return nil
}

// densityConfig returns Config.Density with NeighborTarget defaulted
// from the top-level NeighborNumber when the caller left it unset, so
// physics.neighbor_number (spec.md §6) has one authoritative source.
func (c Config) densityConfig() density.Config {
	d := c.Density
	if d.NeighborTarget == 0 {
		d.NeighborTarget = c.NeighborNumber
	}
	d.FixedSmoothingLength = !c.IterativeSmoothingLength
	return d
}
