// Package boundary generates and regenerates ghost particles at domain
// boundaries (spec.md §4.3). Ghosts are never integrated; they exist
// only between a Regenerate call and the next motion of real particles
// (spec.md §3 Lifecycle).
package boundary

import "fmt"

// AxisType selects how a domain axis handles its boundary.
type AxisType int

const (
	None AxisType = iota
	Periodic
	Mirror
)

func (t AxisType) String() string {
	switch t {
	case None:
		return "none"
	case Periodic:
		return "periodic"
	case Mirror:
		return "mirror"
	default:
		return "unknown"
	}
}

// MirrorMode selects how a mirror ghost's velocity is reflected.
type MirrorMode int

const (
	NoSlip MirrorMode = iota
	FreeSlip
)

// AxisConfig is one axis's boundary configuration. EnableLower/
// EnableUpper only apply to Mirror axes — "ghosts enabled" for
// Periodic is implicit and structural, never a separate toggle
// (spec.md §9's Boundary configuration API note).
type AxisConfig struct {
	Type                       AxisType
	EnableLower, EnableUpper   bool
	Mode                       MirrorMode
	Lo, Hi                     float64
	SpacingLower, SpacingUpper float64
}

// Config is the full per-axis boundary configuration, immutable after
// Validate succeeds (spec.md §4.3).
type Config struct {
	Dim  int
	Axes [3]AxisConfig
}

// Validate enforces the construction-time invariants spec.md §7 calls
// Configuration errors: Lo < Hi for any bounded axis, and — the
// structural requirement spec.md §9 flags — a Periodic or Mirror axis
// with no enabled face is an invariant violation, not a silent no-op.
func (c Config) Validate() error {
	if c.Dim < 1 || c.Dim > 3 {
		return fmt.Errorf("boundary: unsupported dimension %d", c.Dim)
	}
	for a := 0; a < c.Dim; a++ {
		ax := c.Axes[a]
		switch ax.Type {
		case None:
			continue
		case Periodic:
			if ax.Lo >= ax.Hi {
				return fmt.Errorf("boundary: axis %d periodic range invalid: lo=%f >= hi=%f", a, ax.Lo, ax.Hi)
			}
		case Mirror:
			if ax.Lo >= ax.Hi {
				return fmt.Errorf("boundary: axis %d mirror range invalid: lo=%f >= hi=%f", a, ax.Lo, ax.Hi)
			}
			if !ax.EnableLower && !ax.EnableUpper {
				return fmt.Errorf("boundary: axis %d is mirror but has no enabled face — ghosts are structurally required for a non-none boundary type", a)
			}
		default:
			return fmt.Errorf("boundary: axis %d has unknown boundary type %d", a, ax.Type)
		}
	}
	return nil
}

// length returns Hi-Lo, used as the periodic wrap length.
func (a AxisConfig) length() float64 { return a.Hi - a.Lo }
