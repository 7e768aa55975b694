package output

import (
	"github.com/san-kum/gosph/internal/metrics"
	"github.com/san-kum/gosph/internal/particle"
)

// Sink is the minimal interface both Writer and ArchiveSink satisfy;
// defined here (rather than imported from internal/engine) so this
// package has no dependency back on engine.
type Sink interface {
	WriteParticles(step int, t float64, reals []particle.Particle) error
	WriteEnergy(rec metrics.EnergyRecord) error
}

// MultiSink fans one engine.Run call out to several sinks, stopping
// at the first error (spec.md §6 doesn't require multi-sink fan-out,
// but running both a CSV Writer and a SQLite Archive off one engine
// is the natural way to exercise both without duplicating the step
// loop).
type MultiSink struct {
	Sinks []Sink
}

func (m MultiSink) WriteParticles(step int, t float64, reals []particle.Particle) error {
	for _, s := range m.Sinks {
		if err := s.WriteParticles(step, t, reals); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) WriteEnergy(rec metrics.EnergyRecord) error {
	for _, s := range m.Sinks {
		if err := s.WriteEnergy(rec); err != nil {
			return err
		}
	}
	return nil
}
