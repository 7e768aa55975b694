// Package output persists per-step particle snapshots and energy
// records to disk (spec.md §6), grounded on the teacher's
// internal/storage.Store run-directory layout (a metadata.json plus
// one CSV per record stream) but swapping the hand-rolled
// encoding/csv writer for github.com/gocarina/gocsv struct-tag
// marshaling, the way _examples/pthm-soup/telemetry.OutputManager
// writes its telemetry/perf/bookmark CSVs: Marshal on the first
// write (to emit the header), MarshalWithoutHeaders afterward.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/gosph/internal/metrics"
	"github.com/san-kum/gosph/internal/particle"
)

// ParticleRecord is one real particle's state at one output step,
// flattened for CSV (gocsv has no notion of vecd.Vec, so every
// component gets its own column).
type ParticleRecord struct {
	Step     int     `csv:"step"`
	Time     float64 `csv:"time"`
	ID       int     `csv:"id"`
	PosX     float64 `csv:"pos_x"`
	PosY     float64 `csv:"pos_y"`
	PosZ     float64 `csv:"pos_z"`
	VelX     float64 `csv:"vel_x"`
	VelY     float64 `csv:"vel_y"`
	VelZ     float64 `csv:"vel_z"`
	Mass     float64 `csv:"mass"`
	Dens     float64 `csv:"dens"`
	Pres     float64 `csv:"pres"`
	Ene      float64 `csv:"ene"`
	Sound    float64 `csv:"sound"`
	Sml      float64 `csv:"sml"`
	Neighbor int     `csv:"neighbor"`
	Balsara  float64 `csv:"balsara"`
}

// EnergyRecordCSV mirrors metrics.EnergyRecord with vecd.Vec
// components flattened into columns, for the same gocsv reason as
// ParticleRecord above.
type EnergyRecordCSV struct {
	Time         float64 `csv:"time"`
	Kinetic      float64 `csv:"kinetic"`
	Thermal      float64 `csv:"thermal"`
	Total        float64 `csv:"total"`
	MomentumX    float64 `csv:"momentum_x"`
	MomentumY    float64 `csv:"momentum_y"`
	MomentumZ    float64 `csv:"momentum_z"`
	AngMomentumX float64 `csv:"ang_momentum_x"`
	AngMomentumY float64 `csv:"ang_momentum_y"`
	AngMomentumZ float64 `csv:"ang_momentum_z"`
}

func toParticleRecords(step int, t float64, reals []particle.Particle) []ParticleRecord {
	recs := make([]ParticleRecord, len(reals))
	for i, p := range reals {
		recs[i] = ParticleRecord{
			Step: step, Time: t, ID: p.ID,
			PosX: p.Pos[0], PosY: p.Pos[1], PosZ: p.Pos[2],
			VelX: p.Vel[0], VelY: p.Vel[1], VelZ: p.Vel[2],
			Mass: p.Mass, Dens: p.Dens, Pres: p.Pres, Ene: p.Ene,
			Sound: p.Sound, Sml: p.Sml, Neighbor: p.Neighbor, Balsara: p.Balsara,
		}
	}
	return recs
}

func toEnergyRecord(rec metrics.EnergyRecord) EnergyRecordCSV {
	return EnergyRecordCSV{
		Time: rec.Time, Kinetic: rec.Kinetic, Thermal: rec.Thermal, Total: rec.Total,
		MomentumX: rec.LinearMomentum[0], MomentumY: rec.LinearMomentum[1], MomentumZ: rec.LinearMomentum[2],
		AngMomentumX: rec.AngularMomentum[0], AngMomentumY: rec.AngularMomentum[1], AngMomentumZ: rec.AngularMomentum[2],
	}
}

// RunMetadata is the run's metadata.json, grounded on the teacher's
// storage.RunMetadata (id/model/timestamp/seed/... as JSON tags), with
// the dynamics-model fields replaced by the SPH run's identifying
// parameters.
type RunMetadata struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Dim            int       `json:"dim"`
	SPHType        string    `json:"sph_type"`
	KernelKind     string    `json:"kernel_kind"`
	ParticleCount  int       `json:"particle_count"`
	TimeStart      float64   `json:"time_start"`
	TimeEnd        float64   `json:"time_end"`
	NeighborNumber float64   `json:"neighbor_number"`
}

// Writer is the default OutputSink: a run directory holding
// metadata.json, particles.csv, and energy.csv. It satisfies
// internal/engine.OutputSink structurally; engine never imports this
// package.
type Writer struct {
	dir string

	particlesFile *os.File
	energyFile    *os.File

	particlesHeaderWritten bool
	energyHeaderWritten    bool
}

// NewWriter creates runDir (and its parents) and opens particles.csv
// and energy.csv for writing, truncating any existing run of the same
// name.
func NewWriter(runDir string) (*Writer, error) {
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("output: creating run directory: %w", err)
	}

	pf, err := os.Create(filepath.Join(runDir, "particles.csv"))
	if err != nil {
		return nil, fmt.Errorf("output: creating particles.csv: %w", err)
	}
	ef, err := os.Create(filepath.Join(runDir, "energy.csv"))
	if err != nil {
		pf.Close()
		return nil, fmt.Errorf("output: creating energy.csv: %w", err)
	}

	return &Writer{dir: runDir, particlesFile: pf, energyFile: ef}, nil
}

// WriteMetadata writes meta to metadata.json, overwriting any
// previous contents.
func (w *Writer) WriteMetadata(meta RunMetadata) error {
	path := filepath.Join(w.dir, "metadata.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: creating metadata.json: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// WriteParticles appends one step's real-particle snapshot to
// particles.csv.
func (w *Writer) WriteParticles(step int, t float64, reals []particle.Particle) error {
	recs := toParticleRecords(step, t, reals)
	if len(recs) == 0 {
		return nil
	}
	if !w.particlesHeaderWritten {
		if err := gocsv.Marshal(recs, w.particlesFile); err != nil {
			return fmt.Errorf("output: writing particles.csv: %w", err)
		}
		w.particlesHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(recs, w.particlesFile); err != nil {
		return fmt.Errorf("output: writing particles.csv: %w", err)
	}
	return nil
}

// WriteEnergy appends one energy record to energy.csv.
func (w *Writer) WriteEnergy(rec metrics.EnergyRecord) error {
	recs := []EnergyRecordCSV{toEnergyRecord(rec)}
	if !w.energyHeaderWritten {
		if err := gocsv.Marshal(recs, w.energyFile); err != nil {
			return fmt.Errorf("output: writing energy.csv: %w", err)
		}
		w.energyHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(recs, w.energyFile); err != nil {
		return fmt.Errorf("output: writing energy.csv: %w", err)
	}
	return nil
}

// Close flushes and closes both CSV files.
func (w *Writer) Close() error {
	err1 := w.particlesFile.Close()
	err2 := w.energyFile.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
