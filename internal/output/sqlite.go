package output

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/san-kum/gosph/internal/metrics"
	"github.com/san-kum/gosph/internal/particle"
)

// Archive is an optional queryable multi-run store, grounded on
// _examples/ehrlich-b-wingthing/internal/store.Store's
// database/sql+modernc.org/sqlite wiring (WAL mode, foreign keys on,
// idempotent CREATE TABLE IF NOT EXISTS in place of a migrations
// directory since this schema never needs to evolve across runs). A
// CSV run directory (Writer, in writer.go) is always produced; Archive is an
// additional sink a caller opts into for cross-run SQL queries.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (creating if absent) the sqlite database at dsn
// and ensures its schema exists.
func OpenArchive(dsn string) (*Archive, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("output: opening archive: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("output: enabling WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("output: enabling foreign keys: %w", err)
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			dim INTEGER NOT NULL,
			sph_type TEXT NOT NULL,
			kernel_kind TEXT NOT NULL,
			particle_count INTEGER NOT NULL,
			time_start REAL NOT NULL,
			time_end REAL NOT NULL,
			neighbor_number REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS particle_snapshots (
			run_id TEXT NOT NULL REFERENCES runs(id),
			step INTEGER NOT NULL,
			time REAL NOT NULL,
			particle_id INTEGER NOT NULL,
			pos_x REAL, pos_y REAL, pos_z REAL,
			vel_x REAL, vel_y REAL, vel_z REAL,
			mass REAL, dens REAL, pres REAL, ene REAL, sound REAL, sml REAL,
			neighbor INTEGER, balsara REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_particle_snapshots_run_step
			ON particle_snapshots(run_id, step)`,
		`CREATE TABLE IF NOT EXISTS energy_records (
			run_id TEXT NOT NULL REFERENCES runs(id),
			time REAL NOT NULL,
			kinetic REAL, thermal REAL, total REAL,
			momentum_x REAL, momentum_y REAL, momentum_z REAL,
			ang_momentum_x REAL, ang_momentum_y REAL, ang_momentum_z REAL
		)`,
	}
	for _, s := range stmts {
		if _, err := a.db.Exec(s); err != nil {
			return fmt.Errorf("output: migrating schema: %w", err)
		}
	}
	return nil
}

// InsertRun records a run's metadata row, keyed by RunMetadata.ID.
func (a *Archive) InsertRun(meta RunMetadata) error {
	_, err := a.db.Exec(
		`INSERT OR REPLACE INTO runs (id, timestamp, dim, sph_type, kernel_kind, particle_count, time_start, time_end, neighbor_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Timestamp, meta.Dim, meta.SPHType, meta.KernelKind, meta.ParticleCount, meta.TimeStart, meta.TimeEnd, meta.NeighborNumber,
	)
	if err != nil {
		return fmt.Errorf("output: inserting run: %w", err)
	}
	return nil
}

// InsertParticles appends one step's real-particle snapshot for runID
// inside a single transaction, so a crash mid-step never leaves a
// partial snapshot queryable.
func (a *Archive) InsertParticles(runID string, step int, t float64, reals []particle.Particle) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("output: beginning snapshot tx: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO particle_snapshots
			(run_id, step, time, particle_id, pos_x, pos_y, pos_z, vel_x, vel_y, vel_z,
			 mass, dens, pres, ene, sound, sml, neighbor, balsara)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("output: preparing snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range reals {
		_, err := stmt.Exec(runID, step, t, p.ID,
			p.Pos[0], p.Pos[1], p.Pos[2], p.Vel[0], p.Vel[1], p.Vel[2],
			p.Mass, p.Dens, p.Pres, p.Ene, p.Sound, p.Sml, p.Neighbor, p.Balsara)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("output: inserting particle %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// InsertEnergy appends one energy record for runID.
func (a *Archive) InsertEnergy(runID string, rec metrics.EnergyRecord) error {
	_, err := a.db.Exec(
		`INSERT INTO energy_records
			(run_id, time, kinetic, thermal, total, momentum_x, momentum_y, momentum_z,
			 ang_momentum_x, ang_momentum_y, ang_momentum_z)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.Time, rec.Kinetic, rec.Thermal, rec.Total,
		rec.LinearMomentum[0], rec.LinearMomentum[1], rec.LinearMomentum[2],
		rec.AngularMomentum[0], rec.AngularMomentum[1], rec.AngularMomentum[2],
	)
	if err != nil {
		return fmt.Errorf("output: inserting energy record: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (a *Archive) Close() error { return a.db.Close() }

// ArchiveSink adapts an Archive plus a fixed run ID into the same
// OutputSink shape Writer satisfies, so a caller can fan a single
// engine.Run call out to both the CSV directory and the SQL archive
// via a small MultiSink wrapper (see internal/output/multi.go).
type ArchiveSink struct {
	Archive *Archive
	RunID   string
}

func (s ArchiveSink) WriteParticles(step int, t float64, reals []particle.Particle) error {
	return s.Archive.InsertParticles(s.RunID, step, t, reals)
}

func (s ArchiveSink) WriteEnergy(rec metrics.EnergyRecord) error {
	return s.Archive.InsertEnergy(s.RunID, rec)
}
