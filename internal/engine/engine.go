package engine

import (
	"context"
	"math"

	"github.com/san-kum/gosph/internal/boundary"
	"github.com/san-kum/gosph/internal/coordinator"
	"github.com/san-kum/gosph/internal/density"
	"github.com/san-kum/gosph/internal/diagnostics"
	"github.com/san-kum/gosph/internal/force"
	"github.com/san-kum/gosph/internal/kernel"
	"github.com/san-kum/gosph/internal/metrics"
	"github.com/san-kum/gosph/internal/particle"
	"github.com/san-kum/gosph/internal/timestep"
	"github.com/san-kum/gosph/internal/vecd"
	"github.com/san-kum/gosph/internal/viscosity"
)

// OutputSink is the external collaborator interface spec.md §1/§6
// names without specifying a format: a snapshot writer. Implementations
// (internal/output.Writer) are never imported here — engine only needs
// the shape, a structural Go interface, so there is no import back
// from output to engine.
type OutputSink interface {
	WriteParticles(step int, time float64, reals []particle.Particle) error
	WriteEnergy(rec metrics.EnergyRecord) error
}

// StepReport summarizes one completed step for a caller driving Run
// manually (e.g. a TUI polling loop).
type StepReport struct {
	Step               int
	Time, Dt           float64
	ParticleOutputDue  bool
	EnergyOutputDue    bool
	GhostCount         int
	NeighborStats      metrics.NeighborStats
}

// Engine owns every core subsystem and runs the spec.md §4.12 step
// loop over a mutable real-particle array. Grounded on
// internal/sim.Simulator's field layout (dynamics/integrator/
// controller each replaced by the SPH analog: kernel/scheme/solver).
type Engine struct {
	cfg Config
	dim int

	krn      kernel.Kernel
	boundary *boundary.Manager
	coord    *coordinator.Coordinator
	density  *density.Solver
	scheme   force.Scheme

	diag *diagnostics.Log

	reals  []particle.Particle
	ghosts []particle.Particle

	time float64
	step int

	nextParticleOutput float64
	nextEnergyOutput   float64

	initialLinearMomentum float64
	momentumDrift         metrics.MomentumDrift
	lastEnergy            metrics.EnergyRecord
}

// New validates cfg, builds every core subsystem, bootstraps the
// initial smoothing length/density per spec.md §3's Lifecycle (a
// ghost-free solve, then the first ghost generation and full resync),
// and returns a ready-to-Step Engine.
func New(cfg Config, reals []particle.Particle) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	krn, err := kernel.New(cfg.Kernel, cfg.Dim)
	if err != nil {
		return nil, err
	}
	boundaryMgr, err := boundary.NewManager(cfg.Boundary)
	if err != nil {
		return nil, err
	}
	densitySolver, err := density.New(krn, cfg.Dim, cfg.densityConfig())
	if err != nil {
		return nil, err
	}
	scheme, err := buildScheme(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		dim:      cfg.Dim,
		krn:      krn,
		boundary: boundaryMgr,
		coord:    coordinator.New(cfg.Dim, boundaryMgr.Periodic()),
		density:  densitySolver,
		scheme:   scheme,
		diag:     diagnostics.NewLog(),
		reals:    append([]particle.Particle(nil), reals...),

		nextParticleOutput: cfg.TimeStart + cfg.OutputParticleInterval,
		nextEnergyOutput:   cfg.TimeStart + cfg.OutputEnergyInterval,
		time:               cfg.TimeStart,
	}

	alphaInit := cfg.AV.Alpha
	if cfg.AV.TimeDependent {
		alphaInit = cfg.AV.AlphaMax
	}
	for i := range e.reals {
		e.reals[i].AlphaVisc = alphaInit
	}

	if err := e.bootstrap(); err != nil {
		return nil, err
	}
	return e, nil
}

// buildScheme constructs the configured force.Scheme. Kept as a
// switch over the small closed SPHType set, the way kernel.New
// switches over kernel.Kind (spec.md §9's "tagged variants for kernels
// ... small closed set").
func buildScheme(cfg Config) (force.Scheme, error) {
	switch cfg.SPHType {
	case SSPHType:
		return force.SSPH{Cfg: force.SSPHConfig{Gamma: cfg.Gamma, AV: cfg.AV, AC: cfg.AC, UseGradH: true}}, nil
	case DISPHType:
		return force.DISPH{Cfg: force.DISPHConfig{Gamma: cfg.Gamma, AV: cfg.AV, AC: cfg.AC}}, nil
	case GSPHType:
		return force.GSPH{Cfg: force.GSPHConfig{Gamma: cfg.Gamma, UseMUSCL: cfg.GSPH.SecondOrder}}, nil
	default:
		return nil, ErrConfiguration
	}
}

// bootstrap computes the initial smoothing length/density for every
// real particle via a ghost-free solve (spec.md §3: "the solver
// computes initial sml/density via ... a tree built only on reals"),
// then generates the first ghost set from those positions and
// resyncs the combined buffer and tree with reals+ghosts.
func (e *Engine) bootstrap() error {
	for i := range e.reals {
		if e.reals[i].Sml <= 0 {
			e.reals[i].Sml = e.heuristicSml()
		}
	}

	e.coord.Resync(e.reals, nil)
	if err := e.runDensitySolve(0); err != nil {
		return err
	}

	maxSml := e.maxSml()
	e.boundary.SetKernelSupport(e.krn.SupportRadius(maxSml))
	e.ghosts = e.boundary.Regenerate(e.reals)
	e.coord.Resync(e.reals, e.ghosts)
	e.coord.SyncGhostFieldsFromReal(e.reals)

	rec := metrics.Energy(e.reals, e.dim, e.time)
	e.initialLinearMomentum = rec.LinearMomentum.Norm()
	e.momentumDrift.Observe(e.initialLinearMomentum)
	return nil
}

// heuristicSml estimates a starting smoothing length from the real
// particles' bounding box and count, for any particle whose initial
// guess was left unset (spec.md §3's Lifecycle: "sml is
// uninitialized"). h ~ (domain extent / N)^(1/dim), the usual
// order-of-magnitude SPH seed.
func (e *Engine) heuristicSml() float64 {
	n := len(e.reals)
	if n == 0 {
		return 1.0
	}
	min, max := e.reals[0].Pos, e.reals[0].Pos
	for _, p := range e.reals {
		for a := 0; a < e.dim; a++ {
			if p.Pos[a] < min[a] {
				min[a] = p.Pos[a]
			}
			if p.Pos[a] > max[a] {
				max[a] = p.Pos[a]
			}
		}
	}
	vol := 1.0
	for a := 0; a < e.dim; a++ {
		extent := max[a] - min[a]
		if extent <= 0 {
			extent = 1.0
		}
		vol *= extent
	}
	perParticle := vol / float64(n)
	return math.Pow(perParticle, 1.0/float64(e.dim))
}

func (e *Engine) maxSml() float64 {
	max := 0.0
	for _, p := range e.reals {
		if p.Sml > max {
			max = p.Sml
		}
	}
	return max
}

// runDensitySolve drives density.Solver over every real particle,
// serially or via errgroup chunks per cfg.Parallel, writes the
// results back onto e.reals, pushes them into the coordinator buffer,
// and computes the per-particle gradients/Balsara switch and
// time-dependent AV alpha every scheme needs (spec.md §4.6, §9's
// gradient-refresh resolution, §4.10). dt is the step's already-chosen
// timestep (0 during bootstrap, where there is no prior step to
// evolve alpha over).
func (e *Engine) runDensitySolve(dt float64) error {
	nReal := len(e.reals)
	results := make([]density.Result, nReal)

	err := parallelRange(nReal, e.cfg.Parallel, func(i int) error {
		res, err := e.density.SolveOne(e.coord, i, e.reals[i].Mass, e.reals[i].Sml)
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		if nc, ok := err.(*density.NonConvergenceError); ok {
			e.diag.Fatalf("density", e.step, nc.ParticleIndex, "%v", nc)
			return &StepError{Step: e.step, Time: e.time, Subsystem: "density", Wrapped: ErrNonConvergence}
		}
		return &StepError{Step: e.step, Time: e.time, Subsystem: "density", Wrapped: err}
	}

	neighborCounts := make([]int, nReal)
	for i, res := range results {
		if !res.Converged {
			e.diag.Warn("density", e.step, "particle %d did not converge in %d iterations, keeping last h=%g", i, res.Iterations, res.Sml)
		}
		if res.Truncated {
			e.diag.Warn("tree", e.step, "particle %d density neighbor query truncated", i)
		}
		p := e.reals[i]
		p.Dens = res.Dens
		p.Sml = res.Sml
		p.GradH = res.GradH
		p.Neighbor = res.Neighbor
		p.Pres = force.IdealGasPressure(p.Dens, p.Ene, e.cfg.Gamma)
		p.Sound = force.SoundSpeed(p.Dens, p.Pres, e.cfg.Gamma)
		e.reals[i] = p
		e.coord.UpdateReal(i, p)
		neighborCounts[i] = res.Neighbor
	}

	grads := force.ComputeGradients(e.coord, e.krn, e.cfg.Gamma)
	for i := range e.reals {
		p := e.reals[i]
		p.GradDens = grads.Dens[i]
		p.GradPres = grads.Pres[i]
		p.GradVel = grads.Vel[i]
		divV := p.GradVel.Trace(e.dim)
		curlNorm := p.GradVel.AntisymmetricNorm(e.dim)
		p.Balsara = viscosity.BalsaraSwitch(divV, curlNorm, p.Sound, p.Sml)
		p.AlphaVisc = viscosity.EvolveAlpha(p.AlphaVisc, divV, p.Sound, p.Sml, dt, e.cfg.AV)
		e.reals[i] = p
		e.coord.UpdateReal(i, p)
	}

	e.coord.SyncGhostFieldsFromReal(e.reals)
	return nil
}

// Step advances the simulation by one predict/ghost-refresh/rebuild/
// density/force/correct cycle (spec.md §4.12). The eight numbered
// steps there form a total order; Step never reorders or overlaps
// them.
func (e *Engine) Step(ctx context.Context) (StepReport, error) {
	select {
	case <-ctx.Done():
		return StepReport{}, ctx.Err()
	default:
	}

	dt := e.computeDt()
	if e.time+dt > e.cfg.TimeEnd {
		dt = e.cfg.TimeEnd - e.time
	}

	e.predict(dt)

	e.boundary.SetKernelSupport(e.krn.SupportRadius(e.maxSml()))
	e.ghosts = e.boundary.Regenerate(e.reals)
	e.coord.Resync(e.reals, e.ghosts)

	if err := e.runDensitySolve(dt); err != nil {
		return StepReport{}, err
	}

	out, err := e.runForce(dt)
	if err != nil {
		return StepReport{}, &StepError{Step: e.step, Time: e.time, Subsystem: "force", Wrapped: err}
	}
	force.AddDirectGravity(e.coord, e.cfg.Gravity, out)

	e.correct(dt, out)
	if err := e.checkDomainEscape(); err != nil {
		return StepReport{}, err
	}

	e.time += dt
	e.step++

	rec := metrics.Energy(e.reals, e.dim, e.time)
	e.lastEnergy = rec
	e.momentumDrift.Observe(rec.LinearMomentum.Norm())

	e.diag.Info("ghost", e.step, "%d ghosts generated for %d real particles", len(e.ghosts), len(e.reals))

	report := StepReport{
		Step:        e.step,
		Time:        e.time,
		Dt:          dt,
		GhostCount:  len(e.ghosts),
		NeighborStats: metrics.SummarizeNeighbors(e.neighborCounts()),
	}
	if e.time >= e.nextParticleOutput-1e-12 {
		report.ParticleOutputDue = true
		e.nextParticleOutput += e.cfg.OutputParticleInterval
	}
	if e.time >= e.nextEnergyOutput-1e-12 {
		report.EnergyOutputDue = true
		e.nextEnergyOutput += e.cfg.OutputEnergyInterval
	}
	return report, nil
}

func (e *Engine) neighborCounts() []int {
	counts := make([]int, len(e.reals))
	for i, p := range e.reals {
		counts[i] = p.Neighbor
	}
	return counts
}

func (e *Engine) computeDt() float64 {
	ps := make([]timestep.Particle, len(e.reals))
	for i, p := range e.reals {
		ps[i] = timestep.Particle{Sml: p.Sml, Sound: p.Sound, Vel: p.Vel, Acc: p.Acc}
	}
	return timestep.Compute(ps, e.cfg.Timestep)
}

// predict is step 2 of spec.md §4.12: advance pos/vel by dt using the
// current acceleration, storing the mid-step velocity the corrector
// needs.
func (e *Engine) predict(dt float64) {
	for i := range e.reals {
		p := e.reals[i]
		velHalf := p.Vel.Add(p.Acc.Scale(0.5 * dt))
		p.Pos = p.Pos.Add(velHalf.Scale(dt))
		p.VelHalf = velHalf
		p.Vel = velHalf
		e.reals[i] = p
	}
}

// correct is step 7 of spec.md §4.12: finalize vel/ene from the new
// acceleration and energy rate, completing the leapfrog kick that
// predict's half-step began.
func (e *Engine) correct(dt float64, out force.Output) {
	for i := range e.reals {
		p := e.reals[i]
		acc := out.Accel[i]
		p.Vel = p.VelHalf.Add(acc.Scale(0.5 * dt))
		p.Acc = acc
		p.DtEnergy = out.DtEnergy[i]
		p.Ene += dt * p.DtEnergy
		if p.Ene < 0 {
			p.Ene = 0
		}
		e.reals[i] = p
	}
}

// runForce dispatches to the scheme's errgroup-parallel path when
// cfg.Parallel is set and the scheme implements force.ParallelCompute
// (SSPH, GSPH); otherwise it falls back to the scheme's own serial
// Compute (always the path for DISPH, see force.ParallelCompute's
// doc).
func (e *Engine) runForce(dt float64) (force.Output, error) {
	nReal := len(e.reals)
	pc, ok := e.scheme.(force.ParallelCompute)
	if !e.cfg.Parallel || !ok {
		return e.scheme.Compute(e.coord, e.krn, e.dim, dt)
	}

	accel := make([]vecd.Vec, nReal)
	dtEnergy := make([]float64, nReal)
	err := parallelRange(nReal, true, func(i int) error {
		a, de, err := pc.ComputeAt(e.coord, e.krn, e.dim, i, dt)
		if err != nil {
			return err
		}
		accel[i] = a
		dtEnergy[i] = de
		return nil
	})
	if err != nil {
		return force.Output{}, err
	}
	return force.Output{Accel: accel, DtEnergy: dtEnergy}, nil
}

// checkDomainEscape enforces spec.md §7's Domain escape policy: for
// every axis that is not periodic but does have a bounded range, a
// real particle outside [lo,hi] is logged (default) or, under
// Config.StrictDomainEscape, escalated into a fatal step error.
func (e *Engine) checkDomainEscape() error {
	for a := 0; a < e.dim; a++ {
		ax := e.cfg.Boundary.Axes[a]
		if ax.Type == boundary.Periodic || ax.Lo >= ax.Hi {
			continue
		}
		for i, p := range e.reals {
			if p.Pos[a] < ax.Lo || p.Pos[a] > ax.Hi {
				if e.cfg.StrictDomainEscape {
					e.diag.Fatalf("boundary", e.step, i, "escaped axis %d domain [%g,%g]: pos=%g", a, ax.Lo, ax.Hi, p.Pos[a])
					return &StepError{Step: e.step, Time: e.time, Subsystem: "boundary", Wrapped: ErrDomainEscape}
				}
				e.diag.Warn("boundary", e.step, "particle %d escaped axis %d domain [%g,%g]: pos=%g", i, a, ax.Lo, ax.Hi, p.Pos[a])
			}
		}
	}
	return nil
}

// Run drives Step to completion (time reaches cfg.TimeEnd) or until
// ctx is canceled, emitting snapshots through sink whenever a step
// reports an output is due (spec.md §6's "Snapshots are emitted
// whenever time >= next_particle_output_time").
func (e *Engine) Run(ctx context.Context, sink OutputSink) error {
	if sink != nil {
		if err := sink.WriteParticles(e.step, e.time, e.reals); err != nil {
			return err
		}
		if err := sink.WriteEnergy(metrics.Energy(e.reals, e.dim, e.time)); err != nil {
			return err
		}
	}

	for e.time < e.cfg.TimeEnd {
		report, err := e.Step(ctx)
		if err != nil {
			return err
		}
		if sink == nil {
			continue
		}
		if report.ParticleOutputDue {
			if err := sink.WriteParticles(report.Step, report.Time, e.reals); err != nil {
				return err
			}
		}
		if report.EnergyOutputDue {
			if err := sink.WriteEnergy(metrics.Energy(e.reals, e.dim, report.Time)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Time returns the current simulation time.
func (e *Engine) Time() float64 { return e.time }

// StepCount returns the number of completed steps.
func (e *Engine) StepCount() int { return e.step }

// Reals returns a snapshot copy of the real-particle array.
func (e *Engine) Reals() []particle.Particle {
	return append([]particle.Particle(nil), e.reals...)
}

// Diagnostics returns the accumulated diagnostic log.
func (e *Engine) Diagnostics() *diagnostics.Log { return e.diag }

// MomentumDriftMax returns the largest relative linear-momentum drift
// observed so far (spec.md §8's closed-periodic-domain invariant).
func (e *Engine) MomentumDriftMax() float64 { return e.momentumDrift.MaxDrift() }

// TimeEnd returns the configured end-of-run simulation time.
func (e *Engine) TimeEnd() float64 { return e.cfg.TimeEnd }

// Done reports whether the run has reached its configured end time.
func (e *Engine) Done() bool { return e.time >= e.cfg.TimeEnd }

// LastEnergy returns the energy record computed after the most recent
// Step call (the zero EnergyRecord before the first step).
func (e *Engine) LastEnergy() metrics.EnergyRecord { return e.lastEnergy }
