// Package coordinator owns the combined real+ghost search buffer and
// the Barnes–Hut tree built over it, and synchronizes the two before
// every neighbor query (spec.md §4.5, §9). No other package mutates
// the combined buffer.
package coordinator

import (
	"github.com/san-kum/gosph/internal/particle"
	"github.com/san-kum/gosph/internal/tree"
	"github.com/san-kum/gosph/internal/vecd"
)

// reserveBuffer is the constant slack (spec.md §4.5, "e.g. 100")
// added on top of N_total whenever the buffer must grow, so its
// backing array — and therefore the tree's indices into it — stays
// stable for the rest of the step.
const reserveBuffer = 100

// Coordinator synchronizes the combined particle buffer and rebuilds
// the tree over it. It is the only thing allowed to mutate the
// combined buffer's contents (reals and ghosts are copied in, never
// mutated in place by anyone else).
type Coordinator struct {
	dim      int
	periodic vecd.Periodic

	buffer   []particle.Particle
	positions []vecd.Vec
	nReal    int

	tr *tree.Tree
}

// New creates a coordinator for the given dimension and periodic
// wrapper.
func New(dim int, periodic vecd.Periodic) *Coordinator {
	return &Coordinator{
		dim:      dim,
		periodic: periodic,
		tr:       tree.New(dim, periodic),
	}
}

// Resync copies reals then ghosts into the combined buffer, growing it
// with the reserve-with-buffer policy when needed, assigns id[i]=i to
// every entry, and rebuilds the tree over the new buffer. This is the
// one operation spec.md §4.5 calls "the error-prone synchronization
// that must precede any neighbor query."
func (c *Coordinator) Resync(reals, ghosts []particle.Particle) {
	nTotal := len(reals) + len(ghosts)
	c.nReal = len(reals)

	if cap(c.buffer) < nTotal {
		newBuf := make([]particle.Particle, nTotal, nTotal+reserveBuffer)
		c.buffer = newBuf
		c.positions = make([]vecd.Vec, 0, nTotal+reserveBuffer)
	}
	c.buffer = c.buffer[:nTotal]
	if cap(c.positions) < nTotal {
		c.positions = make([]vecd.Vec, nTotal)
	}
	c.positions = c.positions[:nTotal]

	for i, p := range reals {
		p.ID = i
		p.IsGhost = false
		c.buffer[i] = p
		c.positions[i] = p.Pos
	}
	for k, g := range ghosts {
		i := len(reals) + k
		g.ID = i
		g.IsGhost = true
		c.buffer[i] = g
		c.positions[i] = g.Pos
	}

	c.tr.Build(c.positions)
}

// RebuildTreeForNeighborSearch re-derives the tree from the buffer's
// current positions without re-copying reals/ghosts. Exposed for
// callers (e.g. the initial sml/density bootstrap of spec.md §3's
// Lifecycle) that already populated the buffer via Resync and only
// need the tree refreshed.
func (c *Coordinator) RebuildTreeForNeighborSearch() {
	c.tr.Build(c.positions)
}

// GetSearchParticleCount returns N_total, the size of the combined
// buffer the tree was last built over.
func (c *Coordinator) GetSearchParticleCount() int { return len(c.buffer) }

// NReal returns N_real, the count of real particles in the buffer.
func (c *Coordinator) NReal() int { return c.nReal }

// Particle returns the combined-buffer entry at index i.
func (c *Coordinator) Particle(i int) particle.Particle { return c.buffer[i] }

// IsGhost reports whether index i is a ghost (i >= NReal), upholding
// spec.md §3 invariant 2.
func (c *Coordinator) IsGhost(i int) bool { return i >= c.nReal }

// Tree returns the tree built over the current buffer, for neighbor
// queries.
func (c *Coordinator) Tree() *tree.Tree { return c.tr }

// Positions returns the position view the tree was built over. Valid
// only until the next Resync/RebuildTreeForNeighborSearch call.
func (c *Coordinator) Positions() []vecd.Vec { return c.positions }

// UpdateReal overwrites the scratch fields (density, smoothing length,
// grad-h, pressure-derived quantities, gradients, ...) of a real
// buffer entry in place, without touching position/velocity or
// triggering a tree rebuild. Used after the density solve and force
// phases (spec.md §4.12 steps 5-7), which mutate per-particle state
// that later phases in the same step must see but which never moves a
// particle, so the tree built over Positions() stays valid.
func (c *Coordinator) UpdateReal(i int, p particle.Particle) {
	p.ID = i
	p.IsGhost = false
	c.buffer[i] = p
}

// SyncGhostFieldsFromReal refreshes every ghost's density/pressure-
// relevant scratch fields (everything the density solve and force
// phase touch) from its GhostSource real particle, leaving the
// ghost's own position/velocity untouched. Ghosts are snapshots taken
// at Regenerate time, before this step's density solve runs, so
// without this resync a ghost's
// Dens/Sml/GradH/Sound/Balsara/AlphaVisc/gradients would be one step
// stale when the force phase reads them out of the
// combined buffer (spec.md §3 invariant 3: "all other fields
// identical" to the source).
func (c *Coordinator) SyncGhostFieldsFromReal(reals []particle.Particle) {
	for i := c.nReal; i < len(c.buffer); i++ {
		src := c.buffer[i].GhostSource
		if src < 0 || src >= len(reals) {
			continue
		}
		r := reals[src]
		g := &c.buffer[i]
		g.Mass = r.Mass
		g.Dens = r.Dens
		g.Pres = r.Pres
		g.Sound = r.Sound
		g.Sml = r.Sml
		g.GradH = r.GradH
		g.Balsara = r.Balsara
		g.AlphaVisc = r.AlphaVisc
		g.PresSmoothed = r.PresSmoothed
		g.GradDens = r.GradDens
		g.GradPres = r.GradPres
		g.GradVel = r.GradVel
	}
}
