// Package tree implements the Barnes–Hut spatial index used purely as
// a neighbor-query accelerator (spec.md §4.4); multipole data for a
// future gravity walker is deliberately not part of this API (spec.md
// §9 Open Questions).
package tree

import (
	"fmt"
	"math"

	"github.com/san-kum/gosph/internal/vecd"
)

const (
	defaultLeafCapacity = 8
	defaultMaxDepth     = 48
)

// Tree is a 2^D-ary spatial index over a fixed position slice supplied
// at Build time. It holds only indices into the caller's buffer — it
// never owns or copies particle data (spec.md §9 ownership notes).
type Tree struct {
	dim          int
	periodic     vecd.Periodic
	leafCapacity int
	maxDepth     int

	nodes    []node
	next     []int32 // per-index linked-list pointer, cleared each build
	root     int32
	nTotal   int
	positions []vecd.Vec // borrowed view, valid only until next Build
}

// New creates a tree for the given dimension and periodic wrapper.
func New(dim int, periodic vecd.Periodic) *Tree {
	return &Tree{
		dim:          dim,
		periodic:     periodic,
		leafCapacity: defaultLeafCapacity,
		maxDepth:     defaultMaxDepth,
	}
}

// Build constructs the tree over positions[0:n]. positions must remain
// valid (same backing array, unmutated) until the next Build call —
// this is the "tree node pointers must stay valid across a step"
// contract from spec.md §3 invariant 4, enforced by the tree
// coordinator's reserve-with-buffer policy upstream.
func (t *Tree) Build(positions []vecd.Vec) {
	n := len(positions)
	t.positions = positions
	t.nTotal = n

	if cap(t.next) < n {
		t.next = make([]int32, n)
	}
	t.next = t.next[:n]
	for i := range t.next {
		t.next[i] = -1
	}

	t.nodes = t.nodes[:0]
	if n == 0 {
		t.root = -1
		return
	}

	indices := make([]int32, n)
	for i := range indices {
		indices[i] = int32(i)
	}

	min, max := boundingBox(positions, t.dim)
	t.root = t.build(indices, min, max, 0)
}

func boundingBox(positions []vecd.Vec, dim int) (vecd.Vec, vecd.Vec) {
	min := vecd.Vec{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := vecd.Vec{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range positions {
		for a := 0; a < dim; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	for a := dim; a < 3; a++ {
		min[a], max[a] = 0, 0
	}
	return min, max
}

// build recursively partitions indices into the node at [min,max],
// returning its index in t.nodes. Leaves store a linked list via
// t.next; internal nodes recurse into up to 2^dim children.
func (t *Tree) build(indices []int32, min, max vecd.Vec, depth int) int32 {
	idx := int32(len(t.nodes))

	if len(indices) <= t.leafCapacity || depth >= t.maxDepth {
		leaf := newLeaf(min, max)
		t.linkLeaf(&leaf, indices)
		t.nodes = append(t.nodes, leaf)
		return idx
	}

	mid := vecd.Vec{}
	for a := 0; a < t.dim; a++ {
		mid[a] = 0.5 * (min[a] + max[a])
	}

	buckets := make([][]int32, maxChildren)
	for _, i := range indices {
		b := childBucket(t.positions[i], mid, t.dim)
		buckets[b] = append(buckets[b], i)
	}

	// All particles landed in the same bucket (coincident positions, or
	// a box too small to split further): stop subdividing to avoid
	// infinite recursion and fall back to a (possibly oversized) leaf.
	nonEmpty := 0
	for _, b := range buckets {
		if len(b) > 0 {
			nonEmpty++
		}
	}
	if nonEmpty <= 1 {
		leaf := newLeaf(min, max)
		t.linkLeaf(&leaf, indices)
		t.nodes = append(t.nodes, leaf)
		return idx
	}

	internal := newInternal(min, max)
	t.nodes = append(t.nodes, internal)

	for b, bucketIdx := range buckets {
		if len(bucketIdx) == 0 {
			continue
		}
		childMin, childMax := childBounds(min, max, mid, b, t.dim)
		childIdx := t.build(bucketIdx, childMin, childMax, depth+1)
		t.nodes[idx].Children[b] = childIdx
	}
	return idx
}

func (t *Tree) linkLeaf(leaf *node, indices []int32) {
	if len(indices) == 0 {
		return
	}
	leaf.First = indices[0]
	leaf.Count = int32(len(indices))
	for k := 0; k < len(indices)-1; k++ {
		t.next[indices[k]] = indices[k+1]
	}
	t.next[indices[len(indices)-1]] = -1
}

// childBucket returns which of the 2^dim octants p falls in, relative
// to mid, as a bitmask (bit a set means p[a] >= mid[a]).
func childBucket(p, mid vecd.Vec, dim int) int {
	b := 0
	for a := 0; a < dim; a++ {
		if p[a] >= mid[a] {
			b |= 1 << uint(a)
		}
	}
	return b
}

func childBounds(min, max, mid vecd.Vec, bucket, dim int) (vecd.Vec, vecd.Vec) {
	cmin, cmax := min, max
	for a := 0; a < dim; a++ {
		if bucket&(1<<uint(a)) != 0 {
			cmin[a] = mid[a]
		} else {
			cmax[a] = mid[a]
		}
	}
	return cmin, cmax
}

// NTotal returns the number of positions the tree was last built over.
func (t *Tree) NTotal() int { return t.nTotal }

// validateIndices panics (a fatal per spec.md §4.4's post-condition)
// if any index lies outside [0, NTotal). Out-of-range is a programming
// error in the tree itself, never a caller mistake, so it is treated
// as an invariant violation rather than a recoverable error.
func (t *Tree) validateIndices(indices []int) {
	for _, i := range indices {
		if i < 0 || i >= t.nTotal {
			panic(fmt.Sprintf("tree: index %d out of range [0,%d)", i, t.nTotal))
		}
	}
}
