package tree

import (
	"sort"

	"github.com/san-kum/gosph/internal/vecd"
)

// SearchResult is the return value of a bounded neighbor query
// (spec.md §4.4). Indices is authoritative (its length is the true
// neighbor count); Truncated reports whether the collector's capacity
// was reached before the walk finished.
type SearchResult struct {
	Indices              []int
	Truncated            bool
	CandidatesConsidered int
}

// IsValid asserts every returned index lies in [0, NTotal). Violating
// this is fatal per spec.md §4.4's post-condition — callers that need
// a non-panicking check can call it directly; Query always returns a
// result that already satisfies it by construction.
func (r SearchResult) IsValid(nTotal int) bool {
	for _, i := range r.Indices {
		if i < 0 || i >= nTotal {
			return false
		}
	}
	return true
}

// Query returns up to capacity neighbors of center within radius,
// ordered by ascending distance (spec.md §4.4). capacity <= 0 is
// treated as "no limit found in practice" by using a very large bound;
// callers needing a hard cap should pass a positive capacity.
func (t *Tree) Query(center vecd.Vec, radius float64, capacity int) SearchResult {
	if capacity <= 0 {
		capacity = t.nTotal
		if capacity == 0 {
			capacity = 1
		}
	}
	c := newCollector(capacity)
	if t.root >= 0 {
		t.walk(t.root, center, radius, c)
	}

	type pair struct {
		idx  int
		dist float64
	}
	pairs := make([]pair, len(c.indices))
	for i, idx := range c.indices {
		pairs[i] = pair{idx, c.dists2[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	indices := make([]int, len(pairs))
	for i, p := range pairs {
		indices[i] = p.idx
	}

	result := SearchResult{
		Indices:              indices,
		Truncated:            c.truncated || c.isFull(),
		CandidatesConsidered: c.candidates,
	}
	t.validateIndices(result.Indices)
	return result
}

func (t *Tree) walk(nodeIdx int32, center vecd.Vec, radius float64, c *collector) {
	if c.isFull() {
		return
	}
	n := &t.nodes[nodeIdx]
	if !n.overlapsBall(center, radius, t.dim, t.periodic) {
		return
	}

	if n.Leaf {
		for i := n.First; i != -1; i = t.next[i] {
			if c.isFull() {
				return
			}
			d := t.periodic.MinimumImage(t.positions[i], center)
			dist2 := d.Norm2()
			if dist2 <= radius*radius {
				c.tryAdd(int(i), dist2)
			}
		}
		return
	}

	for _, child := range n.Children {
		if child < 0 {
			continue
		}
		if c.isFull() {
			return
		}
		t.walk(child, center, radius, c)
	}
}
