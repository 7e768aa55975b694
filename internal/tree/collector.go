package tree

// collector bounds how many neighbor indices a single query can gather.
// Bounds safety is structural: TryAdd refuses once the collector is
// full, so it is impossible, by construction, to write past capacity
// (spec.md §4.4).
type collector struct {
	capacity  int
	indices   []int
	dists2    []float64
	truncated bool
	candidates int
}

func newCollector(capacity int) *collector {
	return &collector{
		capacity: capacity,
		indices:  make([]int, 0, capacity),
		dists2:   make([]float64, 0, capacity),
	}
}

func (c *collector) isFull() bool {
	return len(c.indices) >= c.capacity
}

// tryAdd records a candidate. It returns false (and sets truncated)
// when the collector is already at capacity; the caller must not
// retry writing past that point.
func (c *collector) tryAdd(idx int, dist2 float64) bool {
	c.candidates++
	if c.isFull() {
		c.truncated = true
		return false
	}
	c.indices = append(c.indices, idx)
	c.dists2 = append(c.dists2, dist2)
	return true
}
