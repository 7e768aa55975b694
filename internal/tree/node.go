package tree

import "github.com/san-kum/gosph/internal/vecd"

// maxChildren is 2^D for the largest supported dimension (D=3).
const maxChildren = 8

// node is a box in the 2^D-ary spatial subdivision. Leaves carry a
// singly linked list of particle indices (via the tree's scratch next
// array, cleared before each build per spec.md §4.5); internal nodes
// carry up to 2^D children.
type node struct {
	Min, Max vecd.Vec
	Children [maxChildren]int32 // -1 if absent
	Leaf     bool
	First    int32 // head of the linked list, -1 if empty
	Count    int32
}

func newLeaf(min, max vecd.Vec) node {
	n := node{Min: min, Max: max, Leaf: true, First: -1, Count: 0}
	for i := range n.Children {
		n.Children[i] = -1
	}
	return n
}

func newInternal(min, max vecd.Vec) node {
	n := node{Min: min, Max: max, Leaf: false, First: -1, Count: 0}
	for i := range n.Children {
		n.Children[i] = -1
	}
	return n
}

// overlapsBall reports whether this node's box can contain any point
// within radius R of center, under the periodic wrapper. Used to prune
// the recursive neighbor walk (spec.md §4.4).
func (n node) overlapsBall(center vecd.Vec, radius float64, dim int, per vecd.Periodic) bool {
	sum := 0.0
	for a := 0; a < dim; a++ {
		gap := axisGap(center[a], n.Min[a], n.Max[a], per.Enabled[a], per.Length[a])
		if gap > radius {
			return false
		}
		sum += gap * gap
		if sum > radius*radius {
			return false
		}
	}
	return true
}

// axisGap returns the minimum distance from c to the interval [lo,hi]
// along one axis, 0 if c lies inside, accounting for periodic wrap.
func axisGap(c, lo, hi float64, periodic bool, length float64) float64 {
	if c >= lo && c <= hi {
		return 0
	}
	if !periodic || length <= 0 {
		if c < lo {
			return lo - c
		}
		return c - hi
	}
	dLo := vecd.WrapDelta(c-lo, length)
	dHi := vecd.WrapDelta(c-hi, length)
	a, b := absF(dLo), absF(dHi)
	if a < b {
		return a
	}
	return b
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
