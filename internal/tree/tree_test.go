package tree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/san-kum/gosph/internal/vecd"
)

func bruteForce(positions []vecd.Vec, center vecd.Vec, radius float64, per vecd.Periodic, dim int) []int {
	var out []int
	for i, p := range positions {
		d := per.MinimumImage(p, center)
		if d.Norm2() <= radius*radius {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func asSet(xs []int) map[int]bool {
	m := make(map[int]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func TestQueryMatchesBruteForce2D(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 300
	positions := make([]vecd.Vec, n)
	for i := range positions {
		positions[i] = vecd.Vec{rng.Float64() * 10, rng.Float64() * 10, 0}
	}

	tr := New(2, vecd.Periodic{})
	tr.Build(positions)

	for q := 0; q < 20; q++ {
		center := positions[rng.Intn(n)]
		radius := 0.5 + rng.Float64()*2.0

		result := tr.Query(center, radius, n)
		if !result.IsValid(n) {
			t.Fatalf("query returned out-of-range index")
		}

		want := asSet(bruteForce(positions, center, radius, vecd.Periodic{}, 2))
		got := asSet(result.Indices)
		if len(want) != len(got) {
			t.Fatalf("neighbor count mismatch: want %d got %d", len(want), len(got))
		}
		for idx := range want {
			if !got[idx] {
				t.Errorf("brute force found %d but tree query missed it", idx)
			}
		}
	}
}

func TestQueryRespectsCapacityAndFlagsTruncation(t *testing.T) {
	n := 200
	positions := make([]vecd.Vec, n)
	for i := range positions {
		positions[i] = vecd.Vec{float64(i) * 0.001, 0, 0}
	}
	tr := New(1, vecd.Periodic{})
	tr.Build(positions)

	result := tr.Query(vecd.Vec{0.1, 0, 0}, 10.0, 5)
	if len(result.Indices) > 5 {
		t.Fatalf("collector exceeded capacity: got %d indices", len(result.Indices))
	}
	if !result.Truncated {
		t.Error("expected truncated=true when more candidates exist than capacity")
	}
}

func TestQueryOrderedByAscendingDistance(t *testing.T) {
	positions := []vecd.Vec{{5, 0, 0}, {1, 0, 0}, {3, 0, 0}, {0, 0, 0}}
	tr := New(1, vecd.Periodic{})
	tr.Build(positions)

	result := tr.Query(vecd.Vec{0, 0, 0}, 10, 10)
	prev := -1.0
	for _, idx := range result.Indices {
		d := positions[idx].Norm()
		if d < prev {
			t.Errorf("expected ascending order, got distance %f after %f", d, prev)
		}
		prev = d
	}
}

func TestQueryUnderPeriodicWrap(t *testing.T) {
	per := vecd.Periodic{Enabled: [3]bool{true, false, false}, Length: [3]float64{2.0, 0, 0}}
	positions := []vecd.Vec{{0.01, 0, 0}, {1.99, 0, 0}, {1.0, 0, 0}}
	tr := New(1, per)
	tr.Build(positions)

	// 0.01 and 1.99 are 0.02 apart under wrap, far apart without it.
	result := tr.Query(vecd.Vec{0.01, 0, 0}, 0.05, 10)
	got := asSet(result.Indices)
	if !got[0] {
		t.Error("expected self to be included")
	}
	if !got[1] {
		t.Error("expected periodic wrap-around neighbor to be found")
	}
	if got[2] {
		t.Error("did not expect the far particle to be included")
	}
}

func TestBuildEmptyPositions(t *testing.T) {
	tr := New(2, vecd.Periodic{})
	tr.Build(nil)
	result := tr.Query(vecd.Vec{}, 1.0, 10)
	if len(result.Indices) != 0 {
		t.Errorf("expected no neighbors for an empty tree, got %d", len(result.Indices))
	}
}
