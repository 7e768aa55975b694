package tree_test

import (
	"math/rand"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gosph/internal/tree"
	"github.com/san-kum/gosph/internal/vecd"
)

func bruteForceSet(positions []vecd.Vec, center vecd.Vec, radius float64, dim int) map[int]bool {
	out := map[int]bool{}
	for i, p := range positions {
		d := p.Sub(center)
		dist2 := 0.0
		for a := 0; a < dim; a++ {
			dist2 += d[a] * d[a]
		}
		if dist2 <= radius*radius {
			out[i] = true
		}
	}
	return out
}

func randomCloud(rng *rand.Rand, n, dim int) []vecd.Vec {
	positions := make([]vecd.Vec, n)
	for i := range positions {
		var v vecd.Vec
		for a := 0; a < dim; a++ {
			v[a] = rng.Float64() * 10
		}
		positions[i] = v
	}
	return positions
}

var _ = Describe("Barnes-Hut neighbor query", func() {
	DescribeTable("matches the brute-force set for randomized particle clouds",
		func(dim, n int, seed int64) {
			rng := rand.New(rand.NewSource(seed))
			positions := randomCloud(rng, n, dim)

			tr := tree.New(dim, vecd.Periodic{})
			tr.Build(positions)

			for q := 0; q < 10; q++ {
				center := positions[rng.Intn(n)]
				radius := 0.5 + rng.Float64()*2.5

				result := tr.Query(center, radius, n)
				Expect(result.IsValid(n)).To(BeTrue(), "every returned index must lie in [0, N)")

				want := bruteForceSet(positions, center, radius, dim)
				got := map[int]bool{}
				for _, idx := range result.Indices {
					got[idx] = true
				}

				if !result.Truncated {
					Expect(got).To(HaveLen(len(want)), "untruncated query must equal the brute-force set")
				}
				for idx := range want {
					if !result.Truncated {
						Expect(got).To(HaveKey(idx))
					}
				}
			}
		},
		Entry("2D, 250 particles", 2, 250, int64(7)),
		Entry("2D, 400 particles", 2, 400, int64(11)),
		Entry("3D, 250 particles", 3, 250, int64(13)),
		Entry("3D, 500 particles", 3, 500, int64(17)),
	)

	It("returns indices sorted by ascending distance from the query point", func() {
		rng := rand.New(rand.NewSource(42))
		positions := randomCloud(rng, 150, 3)
		tr := tree.New(3, vecd.Periodic{})
		tr.Build(positions)

		center := positions[0]
		result := tr.Query(center, 5.0, 150)

		dists := make([]float64, len(result.Indices))
		for i, idx := range result.Indices {
			dists[i] = positions[idx].Sub(center).Norm()
		}
		Expect(sort.Float64sAreSorted(dists)).To(BeTrue())
	})

	It("never exceeds the collector's capacity", func() {
		rng := rand.New(rand.NewSource(99))
		positions := randomCloud(rng, 500, 2)
		tr := tree.New(2, vecd.Periodic{})
		tr.Build(positions)

		result := tr.Query(positions[0], 100.0, 17)
		Expect(len(result.Indices)).To(BeNumerically("<=", 17))
		Expect(result.Truncated).To(BeTrue())
	})
})
