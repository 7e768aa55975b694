package riemann_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gosph/internal/riemann"
)

func TestRiemannSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Riemann Suite")
}

func randomState(rng *rand.Rand) riemann.State {
	return riemann.State{
		Dens:  0.1 + rng.Float64()*5,
		Pres:  0.01 + rng.Float64()*5,
		VNorm: (rng.Float64() - 0.5) * 4,
		Sound: 0.1 + rng.Float64()*3,
	}
}

var _ = Describe("HLL solver", func() {
	It("returns the exact left state once the left wave speed engulfs the interface", func() {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 200; i++ {
			left := randomState(rng)
			left.VNorm = 50 + rng.Float64()*10 // far supersonic, rightward
			right := randomState(rng)
			star, err := riemann.Solve(left, right)
			Expect(err).NotTo(HaveOccurred())
			Expect(star.Pres).To(Equal(left.Pres))
			Expect(star.VNorm).To(Equal(left.VNorm))
		}
	})

	It("is consistent: equal states reproduce the common state exactly", func() {
		rng := rand.New(rand.NewSource(2))
		for i := 0; i < 50; i++ {
			s := randomState(rng)
			star, err := riemann.Solve(s, s)
			Expect(err).NotTo(HaveOccurred())
			Expect(star.Pres).To(BeNumerically("~", s.Pres, 1e-6))
			Expect(star.VNorm).To(BeNumerically("~", s.VNorm, 1e-6))
		}
	})

	It("never panics or returns NaN for any valid random input", func() {
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 500; i++ {
			left := randomState(rng)
			right := randomState(rng)
			star, err := riemann.Solve(left, right)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.IsNaN(star.Pres)).To(BeFalse())
			Expect(math.IsNaN(star.VNorm)).To(BeFalse())
		}
	})

	It("rejects a zero-density state on either side", func() {
		rng := rand.New(rand.NewSource(4))
		for i := 0; i < 50; i++ {
			right := randomState(rng)
			_, err := riemann.Solve(riemann.State{}, right)
			Expect(err).To(HaveOccurred())
			_, err = riemann.Solve(right, riemann.State{})
			Expect(err).To(HaveOccurred())
		}
	})
})
