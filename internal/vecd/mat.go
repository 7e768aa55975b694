package vecd

// Mat is a fixed 3x3 matrix, used as the rank-2 tensor that stores a
// particle's velocity gradient ∂v_a/∂x_b in GSPH reconstruction
// (spec.md §3). Only the top-left Dim x Dim block is meaningful.
type Mat [3]Vec

// Trace returns the sum of the diagonal, i.e. ∇·v when Mat holds a
// velocity gradient (restricted to the first dim components).
func (m Mat) Trace(dim int) float64 {
	sum := 0.0
	for i := 0; i < dim; i++ {
		sum += m[i][i]
	}
	return sum
}

// AntisymmetricNorm returns a scalar proxy for |∇×v|, used by the
// Balsara switch (spec.md §4.10). In 1D curl is identically zero; in
// 2D the curl is a scalar; in 3D it's a vector whose norm we use.
func (m Mat) AntisymmetricNorm(dim int) float64 {
	switch dim {
	case 1:
		return 0
	case 2:
		return abs(m[1][0] - m[0][1])
	default:
		cx := m[2][1] - m[1][2]
		cy := m[0][2] - m[2][0]
		cz := m[1][0] - m[0][1]
		return Vec{cx, cy, cz}.Norm()
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// AddOuter accumulates the outer product w * gradW^T scaled by factor
// into m, i.e. m[a][b] += factor * w[a] * gradW[b]. This is the
// standard SPH construction of a per-particle gradient estimate:
// ∇f_i = Σ_j (m_j/ρ_j) (f_j - f_i) ∇_iW_ij.
func (m *Mat) AddOuter(w Vec, gradW Vec, factor float64) {
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			m[a][b] += factor * w[a] * gradW[b]
		}
	}
}
