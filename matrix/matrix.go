package matrix

import "gonum.org/v1/gonum/mat"

// Eye returns the n x n identity matrix.
// It panics if n is not positive.
func Eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}

	return m
}

// SymCopy copies a square matrix into symmetric form, averaging each
// off-diagonal pair.
// It panics if m is not square.
func SymCopy(m mat.Matrix) *mat.SymDense {
	n, c := m.Dims()
	if n != c {
		panic("matrix: SymCopy of non-square matrix")
	}

	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}

	return s
}

// Symmetrize averages a square dense matrix with its transpose in place,
// removing the asymmetry that accumulates over repeated products.
func Symmetrize(m *mat.Dense) {
	n, c := m.Dims()
	if n != c {
		panic("matrix: Symmetrize of non-square matrix")
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := (m.At(i, j) + m.At(j, i)) / 2
			m.Set(i, j, v)
			m.Set(j, i, v)
		}
	}
}
