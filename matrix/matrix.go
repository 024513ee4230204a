// Package matrix provides the dense complex matrix kernel used by the
// simulation engine: product, Kronecker product, trace and adjoint over
// row-major [][]complex128 grids.
package matrix

import (
	"encoding/json"
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix is a dense row-major complex matrix. All entry points validate that
// operands are non-empty and rectangular before touching entries.
type Matrix [][]complex128

func Zeros(rows, cols int) (Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]complex128, cols)
	}
	return m, nil
}

func Identity(n int) (Matrix, error) {
	m, err := Zeros(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m[i][i] = 1
	}
	return m, nil
}

// FromReal converts a real-valued grid, as carried by the wire format for
// explicit gate matrices, into a Matrix.
func FromReal(rows [][]float64) (Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrBadShape)
	}
	cols := len(rows[0])
	m := make(Matrix, len(rows))
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrRagged, i, len(row), cols)
		}
		m[i] = make([]complex128, cols)
		for j, v := range row {
			m[i][j] = complex(v, 0)
		}
	}
	return m, nil
}

func (m Matrix) Rows() int {
	return len(m)
}

func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func (m Matrix) validate() error {
	if len(m) == 0 || len(m[0]) == 0 {
		return fmt.Errorf("%w: empty matrix", ErrBadShape)
	}
	cols := len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d entries, want %d", ErrRagged, i, len(row), cols)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = append([]complex128(nil), row...)
	}
	return c
}

// Mul returns the matrix product a·b.
func Mul(a, b Matrix) (Matrix, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d",
			ErrDimensionMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	out, err := Zeros(a.Rows(), b.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.Rows(); i++ {
		for k := 0; k < a.Cols(); k++ {
			aik := a[i][k]
			if aik == 0 {
				continue
			}
			for j := 0; j < b.Cols(); j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out, nil
}

// Kron returns the Kronecker product a⊗b with shape
// (a.Rows*b.Rows) x (a.Cols*b.Cols). Empty or ragged operands are rejected;
// they indicate a bug in operator expansion, not a runtime condition to
// paper over.
func Kron(a, b Matrix) (Matrix, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	out, err := Zeros(a.Rows()*b.Rows(), a.Cols()*b.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			aij := a[i][j]
			if aij == 0 {
				continue
			}
			for k := 0; k < b.Rows(); k++ {
				for l := 0; l < b.Cols(); l++ {
					out[i*b.Rows()+k][j*b.Cols()+l] = aij * b[k][l]
				}
			}
		}
	}
	return out, nil
}

// Trace returns the sum of diagonal entries of a square matrix.
func Trace(m Matrix) (complex128, error) {
	if err := m.validate(); err != nil {
		return 0, err
	}
	if m.Rows() != m.Cols() {
		return 0, fmt.Errorf("%w: %dx%d", ErrNonSquare, m.Rows(), m.Cols())
	}
	var t complex128
	for i := range m {
		t += m[i][i]
	}
	return t, nil
}

// Dagger returns the conjugate transpose.
func Dagger(m Matrix) (Matrix, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	out, err := Zeros(m.Cols(), m.Rows())
	if err != nil {
		return nil, err
	}
	for i := range m {
		for j := range m[i] {
			out[j][i] = cmplx.Conj(m[i][j])
		}
	}
	return out, nil
}

// TraceSquared returns Tr(m·m). For a density matrix this is the purity
// Tr(ρ²) in [1/d, 1].
func TraceSquared(m Matrix) (complex128, error) {
	mm, err := Mul(m, m)
	if err != nil {
		return 0, err
	}
	return Trace(mm)
}

func Add(a, b Matrix) (Matrix, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return nil, fmt.Errorf("%w: %dx%d + %dx%d",
			ErrDimensionMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	out, err := Zeros(a.Rows(), a.Cols())
	if err != nil {
		return nil, err
	}
	for i := range a {
		for j := range a[i] {
			out[i][j] = a[i][j] + b[i][j]
		}
	}
	return out, nil
}

func Scale(m Matrix, s complex128) (Matrix, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	out := m.Clone()
	for i := range out {
		for j := range out[i] {
			out[i][j] *= s
		}
	}
	return out, nil
}

// MarshalJSON encodes every entry as an [re, im] pair, since JSON has no
// complex number type.
func (m Matrix) MarshalJSON() ([]byte, error) {
	grid := make([][][2]float64, len(m))
	for i, row := range m {
		grid[i] = make([][2]float64, len(row))
		for j, v := range row {
			grid[i][j] = [2]float64{real(v), imag(v)}
		}
	}
	return json.Marshal(grid)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var grid [][][2]float64
	if err := json.Unmarshal(data, &grid); err != nil {
		return err
	}
	out := make(Matrix, len(grid))
	for i, row := range grid {
		out[i] = make([]complex128, len(row))
		for j, v := range row {
			out[i][j] = complex(v[0], v[1])
		}
	}
	*m = out
	return nil
}

// Equal reports whether a and b have the same shape and all entries agree
// within eps in both the real and imaginary parts.
func Equal(a, b Matrix, eps float64) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for i := range a {
		for j := range a[i] {
			d := a[i][j] - b[i][j]
			if math.Abs(real(d)) > eps || math.Abs(imag(d)) > eps {
				return false
			}
		}
	}
	return true
}
