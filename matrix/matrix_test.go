//go:build unit
// +build unit

package matrix

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeros(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		cols      int
		wantError error
	}{
		{name: "square", rows: 2, cols: 2, wantError: nil},
		{name: "rectangular", rows: 2, cols: 4, wantError: nil},
		{name: "zero rows", rows: 0, cols: 2, wantError: ErrBadShape},
		{name: "negative cols", rows: 2, cols: -1, wantError: ErrBadShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Zeros(tt.rows, tt.cols)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.rows, m.Rows())
			assert.Equal(t, tt.cols, m.Cols())
		})
	}
}

func TestMul(t *testing.T) {
	a := Matrix{{1, 2}, {3, 4}}
	b := Matrix{{5, 6}, {7, 8}}
	got, err := Mul(a, b)
	assert.NoError(t, err)
	assert.True(t, Equal(Matrix{{19, 22}, {43, 50}}, got, 1e-12))
}

func TestMulDimensionMismatch(t *testing.T) {
	a := Matrix{{1, 2, 3}}
	b := Matrix{{1, 2}, {3, 4}}
	_, err := Mul(a, b)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMulRaggedRejected(t *testing.T) {
	a := Matrix{{1, 2}, {3}}
	b := Matrix{{1, 0}, {0, 1}}
	_, err := Mul(a, b)
	assert.ErrorIs(t, err, ErrRagged)
}

func TestKron(t *testing.T) {
	a := Matrix{{1, 2}, {3, 4}}
	b := Matrix{{0, 1}, {1, 0}}
	got, err := Kron(a, b)
	assert.NoError(t, err)
	want := Matrix{
		{0, 1, 0, 2},
		{1, 0, 2, 0},
		{0, 3, 0, 4},
		{3, 0, 4, 0},
	}
	assert.True(t, Equal(want, got, 1e-12))
}

func TestKronAssociative(t *testing.T) {
	a := Matrix{{1, 2}, {3, 4}}
	b := Matrix{{0, 1}, {1, 0}}
	c := Matrix{{2, 0}, {0, 2}}

	ab, err := Kron(a, b)
	assert.NoError(t, err)
	left, err := Kron(ab, c)
	assert.NoError(t, err)

	bc, err := Kron(b, c)
	assert.NoError(t, err)
	right, err := Kron(a, bc)
	assert.NoError(t, err)

	assert.Equal(t, left.Rows(), right.Rows())
	assert.Equal(t, left.Cols(), right.Cols())
	assert.True(t, Equal(left, right, 1e-12))
}

func TestKronEmptyRejected(t *testing.T) {
	_, err := Kron(Matrix{}, Matrix{{1}})
	assert.ErrorIs(t, err, ErrBadShape)
	_, err = Kron(Matrix{{1}}, nil)
	assert.ErrorIs(t, err, ErrBadShape)
}

func TestTrace(t *testing.T) {
	m := Matrix{{1, 9}, {9, 2}}
	tr, err := Trace(m)
	assert.NoError(t, err)
	assert.Equal(t, complex128(3), tr)

	_, err = Trace(Matrix{{1, 2, 3}, {4, 5, 6}})
	assert.ErrorIs(t, err, ErrNonSquare)
}

func TestDagger(t *testing.T) {
	m := Matrix{{complex(0, 1), 2}, {3, complex(4, -5)}}
	got, err := Dagger(m)
	assert.NoError(t, err)
	want := Matrix{{complex(0, -1), 3}, {2, complex(4, 5)}}
	assert.True(t, Equal(want, got, 1e-12))
}

func TestDaggerIsInvolution(t *testing.T) {
	m := Matrix{{complex(1, 2), complex(3, 4)}, {complex(5, 6), complex(7, 8)}}
	d, err := Dagger(m)
	assert.NoError(t, err)
	dd, err := Dagger(d)
	assert.NoError(t, err)
	assert.True(t, Equal(m, dd, 1e-12))
}

func TestTraceSquared(t *testing.T) {
	// Maximally mixed single-qubit state: Tr(ρ²) = 1/2.
	rho := Matrix{{0.5, 0}, {0, 0.5}}
	ts, err := TraceSquared(rho)
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, real(ts), 1e-12)
	assert.InDelta(t, 0.0, imag(ts), 1e-12)
}

func TestFromReal(t *testing.T) {
	got, err := FromReal([][]float64{{1, 0}, {0, -1}})
	assert.NoError(t, err)
	assert.True(t, Equal(Matrix{{1, 0}, {0, -1}}, got, 1e-12))

	_, err = FromReal([][]float64{{1, 0}, {0}})
	assert.ErrorIs(t, err, ErrRagged)
	_, err = FromReal(nil)
	assert.ErrorIs(t, err, ErrBadShape)
}

func TestMatrixJSONRoundTrip(t *testing.T) {
	m := Matrix{{complex(0, -1), 0.5}, {complex(0.5, 0.5), -1}}
	data, err := json.Marshal(m)
	assert.NoError(t, err)
	assert.Equal(t, `[[[0,-1],[0.5,0]],[[0.5,0.5],[-1,0]]]`, string(data))

	var got Matrix
	assert.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, Equal(m, got, 1e-12))
}
