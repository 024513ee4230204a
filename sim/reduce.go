package sim

import (
	"fmt"
	"math"

	"github.com/blochlab/bloch-engine/core"
	"github.com/blochlab/bloch-engine/gate"
	"github.com/blochlab/bloch-engine/matrix"
)

// PartialTrace reduces the full n-qubit density matrix to the 2x2 marginal
// of qubit keep by summing out all other qubits. Qubit 0 is the leftmost
// tensor factor, so its basis stride is 2^(n-keep-1).
func PartialTrace(full matrix.Matrix, keep, n int) (matrix.Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("qubit count(%d) must be greater than 0", n)
	}
	if keep < 0 || keep >= n {
		return nil, fmt.Errorf("qubit index %d out of range [0,%d)", keep, n)
	}
	dim := 1 << n
	if full.Rows() != dim || full.Cols() != dim {
		return nil, fmt.Errorf("%w: state is %dx%d, want %dx%d for %d qubit(s)",
			matrix.ErrDimensionMismatch, full.Rows(), full.Cols(), dim, dim, n)
	}
	stride := 1 << (n - keep - 1)
	red, err := matrix.Zeros(2, 2)
	if err != nil {
		return nil, err
	}
	for r := 0; r < dim; r++ {
		s := (r / stride) % 2
		base := r - s*stride
		for t := 0; t < 2; t++ {
			red[s][t] += full[r][base+t*stride]
		}
	}
	return red, nil
}

// Purity returns Tr(ρ²), 1 for a pure state down to 1/d for the maximally
// mixed state.
func Purity(rho matrix.Matrix) (float64, error) {
	ts, err := matrix.TraceSquared(rho)
	if err != nil {
		return 0, err
	}
	return coerce(real(ts)), nil
}

// LegacyPurity returns min(sqrt(Tr(ρ²)), 1), the heuristic the original
// renderer backend reported instead of the textbook purity. Kept for
// output compatibility with the legacy gate set.
func LegacyPurity(rho matrix.Matrix) (float64, error) {
	ts, err := matrix.TraceSquared(rho)
	if err != nil {
		return 0, err
	}
	v := real(ts)
	if v < 0 || math.IsNaN(v) {
		return 0, nil
	}
	return math.Min(math.Sqrt(v), 1), nil
}

// BlochVector returns (Tr(ρX), Tr(ρY), Tr(ρZ)) using the Pauli matrices of
// the given catalog, so legacy simulations measure against the legacy Y.
// Undefined components are coerced to 0.
func BlochVector(rho matrix.Matrix, set gate.Set) (core.BlochVector, error) {
	var bv core.BlochVector
	for _, axis := range []struct {
		name string
		dst  *float64
	}{
		{"X", &bv.X},
		{"Y", &bv.Y},
		{"Z", &bv.Z},
	} {
		pauli, err := gate.Lookup(set, axis.name, nil)
		if err != nil {
			return core.BlochVector{}, err
		}
		prod, err := matrix.Mul(rho, pauli)
		if err != nil {
			return core.BlochVector{}, err
		}
		tr, err := matrix.Trace(prod)
		if err != nil {
			return core.BlochVector{}, err
		}
		*axis.dst = coerce(real(tr))
	}
	return bv, nil
}

func coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
