package sim

import (
	"fmt"

	"github.com/go-faster/errors"

	"github.com/blochlab/bloch-engine/circuit"
	"github.com/blochlab/bloch-engine/gate"
	"github.com/blochlab/bloch-engine/matrix"
)

// InitialState returns the 2^n x 2^n density matrix |0...0><0...0|: all zero
// except the top-left entry. n is bounded by maxQubits before any
// allocation because the dimension grows exponentially.
func InitialState(n, maxQubits int) (matrix.Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("qubit count(%d) must be greater than 0", n)
	}
	if n > maxQubits {
		return nil, fmt.Errorf("qubit count(%d) is over the limit(%d)", n, maxQubits)
	}
	dim := 1 << n
	m, err := matrix.Zeros(dim, dim)
	if err != nil {
		return nil, err
	}
	m[0][0] = 1
	return m, nil
}

// ApplyGate expands op to a full-dimension operator U over n qubits and
// returns the conjugated state U·ρ·U†. The input state is not mutated.
func ApplyGate(state matrix.Matrix, op circuit.GateOp, set gate.Set, n int) (matrix.Matrix, error) {
	g, err := circuit.Operator(op, set)
	if err != nil {
		return nil, err
	}
	var full matrix.Matrix
	switch len(op.Qubits) {
	case 1:
		full, err = expandSingle(g, op.Qubits[0], n)
	case 2:
		full, err = expandTwo(g, op.Qubits[0], op.Qubits[1], n)
	default:
		return nil, fmt.Errorf("gate %s: qubit index count must be 1 or 2, got %d",
			op.Name, len(op.Qubits))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to expand gate %s", op.Name)
	}
	return conjugate(full, state)
}

// conjugate returns u·ρ·u†.
func conjugate(u, state matrix.Matrix) (matrix.Matrix, error) {
	ud, err := matrix.Dagger(u)
	if err != nil {
		return nil, err
	}
	us, err := matrix.Mul(u, state)
	if err != nil {
		return nil, err
	}
	return matrix.Mul(us, ud)
}

// expandSingle builds the full operator for a single-qubit gate at position
// q by Kron-folding identity factors around it, seeded from a 1x1 identity.
// Qubit 0 is the leftmost tensor factor.
func expandSingle(g matrix.Matrix, q, n int) (matrix.Matrix, error) {
	if q < 0 || q >= n {
		return nil, fmt.Errorf("qubit index %d out of range [0,%d)", q, n)
	}
	id2, err := matrix.Identity(2)
	if err != nil {
		return nil, err
	}
	op, err := matrix.Identity(1)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		factor := id2
		if i == q {
			factor = g
		}
		op, err = matrix.Kron(op, factor)
		if err != nil {
			return nil, err
		}
	}
	return op, nil
}

// expandTwo builds the full operator for a two-qubit gate on qubits (a, b).
// The gate matrix is defined on adjacent factors with a first, so the basis
// is permuted with adjacent-SWAP factors until a sits at position 0 and b at
// position 1, the 4x4 gate is Kron-expanded there, and the permutation is
// undone. For n == 2 with (a, b) = (0, 1) this degenerates to the bare gate.
func expandTwo(g matrix.Matrix, a, b, n int) (matrix.Matrix, error) {
	if n < 2 {
		return nil, fmt.Errorf("two-qubit gate needs at least 2 qubits, got %d", n)
	}
	if a < 0 || a >= n || b < 0 || b >= n {
		return nil, fmt.Errorf("qubit indices (%d,%d) out of range [0,%d)", a, b, n)
	}
	if a == b {
		return nil, fmt.Errorf("duplicate qubit index %d", a)
	}

	perm, err := permutationTo(a, b, n)
	if err != nil {
		return nil, err
	}

	rest, err := matrix.Identity(1 << (n - 2))
	if err != nil {
		return nil, err
	}
	inner, err := matrix.Kron(g, rest)
	if err != nil {
		return nil, err
	}

	permDag, err := matrix.Dagger(perm)
	if err != nil {
		return nil, err
	}
	tmp, err := matrix.Mul(inner, perm)
	if err != nil {
		return nil, err
	}
	return matrix.Mul(permDag, tmp)
}

// permutationTo returns the basis permutation moving qubit a to tensor
// position 0 and qubit b to position 1, composed from adjacent SWAP factors.
func permutationTo(a, b, n int) (matrix.Matrix, error) {
	pos := make([]int, n) // pos[i] = logical qubit at tensor position i
	for i := range pos {
		pos[i] = i
	}
	var swapsAt []int
	move := func(q, dest int) {
		cur := 0
		for i, v := range pos {
			if v == q {
				cur = i
				break
			}
		}
		for cur > dest {
			pos[cur-1], pos[cur] = pos[cur], pos[cur-1]
			swapsAt = append(swapsAt, cur-1)
			cur--
		}
	}
	move(a, 0)
	move(b, 1)

	perm, err := matrix.Identity(1 << n)
	if err != nil {
		return nil, err
	}
	for _, k := range swapsAt {
		s, err := swapAt(k, n)
		if err != nil {
			return nil, err
		}
		perm, err = matrix.Mul(s, perm)
		if err != nil {
			return nil, err
		}
	}
	return perm, nil
}

// swapAt returns the full-dimension operator swapping tensor positions k and
// k+1 out of n.
func swapAt(k, n int) (matrix.Matrix, error) {
	swap, err := gate.Lookup(gate.Exact, "SWAP", nil)
	if err != nil {
		return nil, err
	}
	left, err := matrix.Identity(1 << k)
	if err != nil {
		return nil, err
	}
	right, err := matrix.Identity(1 << (n - k - 2))
	if err != nil {
		return nil, err
	}
	m, err := matrix.Kron(left, swap)
	if err != nil {
		return nil, err
	}
	return matrix.Kron(m, right)
}
