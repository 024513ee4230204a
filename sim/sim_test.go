//go:build unit
// +build unit

package sim

import (
	"math"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blochlab/bloch-engine/circuit"
	"github.com/blochlab/bloch-engine/core"
	"github.com/blochlab/bloch-engine/gate"
	"github.com/blochlab/bloch-engine/matrix"
)

const eps = 1e-9

func newSimulator(t *testing.T) *Simulator {
	t.Helper()
	core.ResetSetting()
	s := &Simulator{}
	require.NoError(t, s.Setup(&core.Conf{GateSet: "exact", MaxQubits: 10}))
	return s
}

func TestInitialState(t *testing.T) {
	for n := 1; n <= 4; n++ {
		state, err := InitialState(n, 10)
		require.NoError(t, err)
		dim := 1 << n
		assert.Equal(t, dim, state.Rows())
		assert.Equal(t, dim, state.Cols())

		tr, err := matrix.Trace(state)
		require.NoError(t, err)
		assert.InDelta(t, 1, real(tr), eps)

		// Single nonzero entry at (0,0).
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				want := 0.0
				if i == 0 && j == 0 {
					want = 1.0
				}
				assert.InDelta(t, want, real(state[i][j]), eps)
				assert.InDelta(t, 0, imag(state[i][j]), eps)
			}
		}
	}
}

func TestInitialStateBounds(t *testing.T) {
	_, err := InitialState(0, 10)
	assert.Error(t, err)
	_, err = InitialState(-3, 10)
	assert.Error(t, err)
	_, err = InitialState(11, 10)
	assert.Error(t, err)
}

func TestApplyGateRejectsBadIndexCount(t *testing.T) {
	state, err := InitialState(1, 10)
	require.NoError(t, err)
	_, err = ApplyGate(state, circuit.GateOp{Name: "X", Qubits: []int{}}, gate.Exact, 1)
	assert.ErrorContains(t, err, "qubit index count must be 1 or 2")
}

func TestBitFlip(t *testing.T) {
	// X on |0⟩ lands on |1⟩: Bloch z ≈ -1, purity ≈ 1.
	s := newSimulator(t)
	states, err := s.Simulate(`{"num_qubits":1,"gates":[{"name":"X","qubits":[0]}]}`, "")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.InDelta(t, 1, states[0].Purity, eps)
	assert.InDelta(t, 0, states[0].Bloch.X, eps)
	assert.InDelta(t, 0, states[0].Bloch.Y, eps)
	assert.InDelta(t, -1, states[0].Bloch.Z, eps)
}

func TestHadamardSuperposition(t *testing.T) {
	s := newSimulator(t)
	states, err := s.Simulate(`{"num_qubits":1,"gates":[{"name":"H","qubits":[0]}]}`, "")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.InDelta(t, 1, states[0].Purity, eps)
	assert.InDelta(t, 1, states[0].Bloch.X, eps)
	assert.InDelta(t, 0, states[0].Bloch.Z, eps)
}

func TestBellState(t *testing.T) {
	// H(0) then CNOT(0,1) entangles both qubits; each marginal collapses
	// to the maximally mixed state with purity 1/2.
	s := newSimulator(t)
	in := heredoc.Doc(`
		{
		  "num_qubits": 2,
		  "gates": [
		    {"name": "H", "qubits": [0]},
		    {"name": "CNOT", "qubits": [0, 1]}
		  ]
		}
	`)
	states, err := s.Simulate(in, "")
	require.NoError(t, err)
	require.Len(t, states, 2)
	for _, st := range states {
		assert.InDelta(t, 0.5, st.Purity, eps)
		assert.InDelta(t, 0, st.Bloch.X, eps)
		assert.InDelta(t, 0, st.Bloch.Y, eps)
		assert.InDelta(t, 0, st.Bloch.Z, eps)
	}
}

func TestProductStateStaysPure(t *testing.T) {
	// Two independently rotated qubits with no entangling gate keep their
	// own pure marginals.
	s := newSimulator(t)
	in := heredoc.Doc(`
		{
		  "num_qubits": 2,
		  "gates": [
		    {"name": "RX", "qubits": [0], "params": [0.7]},
		    {"name": "RY", "qubits": [1], "params": [1.1]}
		  ]
		}
	`)
	states, err := s.Simulate(in, "")
	require.NoError(t, err)
	require.Len(t, states, 2)
	for _, st := range states {
		assert.InDelta(t, 1, st.Purity, eps)
	}
	// RX(θ) on |0⟩ gives z = cos θ, y = -sin θ.
	assert.InDelta(t, math.Cos(0.7), states[0].Bloch.Z, eps)
	assert.InDelta(t, -math.Sin(0.7), states[0].Bloch.Y, eps)
	// RY(θ) on |0⟩ gives z = cos θ, x = sin θ.
	assert.InDelta(t, math.Cos(1.1), states[1].Bloch.Z, eps)
	assert.InDelta(t, math.Sin(1.1), states[1].Bloch.X, eps)
}

func TestNonAdjacentTwoQubitGate(t *testing.T) {
	// H(0) then CNOT(0,2) on three qubits: qubits 0 and 2 entangle, qubit 1
	// stays at |0⟩.
	s := newSimulator(t)
	in := heredoc.Doc(`
		{
		  "num_qubits": 3,
		  "gates": [
		    {"name": "H", "qubits": [0]},
		    {"name": "CNOT", "qubits": [0, 2]}
		  ]
		}
	`)
	states, err := s.Simulate(in, "")
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.InDelta(t, 0.5, states[0].Purity, eps)
	assert.InDelta(t, 1, states[1].Purity, eps)
	assert.InDelta(t, 1, states[1].Bloch.Z, eps)
	assert.InDelta(t, 0.5, states[2].Purity, eps)
}

func TestReversedControlTarget(t *testing.T) {
	// CNOT(2,0) on three qubits: control on qubit 2, target on qubit 0.
	s := newSimulator(t)
	in := heredoc.Doc(`
		{
		  "num_qubits": 3,
		  "gates": [
		    {"name": "H", "qubits": [2]},
		    {"name": "CNOT", "qubits": [2, 0]}
		  ]
		}
	`)
	states, err := s.Simulate(in, "")
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.InDelta(t, 0.5, states[0].Purity, eps)
	assert.InDelta(t, 1, states[1].Purity, eps)
	assert.InDelta(t, 0.5, states[2].Purity, eps)
}

func TestTracePreservedThroughEvolution(t *testing.T) {
	state, err := InitialState(3, 10)
	require.NoError(t, err)
	ops := []circuit.GateOp{
		{Name: "H", Qubits: []int{1}},
		{Name: "CNOT", Qubits: []int{1, 2}},
		{Name: "SWAP", Qubits: []int{0, 2}},
		{Name: "T", Qubits: []int{0}},
	}
	for _, op := range ops {
		state, err = ApplyGate(state, op, gate.Exact, 3)
		require.NoError(t, err)
		tr, err := matrix.Trace(state)
		require.NoError(t, err)
		assert.InDelta(t, 1, real(tr), eps)
		assert.InDelta(t, 0, imag(tr), eps)
	}
}

func TestSwapMovesExcitation(t *testing.T) {
	// X(0) then SWAP(0,2): the excitation ends up on qubit 2.
	s := newSimulator(t)
	in := `{"num_qubits":3,"gates":[{"name":"X","qubits":[0]},{"name":"SWAP","qubits":[0,2]}]}`
	states, err := s.Simulate(in, "")
	require.NoError(t, err)
	assert.InDelta(t, 1, states[0].Bloch.Z, eps)
	assert.InDelta(t, 1, states[1].Bloch.Z, eps)
	assert.InDelta(t, -1, states[2].Bloch.Z, eps)
}

func TestEmptyCircuit(t *testing.T) {
	s := newSimulator(t)
	states, err := s.Simulate(`{"num_qubits":1,"gates":[]}`, "")
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.InDelta(t, 1, states[0].Purity, eps)
	assert.InDelta(t, 0, states[0].Bloch.X, eps)
	assert.InDelta(t, 0, states[0].Bloch.Y, eps)
	assert.InDelta(t, 1, states[0].Bloch.Z, eps)
	want := matrix.Matrix{{1, 0}, {0, 0}}
	assert.True(t, matrix.Equal(want, states[0].Matrix, eps))
}

func TestSimulateIsDeterministic(t *testing.T) {
	s := newSimulator(t)
	in := heredoc.Doc(`
		{
		  "num_qubits": 3,
		  "gates": [
		    {"name": "H", "qubits": [0]},
		    {"name": "RZ", "qubits": [1], "params": [0.3]},
		    {"name": "CNOT", "qubits": [0, 2]},
		    {"name": "CZ", "qubits": [1, 2]}
		  ]
		}
	`)
	first, err := s.Simulate(in, "")
	require.NoError(t, err)
	second, err := s.Simulate(in, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSimulateRejectsInvalidCircuit(t *testing.T) {
	s := newSimulator(t)
	tests := []struct {
		name string
		in   string
	}{
		{name: "zero qubits", in: `{"num_qubits":0,"gates":[]}`},
		{name: "unknown gate", in: `{"num_qubits":1,"gates":[{"name":"WARP","qubits":[0]}]}`},
		{name: "index out of range", in: `{"num_qubits":1,"gates":[{"name":"X","qubits":[1]}]}`},
		{name: "bad json", in: `{"num_qubits":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Simulate(tt.in, "")
			assert.Error(t, err)
		})
	}
}

func TestExplicitMatrixTakesPrecedence(t *testing.T) {
	// A custom matrix named like a registry gate must win over the lookup.
	s := newSimulator(t)
	in := heredoc.Doc(`
		{
		  "num_qubits": 1,
		  "gates": [
		    {"name": "H", "qubits": [0], "matrix": [[0, 1], [1, 0]]}
		  ]
		}
	`)
	states, err := s.Simulate(in, "")
	require.NoError(t, err)
	assert.InDelta(t, -1, states[0].Bloch.Z, eps)
}

func TestLegacyGateSet(t *testing.T) {
	core.ResetSetting()
	s := &Simulator{}
	require.NoError(t, s.Setup(&core.Conf{GateSet: "legacy", MaxQubits: 10}))

	// The legacy Y is real: applied to |0⟩ it still flips to |1⟩.
	states, err := s.Simulate(`{"num_qubits":1,"gates":[{"name":"Y","qubits":[0]}]}`, "")
	require.NoError(t, err)
	assert.InDelta(t, -1, states[0].Bloch.Z, eps)

	// Legacy purity reports min(sqrt(Tr ρ²), 1): 1/sqrt(2) for a Bell
	// marginal instead of 1/2.
	bell := `{"num_qubits":2,"gates":[{"name":"H","qubits":[0]},{"name":"CNOT","qubits":[0,1]}]}`
	states, err = s.Simulate(bell, "")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5), states[0].Purity, eps)

	// Per-call override back to the exact catalog.
	states, err = s.Simulate(bell, "exact")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, states[0].Purity, eps)
}

func TestPartialTraceDimensionCheck(t *testing.T) {
	full, err := matrix.Zeros(4, 4)
	require.NoError(t, err)
	_, err = PartialTrace(full, 0, 3)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = PartialTrace(full, 2, 2)
	assert.Error(t, err)
}
