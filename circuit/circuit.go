// Package circuit defines the textual circuit representation accepted from
// external callers and its boundary validation. This JSON record is the only
// wire format the engine consumes.
package circuit

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/blochlab/bloch-engine/gate"
	"github.com/blochlab/bloch-engine/matrix"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// GateOp is one gate application. An explicit Matrix takes precedence over
// the registry lookup for Name. Params feed the rotation constructors.
type GateOp struct {
	Name   string      `json:"name"`
	Qubits []int       `json:"qubits"`
	Params []float64   `json:"params,omitempty"`
	Matrix [][]float64 `json:"matrix,omitempty"`
}

// HasExplicitMatrix reports whether the op carries its own operator matrix.
func (g GateOp) HasExplicitMatrix() bool {
	return len(g.Matrix) > 0
}

// Circuit is an ordered gate list over NumQubits qubits. Gate order is
// semantically significant.
type Circuit struct {
	NumQubits int      `json:"num_qubits"`
	Gates     []GateOp `json:"gates"`
}

// Decode parses the JSON wire format. Validation is a separate step so that
// callers can report shape errors distinctly from syntax errors.
func Decode(data []byte) (*Circuit, error) {
	var c Circuit
	if err := jsonIter.Unmarshal(data, &c); err != nil {
		zap.L().Info(fmt.Sprintf("failed to decode circuit JSON/reason:%s", err))
		return nil, fmt.Errorf("invalid circuit JSON: %w", err)
	}
	return &c, nil
}

func (c *Circuit) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal circuit.Circuit")
		return ""
	}
	return string(st)
}

// Validate checks the whole circuit against the gate catalog and qubit
// bounds. All violations are collected and returned together; a circuit
// that fails validation is never partially simulated. maxQubits is the
// configured ceiling on NumQubits (cost grows as 2^n).
func (c *Circuit) Validate(maxQubits int) error {
	var errs error
	if c.NumQubits <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("num_qubits(%d) must be greater than 0", c.NumQubits))
	} else if c.NumQubits > maxQubits {
		errs = multierr.Append(errs, fmt.Errorf("num_qubits(%d) is over the limit(%d)", c.NumQubits, maxQubits))
	}
	for i, g := range c.Gates {
		errs = multierr.Append(errs, c.validateGate(i, g))
	}
	if errs != nil {
		zap.L().Info(fmt.Sprintf("circuit validation failed/reason:%s", errs))
	}
	return errs
}

func (c *Circuit) validateGate(i int, g GateOp) error {
	var errs error
	if len(g.Qubits) != 1 && len(g.Qubits) != 2 {
		errs = multierr.Append(errs,
			fmt.Errorf("gate[%d] %s: qubit index count must be 1 or 2, got %d", i, g.Name, len(g.Qubits)))
	}
	for _, q := range g.Qubits {
		if q < 0 || q >= c.NumQubits {
			errs = multierr.Append(errs,
				fmt.Errorf("gate[%d] %s: qubit index %d out of range [0,%d)", i, g.Name, q, c.NumQubits))
		}
	}
	if len(g.Qubits) == 2 && g.Qubits[0] == g.Qubits[1] {
		errs = multierr.Append(errs,
			fmt.Errorf("gate[%d] %s: duplicate qubit index %d", i, g.Name, g.Qubits[0]))
	}
	if g.HasExplicitMatrix() {
		m, err := matrix.FromReal(g.Matrix)
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("gate[%d] %s: bad explicit matrix: %w", i, g.Name, err))
		}
		wantDim := 1 << len(g.Qubits)
		if m.Rows() != wantDim || m.Cols() != wantDim {
			errs = multierr.Append(errs,
				fmt.Errorf("gate[%d] %s: explicit matrix is %dx%d, want %dx%d for %d qubit(s)",
					i, g.Name, m.Rows(), m.Cols(), wantDim, wantDim, len(g.Qubits)))
		}
		return errs
	}
	want, err := gate.QubitCount(g.Name)
	if err != nil {
		// Unknown names fail the whole circuit rather than being skipped,
		// so a typo never silently drops an operator.
		return multierr.Append(errs, fmt.Errorf("gate[%d]: %w", i, err))
	}
	if len(g.Qubits) == 1 || len(g.Qubits) == 2 {
		if want != len(g.Qubits) {
			errs = multierr.Append(errs,
				fmt.Errorf("gate[%d] %s: expects %d qubit(s), got %d", i, g.Name, want, len(g.Qubits)))
		}
	}
	return errs
}

// Operator resolves the operator matrix for one gate op, preferring an
// explicit matrix over the registry.
func Operator(g GateOp, set gate.Set) (matrix.Matrix, error) {
	if g.HasExplicitMatrix() {
		return matrix.FromReal(g.Matrix)
	}
	return gate.Lookup(set, g.Name, g.Params)
}
