// Package gate holds the fixed catalog of named quantum gate operators and
// the parametrized rotation constructors. The catalog is initialized once at
// process start and never mutated.
package gate

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/blochlab/bloch-engine/matrix"
)

// Set selects which operator catalog a simulation uses. Exact is the
// physically correct complex-valued catalog. Legacy reproduces the
// real-valued stand-ins of the original renderer backend, which replaced the
// imaginary unit with 1 in Y, S, T and the rotation gates.
type Set int

const (
	Exact Set = iota
	Legacy
)

func (s Set) String() string {
	switch s {
	case Exact:
		return "exact"
	case Legacy:
		return "legacy"
	default:
		return "unknown"
	}
}

func ToSet(s string) (Set, error) {
	switch s {
	case "exact", "":
		return Exact, nil
	case "legacy":
		return Legacy, nil
	default:
		return 0, fmt.Errorf("unknown gate set: %s", s)
	}
}

const sqrt1_2 = math.Sqrt2 / 2

var singleQubit = map[string]matrix.Matrix{
	"I": {{1, 0}, {0, 1}},
	"X": {{0, 1}, {1, 0}},
	"Y": {{0, complex(0, -1)}, {complex(0, 1), 0}},
	"Z": {{1, 0}, {0, -1}},
	"H": {{sqrt1_2, sqrt1_2}, {sqrt1_2, -sqrt1_2}},
	"S": {{1, 0}, {0, complex(0, 1)}},
	"SDG": {{1, 0}, {0, complex(0, -1)}},
	"T": {{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}},
	"TDG": {{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}},
}

var twoQubit = map[string]matrix.Matrix{
	"CNOT": {
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	},
	"CZ": {
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, -1},
	},
	"SWAP": {
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	},
}

// legacySingle carries the real-valued approximations of the original
// backend: every imaginary unit is replaced with 1, and the rotation gates
// are frozen at θ=π/2.
var legacySingle = map[string]matrix.Matrix{
	"I": singleQubit["I"],
	"X": singleQubit["X"],
	"Y": {{0, -1}, {1, 0}},
	"Z": singleQubit["Z"],
	"H": singleQubit["H"],
	"S": {{1, 0}, {0, 1}},
	"SDG": {{1, 0}, {0, -1}},
	"T": {{1, 0}, {0, math.Sqrt2}},
	"TDG": {{1, 0}, {0, -math.Sqrt2}},
	"RX": {{sqrt1_2, -sqrt1_2}, {-sqrt1_2, sqrt1_2}},
	"RY": {{sqrt1_2, -sqrt1_2}, {sqrt1_2, sqrt1_2}},
	"RZ": {{0, 0}, {0, math.Sqrt2}},
}

var rotations = map[string]func(theta float64) matrix.Matrix{
	"RX": RX,
	"RY": RY,
	"RZ": RZ,
}

var aliases = map[string]string{
	"CX": "CNOT",
}

// RX returns the rotation about the X axis by theta.
func RX(theta float64) matrix.Matrix {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return matrix.Matrix{{c, js}, {js, c}}
}

// RY returns the rotation about the Y axis by theta.
func RY(theta float64) matrix.Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return matrix.Matrix{{c, -s}, {s, c}}
}

// RZ returns the rotation about the Z axis by theta.
func RZ(theta float64) matrix.Matrix {
	return matrix.Matrix{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

// IsRotation reports whether name is a parametrized rotation gate.
func IsRotation(name string) bool {
	_, ok := rotations[canonical(name)]
	return ok
}

func canonical(name string) string {
	if a, ok := aliases[name]; ok {
		return a
	}
	return name
}

// Lookup resolves a gate name against the given catalog, applying any params
// to the rotation constructors. Rotations called with no params default to
// θ=0. The returned matrix is a copy safe to hand to callers.
func Lookup(set Set, name string, params []float64) (matrix.Matrix, error) {
	name = canonical(name)
	if set == Legacy {
		if m, ok := legacySingle[name]; ok {
			return m.Clone(), nil
		}
		if m, ok := twoQubit[name]; ok {
			return m.Clone(), nil
		}
		return nil, fmt.Errorf("unknown gate: %s", name)
	}
	if ctor, ok := rotations[name]; ok {
		theta := 0.0
		if len(params) > 0 {
			theta = params[0]
		}
		return ctor(theta), nil
	}
	if m, ok := singleQubit[name]; ok {
		return m.Clone(), nil
	}
	if m, ok := twoQubit[name]; ok {
		return m.Clone(), nil
	}
	return nil, fmt.Errorf("unknown gate: %s", name)
}

// QubitCount returns how many qubit indices the named gate expects, for
// callers validating circuits before simulation.
func QubitCount(name string) (int, error) {
	name = canonical(name)
	if _, ok := twoQubit[name]; ok {
		return 2, nil
	}
	if _, ok := singleQubit[name]; ok {
		return 1, nil
	}
	if _, ok := rotations[name]; ok {
		return 1, nil
	}
	return 0, fmt.Errorf("unknown gate: %s", name)
}

// SingleQubitNames returns the sorted single-qubit gate names, for callers
// building circuit-editing UIs.
func SingleQubitNames() []string {
	names := make([]string, 0, len(singleQubit)+len(rotations))
	for n := range singleQubit {
		names = append(names, n)
	}
	for n := range rotations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TwoQubitNames returns the sorted two-qubit gate names.
func TwoQubitNames() []string {
	names := make([]string, 0, len(twoQubit))
	for n := range twoQubit {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
