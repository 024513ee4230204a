// Package sim implements the density-matrix simulation backend: composite
// state construction, operator expansion and application, and per-qubit
// reduction via partial trace.
package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/blochlab/bloch-engine/circuit"
	"github.com/blochlab/bloch-engine/core"
	"github.com/blochlab/bloch-engine/gate"
)

const SIMULATOR_SETTING_KEY = "simulator"

const DEFAULT_MAX_QUBITS = 10

type SimulatorSetting struct {
	GateSet   string `toml:"gate_set"`
	MaxQubits int    `toml:"max_qubits"`
}

func NewSimulatorSetting() SimulatorSetting {
	return SimulatorSetting{
		GateSet:   gate.Exact.String(),
		MaxQubits: DEFAULT_MAX_QUBITS,
	}
}

// Simulator is the density-matrix core.SimBackend. It holds only
// configuration; every Simulate call is independent and side-effect-free,
// so concurrent jobs need no coordination.
type Simulator struct {
	setting SimulatorSetting
	set     gate.Set
}

func (s *Simulator) Setup(conf *core.Conf) error {
	setting := NewSimulatorSetting()
	if conf != nil {
		if conf.GateSet != "" {
			setting.GateSet = conf.GateSet
		}
		if conf.MaxQubits > 0 {
			setting.MaxQubits = conf.MaxQubits
		}
	}
	if raw, ok := core.GetComponentSetting(SIMULATOR_SETTING_KEY); ok {
		if mapped, ok := raw.(map[string]interface{}); ok {
			if g, ok := mapped["gate_set"].(string); ok {
				setting.GateSet = g
			}
			if m, ok := mapped["max_qubits"].(int64); ok {
				setting.MaxQubits = int(m)
			}
		}
	}
	set, err := gate.ToSet(setting.GateSet)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup simulator/reason:%s", err))
		return err
	}
	s.setting = setting
	s.set = set
	zap.L().Info(fmt.Sprintf("simulator is set up/gate_set:%s/max_qubits:%d",
		s.set, s.setting.MaxQubits))
	return nil
}

func (s *Simulator) MaxQubits() int {
	if s.setting.MaxQubits <= 0 {
		return DEFAULT_MAX_QUBITS
	}
	return s.setting.MaxQubits
}

// Simulate decodes and validates the wire-format circuit, folds its gate
// list over the initial all-zero state, and reduces the final state
// qubit-by-qubit. The result list is ordered by ascending qubit index.
// Deterministic: the same input always yields the same output.
func (s *Simulator) Simulate(circuitJSON string, gateSet string) ([]core.QubitState, error) {
	c, err := circuit.Decode([]byte(circuitJSON))
	if err != nil {
		return nil, err
	}
	return s.SimulateCircuit(c, gateSet)
}

// SimulateCircuit is Simulate for an already-decoded circuit.
func (s *Simulator) SimulateCircuit(c *circuit.Circuit, gateSet string) ([]core.QubitState, error) {
	set := s.set
	if gateSet != "" {
		var err error
		set, err = gate.ToSet(gateSet)
		if err != nil {
			return nil, err
		}
	}
	if err := c.Validate(s.MaxQubits()); err != nil {
		return nil, err
	}
	state, err := InitialState(c.NumQubits, s.MaxQubits())
	if err != nil {
		return nil, err
	}
	for i, op := range c.Gates {
		state, err = ApplyGate(state, op, set, c.NumQubits)
		if err != nil {
			zap.L().Info(fmt.Sprintf("failed to apply gate[%d] %s/reason:%s", i, op.Name, err))
			return nil, fmt.Errorf("gate[%d] %s: %w", i, op.Name, err)
		}
	}
	states := make([]core.QubitState, 0, c.NumQubits)
	for q := 0; q < c.NumQubits; q++ {
		red, err := PartialTrace(state, q, c.NumQubits)
		if err != nil {
			return nil, err
		}
		var purity float64
		if set == gate.Legacy {
			purity, err = LegacyPurity(red)
		} else {
			purity, err = Purity(red)
		}
		if err != nil {
			return nil, err
		}
		bloch, err := BlochVector(red, set)
		if err != nil {
			return nil, err
		}
		states = append(states, core.QubitState{
			Matrix: red,
			Purity: purity,
			Bloch:  bloch,
		})
	}
	return states, nil
}
