package core

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/blochlab/bloch-engine/matrix"
)

type Status int

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	READY     Status = iota // Accepted and queued, never simulated yet.
	RUNNING                 // Being simulated.
	SUCCEEDED               // Finished successfully.
	FAILED                  // Finished with failure.
	CANCELLED               // Finished with cancellation.
)

func (s Status) String() string {
	switch s {
	case READY:
		return "ready"
	case RUNNING:
		return "running"
	case SUCCEEDED:
		return "succeeded"
	case FAILED:
		return "failed"
	case CANCELLED:
		return "cancelled"
	default:
		return "unknown"
	}
}

func ToStatus(s string) (Status, error) {
	switch s {
	case "ready":
		return READY, nil
	case "running":
		return RUNNING, nil
	case "succeeded":
		return SUCCEEDED, nil
	case "failed":
		return FAILED, nil
	case "cancelled":
		return CANCELLED, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", s)
	}
}

// BlochVector holds the expectation values of a single-qubit state along the
// Pauli X, Y and Z axes.
type BlochVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// QubitState is the reduced state of one qubit after simulation: the 2x2
// reduced density matrix, its purity and its Bloch vector. Value result
// returned to the caller with no further lifecycle.
type QubitState struct {
	Matrix matrix.Matrix `json:"matrix"`
	Purity float64       `json:"purity"`
	Bloch  BlochVector   `json:"bloch_vector"`
}

// Result carries the per-qubit reduced states in ascending qubit order.
type Result struct {
	States        []QubitState  `json:"states"`
	Message       string        `json:"message"`
	ExecutionTime time.Duration `json:"execution_time"`
}

func NewResult() *Result {
	return &Result{
		States: []QubitState{},
	}
}

func (r *Result) ToString() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error("Failed to marshal core.Result")
		return ""
	}
	st = pretty.Pretty(st)
	return string(st)
}

// JobData is the mutable payload of one simulation job. CircuitJSON is the
// wire-format circuit record as received from the caller. GateSet selects
// the operator catalog; empty means the backend default.
type JobData struct {
	ID          string
	Status      Status
	CircuitJSON string
	GateSet     string
	Result      *Result
	JobType     string
	Created     strfmt.DateTime
	Ended       strfmt.DateTime
}

func NewJobData() *JobData {
	return &JobData{
		Result:  NewResult(),
		Created: strfmt.DateTime(time.Now()),
	}
}

func (jd *JobData) Clone() *JobData {
	c := deepcopy.Copy(jd).(*JobData)
	c.Created = *jd.Created.DeepCopy()
	c.Ended = *jd.Ended.DeepCopy()
	return c
}
