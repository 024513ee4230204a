// Package simulation implements the default job kind: one density-matrix
// simulation of a wire-format circuit, run through the registered backend.
package simulation

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"go.uber.org/zap"

	"github.com/blochlab/bloch-engine/core"
)

const SIMULATION_JOB = "simulation"

type SimulationJob struct {
	jobData    *core.JobData
	jobContext *core.JobContext

	finished bool
}

func (j *SimulationJob) New(jd *core.JobData, jc *core.JobContext) core.Job {
	return &SimulationJob{
		jobData:    jd,
		jobContext: jc,
		finished:   false,
	}
}

func (j *SimulationJob) PreProcess() {
	if err := j.preProcessImpl(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to pre-process a job(%s). Reason:%s",
			j.JobData().ID, err.Error()))
		core.SetFailureWithError(j, err)
		j.finished = true
		return
	}
	return
}

func (j *SimulationJob) preProcessImpl() (err error) {
	err = nil
	jd := j.JobData()
	container := core.GetSystemComponents().Container
	err = container.Invoke(
		func(d core.DBManager) error {
			if d.ExistInInnerJobIDSet(jd.ID) {
				return core.ErrorJobIDConflict
			}
			return nil
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to check the existence of a job(%s). Reason:%s",
			jd.ID, err.Error()))
		return
	}
	err = container.Invoke(
		func(d core.DBManager) error {
			return d.Insert(j)
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to insert a job(%s). Reason:%s", jd.ID, err.Error()))
		return
	}
	zap.L().Debug(fmt.Sprintf("circuit:%s", jd.CircuitJSON))
	_ = container.Invoke(
		func(d core.DBManager) error {
			d.AddToInnerJobIDSet(jd.ID)
			return nil
		})
	return
}

func (j *SimulationJob) Process() {
	jd := j.JobData()
	jd.Status = core.RUNNING
	c := core.GetSystemComponents().Container

	started := time.Now()
	var states []core.QubitState
	err := c.Invoke(
		func(b core.SimBackend) error {
			var simErr error
			states, simErr = b.Simulate(jd.CircuitJSON, jd.GateSet)
			return simErr
		})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to simulate a job(%s). Reason:%s",
			jd.ID, err.Error()))
		core.SetFailureWithError(j, err)
		j.finished = true
		return
	}
	jd.Result.States = states
	jd.Result.ExecutionTime = time.Since(started)
	jd.Status = core.SUCCEEDED
	jd.Ended = strfmt.DateTime(time.Now())
	zap.L().Debug(fmt.Sprintf("finished simulating a job(%s) in %s",
		jd.ID, jd.Result.ExecutionTime))
}

func (j *SimulationJob) PostProcess() {
	container := core.GetSystemComponents().Container
	_ = container.Invoke(
		func(d core.DBManager) error {
			d.RemoveFromInnerJobIDSet(j.JobData().ID)
			return nil
		})
	j.finished = true
	return
}

func (j *SimulationJob) IsFinished() bool {
	return j.finished
}

func (j *SimulationJob) JobData() *core.JobData {
	return j.jobData
}

func (j *SimulationJob) JobType() string {
	return SIMULATION_JOB
}

func (j *SimulationJob) JobContext() *core.JobContext {
	return j.jobContext
}

func (j *SimulationJob) UpdateJobData(jd *core.JobData) {
	j.jobData = jd
}

func (j *SimulationJob) Clone() core.Job {
	cloned := &SimulationJob{
		jobData:    j.jobData.Clone(),
		jobContext: j.jobContext,
		finished:   j.finished,
	}
	return cloned
}
