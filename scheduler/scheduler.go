// Package scheduler drives accepted jobs through their lifecycle: queue them
// in FIFO order, run pre-processing, the simulation itself, then
// post-processing, and mirror every status transition into the DB channel.
package scheduler

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/blochlab/bloch-engine/core"
)

type NormalScheduler struct {
	queue *NormalQueue
}

type jobInScheduler struct {
	job      core.Job
	finished *sync.WaitGroup
	rejected bool
}

func (n *NormalScheduler) Setup(conf *core.Conf) error {
	n.queue = &NormalQueue{}
	return n.queue.Setup(conf)
}

// Start launches the worker loop. Jobs are simulated one at a time in queue
// order; a clone of each job is pushed to the DB channel before it runs so
// callers can observe the RUNNING status.
func (n *NormalScheduler) Start() error {
	go func() {
		for {
			zap.L().Debug("checking the queue...")
			jis, err := n.queue.Dequeue(true)
			if err != nil {
				zap.L().Error(fmt.Sprintf("failed to get a job from queue. Reason:%s", err))
				continue
			}
			jid := jis.job.JobData().ID
			zap.L().Debug(fmt.Sprintf("processing job:%s", jid))
			jis.job.JobData().Status = core.RUNNING
			jis.job.JobContext().DBChan <- jis.job.Clone()
			jis.job.Process()
			zap.L().Debug(fmt.Sprintf("finished to process job(%s), status:%s",
				jid, jis.job.JobData().Status))
			jis.finished.Done()
		}
	}()
	return nil
}

func (n *NormalScheduler) HandleJob(j core.Job) {
	zap.L().Debug(fmt.Sprintf("starting to handle job(%s) in %s", j.JobData().ID, j.JobData().Status))
	go n.handleImpl(j)
}

func (n *NormalScheduler) HandleJobForTest(j core.Job, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		n.handleImpl(j)
	}()
}

func (n *NormalScheduler) handleImpl(j core.Job) {
	jid := j.JobData().ID
	if j.JobData().Status != core.READY {
		zap.L().Error(
			fmt.Sprintf("finished to handle job(%s) with unexpected status:%s",
				jid, j.JobData().Status.String()))
		// not write to DB
		return
	}
	zap.L().Debug(fmt.Sprintf("handling job(%s). start pre-processing", jid))
	j.PreProcess()
	j.JobContext().DBChan <- j.Clone()
	if j.IsFinished() {
		zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after pre-processing", jid))
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	jis := &jobInScheduler{
		job:      j,
		finished: &wg,
	}
	n.queue.queueChan <- jis
	wg.Wait() // wait for processing
	if jis.rejected {
		core.SetFailureWithError(j, fmt.Errorf("queue is full"))
		j.JobContext().DBChan <- j.Clone()
		return
	}
	zap.L().Debug(fmt.Sprintf("processed job status: %s", j.JobData().Status))
	zap.L().Debug(fmt.Sprintf("handling job(%s). start post-processing", jid))
	j.PostProcess()
	j.JobContext().DBChan <- j.Clone()
	zap.L().Debug(fmt.Sprintf("finished to handle job(%s) with status:%s",
		jid, j.JobData().Status.String()))
}

func (n *NormalScheduler) GetCurrentQueueSize() int {
	return n.queue.GetCurrentSize()
}

func (n *NormalScheduler) IsOverRefillThreshold() bool {
	return n.queue.IsOverRefillThreshold()
}
