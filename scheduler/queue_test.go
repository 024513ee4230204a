//go:build unit
// +build unit

package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blochlab/bloch-engine/core"
)

type TestFIFO struct {
	conqFIFO
	queuedChan chan struct{}
}

func newTestFIFO(queuedChan chan struct{}) *TestFIFO {
	return &TestFIFO{
		conqFIFO:   *newConqFIFO(),
		queuedChan: queuedChan,
	}
}

func (t *TestFIFO) Enqueue(js *jobInScheduler) error {
	err := t.FIFO.Enqueue(js)
	t.queuedChan <- struct{}{}
	return err
}

func setUpTestNormalQueue(queuedChan chan struct{}) *NormalQueue {
	n := &NormalQueue{}
	conf := &core.Conf{QueueMaxSize: 1000}
	n.Setup(conf)
	n.fifo = newTestFIFO(queuedChan)
	return n
}

func tearDownTestNormalQueue(n *NormalQueue) {
	close(n.fifo.(*TestFIFO).queuedChan)
	n.TearDown()
}

func TestPutNormalQueue(t *testing.T) {
	s := core.SCWithMockContainer()
	defer s.TearDown()
	queuedChan := make(chan struct{})
	n := setUpTestNormalQueue(queuedChan)
	defer tearDownTestNormalQueue(n)

	n.queueChan <- newjobInScheduler(t, "test1")
	<-queuedChan
	assert.Equal(t, 1, n.fifo.GetLen())
	js, err := n.Dequeue(false)
	assert.Nil(t, err)
	assert.Equal(t, js.job.JobData().ID, "test1")
}

func TestNormalQueueDelete(t *testing.T) {
	s := core.SCWithMockContainer()
	defer s.TearDown()
	queuedChan := make(chan struct{})
	n := setUpTestNormalQueue(queuedChan)
	defer tearDownTestNormalQueue(n)

	for _, id := range []string{"test1", "test2", "test3", "test4"} {
		n.queueChan <- newjobInScheduler(t, id)
		<-queuedChan
	}
	assert.Equal(t, n.fifo.GetLen(), 4)

	n.Delete("test3")

	assert.Equal(t, n.fifo.GetLen(), 3)

	var jis *jobInScheduler
	var err error

	jis, err = n.Dequeue(false)
	assert.Nil(t, err)
	assert.Equal(t, jis.job.JobData().ID, "test1")

	jis, err = n.Dequeue(false)
	assert.Nil(t, err)
	assert.Equal(t, jis.job.JobData().ID, "test2")

	jis, err = n.Dequeue(false)
	assert.Nil(t, err)
	assert.Equal(t, jis.job.JobData().ID, "test4")

	jis, err = n.Dequeue(false)
	assert.EqualError(t, err, "empty queue")
	assert.Nil(t, jis)
}

func newjobInScheduler(t *testing.T, id string) *jobInScheduler {
	jm, err := core.NewJobManager(&core.MockJob{})
	assert.Nil(t, err)
	jc, err := core.NewJobContext()
	assert.Nil(t, err)
	mj, err := jm.NewJobFromJobData(&core.JobData{ID: id, JobType: "mock"}, jc)
	assert.Nil(t, err)
	return &jobInScheduler{
		job: mj,
	}
}
