package core

import (
	"fmt"

	"go.uber.org/dig"
)

const MockMaxQubits int = 10

// MockJob is a minimal Job used by tests across packages. Process marks the
// job as succeeded without touching any backend.
type MockJob struct {
	jobData    *JobData
	jobContext *JobContext
}

func (j *MockJob) New(jd *JobData, jc *JobContext) Job {
	return &MockJob{
		jobData:    jd,
		jobContext: jc,
	}
}

func (j *MockJob) PreProcess() {}

func (j *MockJob) Process() {
	j.JobData().Status = SUCCEEDED
}

func (j *MockJob) PostProcess() {}

func (j *MockJob) IsFinished() bool {
	return j.JobData().Status == SUCCEEDED || j.JobData().Status == FAILED
}

func (j *MockJob) JobData() *JobData {
	return j.jobData
}

func (j *MockJob) JobType() string {
	return "mock"
}

func (j *MockJob) JobContext() *JobContext {
	return j.jobContext
}

func (j *MockJob) Clone() Job {
	return &MockJob{
		jobData:    j.jobData.Clone(),
		jobContext: j.jobContext,
	}
}

type successBackendForTest struct{}

func (successBackendForTest) Setup(*Conf) error { return nil }

func (successBackendForTest) Simulate(circuitJSON string, gateSet string) ([]QubitState, error) {
	return []QubitState{}, nil
}

func (successBackendForTest) MaxQubits() int { return MockMaxQubits }

type failBackendForTest struct{}

func (failBackendForTest) Setup(*Conf) error { return nil }

func (failBackendForTest) Simulate(circuitJSON string, gateSet string) ([]QubitState, error) {
	return nil, fmt.Errorf("backend failure for test")
}

func (failBackendForTest) MaxQubits() int { return MockMaxQubits }

type unimplementedScheduler struct{}

func (u *unimplementedScheduler) Setup(*Conf) error           { return nil }
func (u *unimplementedScheduler) Start() error                { return nil }
func (u *unimplementedScheduler) HandleJob(_ Job)             {}
func (u *unimplementedScheduler) GetCurrentQueueSize() int    { return 0 }
func (u *unimplementedScheduler) IsOverRefillThreshold() bool { return false }

func SCWithMockContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() SimBackend { return &successBackendForTest{} })
	c.Provide(func() DBManager { return &MemoryDB{} })
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithFailBackendContainer() *SystemComponents {
	c := dig.New()
	c.Provide(func() SimBackend { return &failBackendForTest{} })
	c.Provide(func() DBManager { return &MemoryDB{} })
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}

func SCWithScheduler(sc Scheduler) *SystemComponents {
	c := dig.New()
	c.Provide(func() SimBackend { return &successBackendForTest{} })
	c.Provide(func() DBManager { return &MemoryDB{} })
	c.Provide(func() Scheduler { return sc })
	s := NewSystemComponents(c)
	s.Setup(&Conf{QueueMaxSize: 1000})
	return s
}

func SCWithBackend(b SimBackend) *SystemComponents {
	c := dig.New()
	c.Provide(func() SimBackend { return b })
	c.Provide(func() DBManager { return &MemoryDB{} })
	c.Provide(func() Scheduler { return &unimplementedScheduler{} })
	s := NewSystemComponents(c)
	s.Setup(&Conf{})
	return s
}
