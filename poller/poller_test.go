//go:build unit
// +build unit

package poller

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blochlab/bloch-engine/core"
	"github.com/blochlab/bloch-engine/simulation"
)

const testCircuit = `{"num_qubits":1,"gates":[{"name":"H","qubits":[0]}]}`

func TestMain(m *testing.M) {
	core.NewJobManager(&simulation.SimulationJob{})
	m.Run()
}

func dropCircuit(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(testCircuit), 0644))
}

func TestDirPollClientPickUp(t *testing.T) {
	s := core.SCWithMockContainer()
	defer s.TearDown()

	dir := t.TempDir()
	dropCircuit(t, dir, "b-job.json")
	dropCircuit(t, dir, "a-job.json")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644))

	c, err := newDirPollClient(&dirPollClientParams{spoolDir: dir, count: 10})
	require.NoError(t, err)

	jobs, err := c.request()
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a-job", jobs[0].JobData().ID)
	assert.Equal(t, "b-job", jobs[1].JobData().ID)
	assert.Equal(t, testCircuit, jobs[0].JobData().CircuitJSON)

	// Picked files moved aside: nothing left to pick up.
	jobs, err = c.request()
	require.NoError(t, err)
	assert.Len(t, jobs, 0)
	_, err = os.Stat(filepath.Join(dir, pickedDirName, "a-job.json"))
	assert.NoError(t, err)
}

func TestDirPollClientCountLimit(t *testing.T) {
	s := core.SCWithMockContainer()
	defer s.TearDown()

	dir := t.TempDir()
	for _, name := range []string{"one.json", "two.json", "three.json"} {
		dropCircuit(t, dir, name)
	}

	c, err := newDirPollClient(&dirPollClientParams{spoolDir: dir, count: 2})
	require.NoError(t, err)

	jobs, err := c.request()
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	jobs, err = c.request()
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestDirPollClientMissingDir(t *testing.T) {
	_, err := newDirPollClient(&dirPollClientParams{spoolDir: "/no/such/dir", count: 1})
	assert.Error(t, err)
}

func TestDirPollClientSkipsInvalidCircuitFile(t *testing.T) {
	s := core.SCWithMockContainer()
	defer s.TearDown()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.json"), []byte(""), 0644))
	dropCircuit(t, dir, "good.json")

	c, err := newDirPollClient(&dirPollClientParams{spoolDir: dir, count: 10})
	require.NoError(t, err)

	jobs, err := c.request()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "good", jobs[0].JobData().ID)
}

func TestPollerStateTransitions(t *testing.T) {
	s := core.SCWithMockContainer()
	defer s.TearDown()

	dir := t.TempDir()
	p := &Poller{}
	require.NoError(t, p.SetParams(map[string]interface{}{
		"spool_dir":     dir,
		"normal_period": "10ms",
		"idle_period":   "50ms",
	}))
	assert.Equal(t, dir, p.SpoolDir)
	assert.Equal(t, DEFAULT_COUNT, p.Count)
	assert.Equal(t, DEFAULT_MAX_RETRY, p.MaxRetry)
	assert.Equal(t, 10*time.Millisecond, p.NormalPeriod)
	require.NoError(t, p.Setup())
	assert.Equal(t, POLLING, p.state)

	// Empty spool: back off to SUB_IDLE, then IDLE after max retries.
	p.Task()
	assert.Equal(t, SUB_IDLE, p.state)
	p.Task()
	assert.Equal(t, SUB_IDLE, p.state)
	p.Task()
	assert.Equal(t, IDLE, p.state)
	_, period := p.RequirePeriodUpdate()
	assert.Equal(t, p.IdlePeriod, period)

	// A dropped file wakes the poller back up.
	dropCircuit(t, dir, "wake.json")
	p.Task()
	assert.Equal(t, POLLING, p.state)
	_, period = p.RequirePeriodUpdate()
	assert.Equal(t, p.NormalPeriod, period)
}
