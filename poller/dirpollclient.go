package poller

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blochlab/bloch-engine/common"
	"github.com/blochlab/bloch-engine/core"
)

const pickedDirName = "picked"

// dirPollClient picks up circuit files dropped into the spool directory.
// Each picked file is moved into the picked/ subdirectory before its job is
// created, so a file is turned into a job exactly once.
type dirPollClient struct {
	spoolDir  string
	pickedDir string
	count     int
	gateSet   string
}

type dirPollClientParams struct {
	spoolDir string
	count    int
	gateSet  string
}

func newDirPollClient(p *dirPollClientParams) (*dirPollClient, error) {
	if err := common.IsDirWritable(p.spoolDir); err != nil {
		zap.L().Error(fmt.Sprintf("spool dir is not usable/reason:%s", err))
		return nil, err
	}
	pickedDir := filepath.Join(p.spoolDir, pickedDirName)
	if err := os.MkdirAll(pickedDir, 0755); err != nil {
		zap.L().Error(fmt.Sprintf("failed to make picked dir/reason:%s", err))
		return nil, err
	}
	return &dirPollClient{
		spoolDir:  p.spoolDir,
		pickedDir: pickedDir,
		count:     p.count,
		gateSet:   p.gateSet,
	}, nil
}

func (c *dirPollClient) request() ([]core.Job, error) {
	zap.L().Debug(fmt.Sprintf("scanning %s for circuit files", c.spoolDir))
	entries, err := os.ReadDir(c.spoolDir)
	if err != nil {
		return []core.Job{}, fmt.Errorf("failed to read spool dir:%s/reason:%w", c.spoolDir, err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) > c.count {
		names = names[:c.count]
	}

	jobs := []core.Job{}
	for _, name := range names {
		job, err := c.pickUp(name)
		if err != nil {
			zap.L().Error(fmt.Sprintf("failed to pick up %s/reason:%s", name, err))
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (c *dirPollClient) pickUp(name string) (core.Job, error) {
	src := filepath.Join(c.spoolDir, name)
	dst := filepath.Join(c.pickedDir, name)
	if err := os.Rename(src, dst); err != nil {
		return nil, err
	}
	circuitJSON, err := common.ReadFile(dst)
	if err != nil {
		return nil, err
	}
	jc, err := core.NewJobContext()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to create a job context. Reason:%s", err))
		return nil, err
	}
	job, err := core.GetJobManager().NewJobWithValidation(
		&core.JobParam{
			JobID:       jobIDFromFileName(name),
			CircuitJSON: circuitJSON,
			GateSet:     c.gateSet,
		}, jc)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// jobIDFromFileName uses the file stem as the job ID so callers can find
// their result by the name they chose; unnamed drops get a fresh uuid.
func jobIDFromFileName(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		return uuid.NewString()
	}
	return stem
}
