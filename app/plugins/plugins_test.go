package plugins

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/adms/config"
	"github.com/kilianp07/adms/core/actionlog"
	"github.com/kilianp07/adms/core/shedding"
)

func TestNewOptimizer(t *testing.T) {
	opt, err := NewOptimizer(config.ControllerConfig{Optimizer: "milp", SolverTimeoutMS: 250})
	require.NoError(t, err)
	milp, ok := opt.(*shedding.MILPOptimizer)
	require.True(t, ok, "got %T", opt)
	assert.Equal(t, 250*time.Millisecond, milp.Timeout)

	opt, err = NewOptimizer(config.ControllerConfig{Optimizer: "greedy"})
	require.NoError(t, err)
	assert.IsType(t, shedding.GreedyOptimizer{}, opt)

	_, err = NewOptimizer(config.ControllerConfig{Optimizer: "annealing"})
	assert.ErrorContains(t, err, "greedy")
}

func TestNewLogStore(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		cfg  config.ActionLogConfig
		want any
	}{
		{config.ActionLogConfig{Backend: "memory"}, &actionlog.MemoryStore{}},
		{config.ActionLogConfig{Backend: "jsonl", Path: filepath.Join(dir, "a.jsonl")}, &actionlog.JSONLStore{}},
		{config.ActionLogConfig{Backend: "jsonl_rotating", Path: filepath.Join(dir, "b.jsonl"), MaxSizeMB: 1}, &actionlog.RotatingJSONLStore{}},
		{config.ActionLogConfig{Backend: "sqlite", Path: filepath.Join(dir, "c.db")}, &actionlog.SQLiteStore{}},
	}
	for _, c := range cases {
		t.Run(c.cfg.Backend, func(t *testing.T) {
			st, err := NewLogStore(c.cfg)
			require.NoError(t, err)
			assert.IsType(t, c.want, st)
			require.NoError(t, st.Close())
		})
	}

	_, err := NewLogStore(config.ActionLogConfig{Backend: "tape"})
	assert.Error(t, err)
}
