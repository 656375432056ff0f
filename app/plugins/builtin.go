package plugins

import (
	"github.com/kilianp07/adms/config"
	"github.com/kilianp07/adms/core/actionlog"
	"github.com/kilianp07/adms/core/factory"
	"github.com/kilianp07/adms/core/shedding"
)

func init() {
	RegisterOptimizer("milp", func(name string, conf map[string]any) (shedding.Optimizer, error) {
		var cc config.ControllerConfig
		if err := factory.Decode(conf, &cc); err != nil {
			return nil, err
		}
		return shedding.NewMILPOptimizer(cc.SolverTimeout()), nil
	})
	RegisterOptimizer("greedy", func(name string, _ map[string]any) (shedding.Optimizer, error) {
		return shedding.GreedyOptimizer{}, nil
	})

	RegisterLogStore("memory", func(name string, _ map[string]any) (actionlog.Store, error) {
		return actionlog.NewMemoryStore(), nil
	})
	RegisterLogStore("jsonl", func(name string, conf map[string]any) (actionlog.Store, error) {
		var lc config.ActionLogConfig
		if err := factory.Decode(conf, &lc); err != nil {
			return nil, err
		}
		return actionlog.NewJSONLStore(lc.Path)
	})
	RegisterLogStore("jsonl_rotating", func(name string, conf map[string]any) (actionlog.Store, error) {
		var lc config.ActionLogConfig
		if err := factory.Decode(conf, &lc); err != nil {
			return nil, err
		}
		return actionlog.NewRotatingJSONLStore(lc.Path, lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays)
	})
	RegisterLogStore("sqlite", func(name string, conf map[string]any) (actionlog.Store, error) {
		var lc config.ActionLogConfig
		if err := factory.Decode(conf, &lc); err != nil {
			return nil, err
		}
		return actionlog.NewSQLiteStore(lc.Path)
	})
}
