package plugins

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/kilianp07/adms/config"
	"github.com/kilianp07/adms/core/actionlog"
	"github.com/kilianp07/adms/core/shedding"
)

// OptimizerFactory builds a shedding optimizer from a raw configuration map.
type OptimizerFactory func(name string, conf map[string]any) (shedding.Optimizer, error)

// LogStoreFactory builds an action log store from raw config.
type LogStoreFactory func(name string, conf map[string]any) (actionlog.Store, error)

var (
	// Optimizers holds the shedding optimizer factories keyed by name.
	Optimizers = map[string]OptimizerFactory{}
	// LogStores holds the action log backend factories keyed by name.
	LogStores = map[string]LogStoreFactory{}
)

// RegisterOptimizer adds or replaces an optimizer factory.
func RegisterOptimizer(name string, f OptimizerFactory) { Optimizers[name] = f }

// RegisterLogStore adds or replaces an action log backend factory.
func RegisterLogStore(name string, f LogStoreFactory) { LogStores[name] = f }

// NewOptimizer builds the optimizer selected by the controller section.
func NewOptimizer(cfg config.ControllerConfig) (shedding.Optimizer, error) {
	f, ok := Optimizers[cfg.Optimizer]
	if !ok {
		return nil, fmt.Errorf("unknown optimizer %q (known: %v)", cfg.Optimizer, keys(Optimizers))
	}
	conf, err := toConf(cfg)
	if err != nil {
		return nil, err
	}
	return f(cfg.Optimizer, conf)
}

// NewLogStore builds the action log backend selected by cfg.
func NewLogStore(cfg config.ActionLogConfig) (actionlog.Store, error) {
	f, ok := LogStores[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown action log backend %q (known: %v)", cfg.Backend, keys(LogStores))
	}
	conf, err := toConf(cfg)
	if err != nil {
		return nil, err
	}
	return f(cfg.Backend, conf)
}

// toConf flattens a config section into the raw map factories receive.
func toConf(v any) (map[string]any, error) {
	out := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &out})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	return out, nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
