// Package factory provides a small generic registry used to instantiate
// pluggable modules (optimizers, action log stores, metrics sinks) from
// configuration. A module is defined by a type string and a map of raw
// settings; factories decode the settings into typed structs and return the
// concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[shedding.Optimizer]()
//	reg.Register("milp", func(conf map[string]any) (shedding.Optimizer, error) {
//	    var c struct{ Timeout time.Duration `json:"timeout"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return shedding.NewMILPOptimizer(c.Timeout), nil
//	})
//	opt, err := reg.Create(factory.ModuleConfig{Type: "milp", Conf: map[string]any{"timeout": "50ms"}})
package factory
