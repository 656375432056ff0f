package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/adms/core/controller"
)

// ControllerConfig holds the control loop parameters.
type ControllerConfig struct {
	BufferMW       float64 `json:"buffer_mw"`
	CooldownPeriod int     `json:"cooldown_period"`
	// SolverTimeoutMS bounds each shedding solve; 0 disables the bound.
	SolverTimeoutMS int `json:"solver_timeout_ms"`
	// Optimizer selects the shedding algorithm: "milp" or "greedy".
	Optimizer string `json:"optimizer"`
}

// SetDefaults applies defaults for keys absent from the source.
func (c *ControllerConfig) SetDefaults(exists func(string) bool) {
	if !exists("controller.buffer_mw") {
		c.BufferMW = controller.DefaultBufferMW
	}
	if !exists("controller.cooldown_period") {
		c.CooldownPeriod = controller.DefaultCooldownPeriod
	}
	if c.Optimizer == "" {
		c.Optimizer = "milp"
	}
}

// Validate checks the parameters.
func (c ControllerConfig) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.SolverTimeoutMS < 0 {
		return fmt.Errorf("controller: solver_timeout_ms must be >= 0")
	}
	if c.Optimizer != "milp" && c.Optimizer != "greedy" {
		return fmt.Errorf("controller: unknown optimizer %s", c.Optimizer)
	}
	return nil
}

// Params converts the section to controller parameters.
func (c ControllerConfig) Params() controller.Config {
	return controller.Config{BufferMW: c.BufferMW, CooldownPeriod: c.CooldownPeriod}
}

// SolverTimeout returns the solve bound as a duration.
func (c ControllerConfig) SolverTimeout() time.Duration {
	return time.Duration(c.SolverTimeoutMS) * time.Millisecond
}
