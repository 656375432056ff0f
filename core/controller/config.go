package controller

import "fmt"

const (
	DefaultBufferMW       = 2.0
	DefaultCooldownPeriod = 3
)

// Config holds the control loop parameters.
type Config struct {
	// BufferMW is the imbalance tolerated before acting.
	BufferMW float64
	// CooldownPeriod is the number of steps a shed load stays off before it
	// may be restored.
	CooldownPeriod int
}

// DefaultConfig returns the parameters used when none are configured.
func DefaultConfig() Config {
	return Config{BufferMW: DefaultBufferMW, CooldownPeriod: DefaultCooldownPeriod}
}

// Validate checks that the parameters are usable.
func (c Config) Validate() error {
	if c.BufferMW < 0 {
		return fmt.Errorf("controller: buffer_mw must be >= 0, got %v", c.BufferMW)
	}
	if c.CooldownPeriod < 0 {
		return fmt.Errorf("controller: cooldown_period must be >= 0, got %d", c.CooldownPeriod)
	}
	return nil
}
