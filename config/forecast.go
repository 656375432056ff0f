package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/adms/forecast"
)

// ForecastConfig selects where the demand and generation series come from.
type ForecastConfig struct {
	// Source is "csv" or "synthetic".
	Source         string `json:"source"`
	DemandPath     string `json:"demand_path"`
	GenerationPath string `json:"generation_path"`
	TimeLayout     string `json:"time_layout"`
	// Synthetic series settings.
	Seed            uint64 `json:"seed"`
	Points          int    `json:"points"`
	IntervalMinutes int    `json:"interval_minutes"`
}

// SetDefaults applies sane defaults. Zero points or interval select the
// defaults of 288 samples every 5 minutes.
func (c *ForecastConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = "csv"
	}
	if c.DemandPath == "" {
		c.DemandPath = "data/demand_forecast.csv"
	}
	if c.GenerationPath == "" {
		c.GenerationPath = "data/generation_forecast.csv"
	}
	if c.TimeLayout == "" {
		c.TimeLayout = forecast.DefaultLayout
	}
	if c.Points == 0 {
		c.Points = 288
	}
	if c.IntervalMinutes == 0 {
		c.IntervalMinutes = 5
	}
}

// Validate checks mandatory fields.
func (c ForecastConfig) Validate() error {
	switch c.Source {
	case "csv", "synthetic":
	default:
		return fmt.Errorf("forecast: unknown source %s", c.Source)
	}
	if c.Points <= 0 || c.IntervalMinutes <= 0 {
		return fmt.Errorf("forecast: points and interval_minutes must be > 0, got %d and %d", c.Points, c.IntervalMinutes)
	}
	return nil
}

// Generator returns the synthetic series settings.
func (c ForecastConfig) Generator() forecast.GeneratorConfig {
	g := forecast.DefaultGeneratorConfig()
	g.Seed = c.Seed
	g.Points = c.Points
	g.Interval = time.Duration(c.IntervalMinutes) * time.Minute
	return g
}
