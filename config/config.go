package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/adms/core/loads"
	"github.com/kilianp07/adms/core/metrics"
	"github.com/kilianp07/adms/core/model"
	"github.com/kilianp07/adms/infra/mqtt"
)

type Config struct {
	Controller ControllerConfig `json:"controller"`
	Loads      []model.Load     `json:"loads"`
	Forecast   ForecastConfig   `json:"forecast"`
	ActionLog  ActionLogConfig  `json:"action_log"`
	Export     ExportConfig     `json:"export"`
	Metrics    metrics.Config   `json:"metrics"`
	MQTT       mqtt.Config      `json:"mqtt"`
	Sentry     SentryConfig     `json:"sentry"`
}

// DefaultLoads is the load catalog used when none is configured.
func DefaultLoads() []model.Load {
	return []model.Load{
		{Name: "EV_charger", PowerMW: 5, Priority: 3},
		{Name: "AC_unit", PowerMW: 3, Priority: 2},
		{Name: "Industrial_pump", PowerMW: 7, Priority: 1},
	}
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults(func(string) bool { return false })
	return cfg
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.setDefaults(k.Exists)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults fills unset sections. exists reports whether a key was
// present in the source, so explicit zero values are kept.
func (c *Config) setDefaults(exists func(string) bool) {
	c.Controller.SetDefaults(exists)
	if len(c.Loads) == 0 {
		c.Loads = DefaultLoads()
	}
	c.Forecast.SetDefaults()
	c.ActionLog.SetDefaults()
	c.Export.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Controller.Validate(); err != nil {
		return err
	}
	if _, err := loads.NewRegistry(c.Loads); err != nil {
		return fmt.Errorf("loads: %w", err)
	}
	if err := c.Forecast.Validate(); err != nil {
		return err
	}
	return c.ActionLog.Validate()
}
