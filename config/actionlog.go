package config

import (
	"fmt"

	"github.com/kilianp07/adms/pkg/export"
)

// ActionLogConfig defines settings for action log storage and rotation.
type ActionLogConfig struct {
	// Backend selects the store type: "jsonl", "jsonl_rotating", "sqlite" or "memory".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *ActionLogConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "logs/actions.db"
		default:
			c.Path = "logs/actions.jsonl"
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c ActionLogConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "jsonl_rotating", "sqlite", "memory":
	default:
		return fmt.Errorf("action_log: unknown backend %s", c.Backend)
	}
	if c.Path == "" && c.Backend != "memory" {
		return fmt.Errorf("action_log: path is required")
	}
	return nil
}

// ExportConfig controls the CSV action log written after a run.
type ExportConfig struct {
	Path       string `json:"path"`
	TimeLayout string `json:"time_layout"`
}

// SetDefaults applies sane defaults.
func (c *ExportConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = export.DefaultPath
	}
	if c.TimeLayout == "" {
		c.TimeLayout = export.DefaultTimeLayout
	}
}
