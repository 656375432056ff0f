package config

// SentryConfig configures error capture for solver and publisher failures.
// Monitoring stays disabled while DSN is empty.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	Release          string  `json:"release"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	AttachStacktrace bool    `json:"attach_stacktrace"`
	Debug            bool    `json:"debug"`
}

// Enabled reports whether a DSN is configured.
func (c SentryConfig) Enabled() bool { return c.DSN != "" }
