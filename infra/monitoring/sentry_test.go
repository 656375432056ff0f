package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/kilianp07/adms/config"
	coremon "github.com/kilianp07/adms/core/monitoring"
)

func TestNewSentryMonitor_EmptyDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(coremon.NopMonitor); !ok {
		t.Fatalf("expected NopMonitor, got %T", m)
	}
}

func TestNewSentryMonitor_InvalidDSN(t *testing.T) {
	if _, err := NewSentryMonitor(config.SentryConfig{DSN: "::not a dsn"}); err == nil {
		t.Fatalf("expected error for invalid dsn")
	}
}

func TestSentryMonitor_CaptureWithTransport(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{DSN: "https://public@example.com/1", Environment: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(*sentryMonitor); !ok {
		t.Fatalf("expected sentryMonitor, got %T", m)
	}
	m.CaptureException(nil, nil)
	m.CaptureException(errors.New("solve failed"), map[string]string{"module": "shedding"})
	m.Flush(10 * time.Millisecond)
}
