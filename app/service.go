package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/adms/app/plugins"
	"github.com/kilianp07/adms/config"
	"github.com/kilianp07/adms/core/actionlog"
	"github.com/kilianp07/adms/core/controller"
	"github.com/kilianp07/adms/core/events"
	"github.com/kilianp07/adms/core/loads"
	coremetrics "github.com/kilianp07/adms/core/metrics"
	"github.com/kilianp07/adms/core/model"
	coremon "github.com/kilianp07/adms/core/monitoring"
	coremqtt "github.com/kilianp07/adms/core/mqtt"
	"github.com/kilianp07/adms/forecast"
	"github.com/kilianp07/adms/infra/logger"
	"github.com/kilianp07/adms/infra/metrics"
	inframon "github.com/kilianp07/adms/infra/monitoring"
	"github.com/kilianp07/adms/infra/mqtt"
	"github.com/kilianp07/adms/internal/eventbus"
	"github.com/kilianp07/adms/pkg/export"
)

// Service wires the controller to its storage, metrics and MQTT outputs.
type Service struct {
	Controller *controller.Controller
	cfg        *config.Config
	store      actionlog.Store
	sink       coremetrics.Sink
	publisher  coremqtt.Publisher
	bus        *eventbus.TypedBus[events.StepEvent]
	log        logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	monitor, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(monitor)

	reg, err := loads.NewRegistry(cfg.Loads)
	if err != nil {
		return nil, fmt.Errorf("loads: %w", err)
	}
	opt, err := plugins.NewOptimizer(cfg.Controller)
	if err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}
	ctrl, err := controller.NewController(cfg.Controller.Params(), reg, opt, logger.New("controller"))
	if err != nil {
		return nil, err
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := plugins.NewLogStore(cfg.ActionLog)
	if err != nil {
		return nil, fmt.Errorf("action log: %w", err)
	}

	var pub coremqtt.Publisher = coremqtt.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}

	bus := eventbus.NewTyped[events.StepEvent]()
	ctrl.SetMetrics(sink)
	ctrl.SetLogStore(store)
	ctrl.SetBus(bus)

	return &Service{
		Controller: ctrl,
		cfg:        cfg,
		store:      store,
		sink:       sink,
		publisher:  pub,
		bus:        bus,
		log:        logg,
	}, nil
}

// LoadSamples returns the imbalance series selected by the forecast section.
func LoadSamples(cfg config.ForecastConfig) ([]model.ImbalanceSample, error) {
	switch cfg.Source {
	case "synthetic":
		g, err := forecast.NewGenerator(cfg.Generator())
		if err != nil {
			return nil, err
		}
		return g.Generate(), nil
	case "csv", "":
		return forecast.LoadFiles(cfg.DemandPath, cfg.GenerationPath, cfg.TimeLayout)
	default:
		return nil, fmt.Errorf("unknown forecast source %s", cfg.Source)
	}
}

// Run drives the controller over samples, exports the action log and
// returns the run summary. Step events are forwarded to MQTT while the run
// is in progress. A cancelled run still exports the records produced so far.
func (s *Service) Run(ctx context.Context, samples []model.ImbalanceSample) (export.Summary, error) {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	sub := s.bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		coremqtt.Forward(ctx, sub, s.publisher, logger.New("mqtt"))
	}()

	records, runErr := s.Controller.Run(ctx, samples)
	s.bus.Close()
	<-done
	if dropped := s.bus.Dropped(); dropped > 0 {
		s.log.Warnf("%d step events were not forwarded", dropped)
	}

	if err := export.WriteFile(s.cfg.Export.Path, records, s.cfg.Export.TimeLayout); err != nil {
		return export.Summary{}, fmt.Errorf("export: %w", err)
	}
	summary := export.Summarize(records)
	s.log.Infow("action log exported", map[string]any{
		"run_id":        s.Controller.RunID(),
		"path":          s.cfg.Export.Path,
		"interventions": summary.Interventions(),
		"failed":        summary.FailedSteps,
	})
	return summary, runErr
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.publisher.Disconnect()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.store.Close()
}
