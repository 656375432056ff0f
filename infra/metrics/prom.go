package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/adms/core/metrics"
)

// PromSink records control steps and solves in Prometheus metrics.
type PromSink struct {
	steps    *prometheus.CounterVec
	shed     *prometheus.CounterVec
	restored *prometheus.CounterVec
	failures *prometheus.CounterVec
	imbal    prometheus.Gauge
	loadsOff prometheus.Gauge
	solve    *prometheus.HistogramVec
}

// NewPromSink registers controller metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adms_steps_total",
			Help: "Control steps processed, by regime",
		}, []string{"regime"}),
		shed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adms_shed_total",
			Help: "Number of times each load was shed",
		}, []string{"load"}),
		restored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adms_restore_total",
			Help: "Number of times each load was restored",
		}, []string{"load"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adms_solver_failures_total",
			Help: "Shedding solves that produced no shed set, by status",
		}, []string{"status"}),
		imbal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adms_imbalance_mw",
			Help: "Demand minus generation at the last step",
		}),
		loadsOff: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "adms_loads_off",
			Help: "Loads currently switched off",
		}),
		solve: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adms_solve_duration_seconds",
			Help:    "Duration of shedding solves",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"status"}),
	}
	var err error
	if s.steps, err = register(reg, s.steps); err != nil {
		return nil, err
	}
	if s.shed, err = register(reg, s.shed); err != nil {
		return nil, err
	}
	if s.restored, err = register(reg, s.restored); err != nil {
		return nil, err
	}
	if s.failures, err = register(reg, s.failures); err != nil {
		return nil, err
	}
	if s.imbal, err = register(reg, s.imbal); err != nil {
		return nil, err
	}
	if s.loadsOff, err = register(reg, s.loadsOff); err != nil {
		return nil, err
	}
	if s.solve, err = register(reg, s.solve); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordStep updates the step counters and gauges.
func (s *PromSink) RecordStep(ev coremetrics.StepEvent) error {
	s.steps.WithLabelValues(ev.Regime).Inc()
	for _, name := range ev.Shed {
		s.shed.WithLabelValues(name).Inc()
	}
	for _, name := range ev.Restored {
		s.restored.WithLabelValues(name).Inc()
	}
	s.imbal.Set(ev.ImbalanceMW())
	s.loadsOff.Set(float64(ev.LoadsOff))
	return nil
}

// RecordSolve observes the solve duration and counts failures.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solve.WithLabelValues(ev.Status).Observe(ev.Duration.Seconds())
	if ev.Status != "optimal" {
		s.failures.WithLabelValues(ev.Status).Inc()
	}
	return nil
}
