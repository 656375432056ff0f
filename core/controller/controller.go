// Package controller drives the balancing loop: for every forecast sample it
// ticks load cooldowns, classifies the imbalance, sheds or restores loads and
// appends one action record to the audit trail.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/adms/core/actionlog"
	"github.com/kilianp07/adms/core/balance"
	"github.com/kilianp07/adms/core/events"
	"github.com/kilianp07/adms/core/loads"
	"github.com/kilianp07/adms/core/logger"
	"github.com/kilianp07/adms/core/metrics"
	"github.com/kilianp07/adms/core/model"
	"github.com/kilianp07/adms/core/monitoring"
	"github.com/kilianp07/adms/core/restore"
	"github.com/kilianp07/adms/core/shedding"
	"github.com/kilianp07/adms/internal/eventbus"
)

// Controller owns the load state store and is the only component that
// mutates it. It is not safe for concurrent use.
type Controller struct {
	cfg       Config
	registry  *loads.Registry
	store     *loads.Store
	optimizer shedding.Optimizer
	logger    logger.Logger
	metrics   metrics.Sink
	logStore  actionlog.Store
	bus       eventbus.Publisher[events.StepEvent]
	runID     string
	records   []model.ActionRecord
	lastTime  time.Time
}

// NewController builds a controller with every load initially on.
func NewController(cfg Config, reg *loads.Registry, opt shedding.Optimizer, log logger.Logger) (*Controller, error) {
	if reg == nil || opt == nil {
		return nil, fmt.Errorf("controller: nil parameter provided to NewController")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Controller{
		cfg:       cfg,
		registry:  reg,
		store:     loads.NewStore(reg),
		optimizer: opt,
		logger:    log,
		metrics:   metrics.NopSink{},
		runID:     uuid.NewString(),
	}, nil
}

// SetMetrics configures the sink receiving step and solve events.
func (c *Controller) SetMetrics(sink metrics.Sink) {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	c.metrics = sink
}

// SetLogStore configures the store used to persist action records.
func (c *Controller) SetLogStore(store actionlog.Store) { c.logStore = store }

// SetBus configures the bus on which step events are published.
func (c *Controller) SetBus(bus eventbus.Publisher[events.StepEvent]) { c.bus = bus }

// SetRunID overrides the generated run identifier.
func (c *Controller) SetRunID(id string) {
	if id != "" {
		c.runID = id
	}
}

// RunID identifies the records produced by this controller.
func (c *Controller) RunID() string { return c.runID }

// Run processes the samples in order and returns the action records. It
// stops between steps when ctx is cancelled and returns the records produced
// so far together with the context error.
func (c *Controller) Run(ctx context.Context, samples []model.ImbalanceSample) ([]model.ActionRecord, error) {
	out := make([]model.ActionRecord, 0, len(samples))
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			c.logger.Warnf("run %s interrupted after %d of %d steps", c.runID, len(out), len(samples))
			return out, err
		}
		out = append(out, c.Step(ctx, s))
	}
	c.logger.Infow("run complete", map[string]any{
		"run_id":    c.runID,
		"steps":     len(out),
		"loads_off": c.store.OffCount(),
	})
	return out, nil
}

// Step advances the loop by one sample and returns its action record.
func (c *Controller) Step(ctx context.Context, s model.ImbalanceSample) model.ActionRecord {
	if len(c.records) > 0 && !s.Timestamp.After(c.lastTime) {
		c.logger.Warnf("sample at %s does not follow %s", s.Timestamp.Format(time.RFC3339), c.lastTime.Format(time.RFC3339))
	}
	c.lastTime = s.Timestamp

	c.store.Tick()
	regime := balance.Classify(s.DemandMW, s.GenerationMW, c.cfg.BufferMW)

	ev := events.StepEvent{RunID: c.runID, Seq: len(c.records)}
	var actions []string
	switch regime {
	case model.Deficit:
		actions = c.shed(ctx, s, &ev)
	case model.Surplus:
		actions = c.restore(&ev)
	}

	rec := model.ActionRecord{
		Timestamp:    s.Timestamp,
		DemandMW:     s.DemandMW,
		GenerationMW: s.GenerationMW,
		Regime:       regime,
		Action:       model.JoinActions(actions),
	}
	c.records = append(c.records, rec)
	ev.Record = rec
	ev.LoadsOff = c.store.OffCount()

	c.logger.Debugw("step", map[string]any{
		"time":      s.Timestamp,
		"regime":    regime.String(),
		"imbalance": s.Imbalance(),
		"action":    rec.Action,
	})
	c.emit(ctx, ev)
	return rec
}

func (c *Controller) shed(ctx context.Context, s model.ImbalanceSample, ev *events.StepEvent) []string {
	deficit := s.Imbalance()
	start := time.Now()
	res := c.optimizer.Solve(ctx, deficit, c.store.OnLoads())
	ev.SolveStatus = res.Status.String()
	ev.SolveDuration = time.Since(start)

	c.recordSolve(s.Timestamp, deficit, res, ev.SolveDuration)

	if !res.OK() {
		c.solveFailed(s, res)
		return []string{model.ActionSolverFailed}
	}
	actions := make([]string, 0, len(res.Shed))
	for _, l := range res.Shed {
		if err := c.store.Shed(l.Name, c.cfg.CooldownPeriod); err != nil {
			c.logger.Errorf("apply shed %s: %v", l.Name, err)
			continue
		}
		actions = append(actions, model.ShedAction(l.Name))
		ev.Shed = append(ev.Shed, l.Name)
	}
	c.logger.Infow("loads shed", map[string]any{
		"deficit_mw": deficit,
		"shed_mw":    res.TotalPowerMW,
		"cost":       res.TotalCost,
		"loads":      ev.Shed,
	})
	return actions
}

func (c *Controller) solveFailed(s model.ImbalanceSample, res shedding.Result) {
	c.logger.Warnf("shedding failed at %s (%s): deficit %.2f MW: %v",
		s.Timestamp.Format(time.RFC3339), res.Status, s.Imbalance(), res.Err)
	switch res.Status {
	case shedding.StatusSolverError, shedding.StatusTimeout:
		err := res.Err
		if err == nil {
			err = errors.New(res.Status.String())
		}
		monitoring.CaptureException(err, map[string]string{
			"module": "shedding",
			"status": res.Status.String(),
			"run_id": c.runID,
		})
	}
}

func (c *Controller) restore(ev *events.StepEvent) []string {
	eligible := restore.Eligible(c.store.Snapshot())
	actions := make([]string, 0, len(eligible))
	for _, name := range eligible {
		if err := c.store.Restore(name); err != nil {
			c.logger.Errorf("apply restore %s: %v", name, err)
			continue
		}
		actions = append(actions, model.RestoreAction(name))
		ev.Restored = append(ev.Restored, name)
	}
	if len(ev.Restored) > 0 {
		c.logger.Infow("loads restored", map[string]any{"loads": ev.Restored})
	}
	return actions
}

func (c *Controller) recordSolve(ts time.Time, deficit float64, res shedding.Result, d time.Duration) {
	rec, ok := c.metrics.(metrics.SolveRecorder)
	if !ok {
		return
	}
	err := rec.RecordSolve(metrics.SolveEvent{
		RunID:       c.runID,
		Time:        ts,
		Status:      res.Status.String(),
		DeficitMW:   deficit,
		ShedPowerMW: res.TotalPowerMW,
		Cost:        res.TotalCost,
		LowerBound:  res.LowerBound,
		Nodes:       res.Nodes,
		Duration:    d,
	})
	if err != nil {
		c.logger.Warnf("record solve metrics: %v", err)
	}
}

// emit feeds the side channels. Their failures are logged and never abort the loop.
func (c *Controller) emit(ctx context.Context, ev events.StepEvent) {
	if c.logStore != nil {
		if err := c.logStore.Append(ctx, actionlog.NewRecord(c.runID, ev.Seq, ev.Record)); err != nil {
			c.logger.Warnf("append action log: %v", err)
		}
	}
	err := c.metrics.RecordStep(metrics.StepEvent{
		RunID:        c.runID,
		Time:         ev.Record.Timestamp,
		Regime:       ev.Record.Regime.String(),
		DemandMW:     ev.Record.DemandMW,
		GenerationMW: ev.Record.GenerationMW,
		Shed:         ev.Shed,
		Restored:     ev.Restored,
		Failed:       ev.Record.Failed(),
		LoadsOff:     ev.LoadsOff,
	})
	if err != nil {
		c.logger.Warnf("record step metrics: %v", err)
	}
	if c.bus != nil {
		c.bus.Publish(ev)
	}
}

// Log returns a copy of the action records produced so far.
func (c *Controller) Log() []model.ActionRecord {
	out := make([]model.ActionRecord, len(c.records))
	copy(out, c.records)
	return out
}

// States returns a snapshot of every load's state in registry order.
func (c *Controller) States() []model.LoadState { return c.store.Snapshot() }

// Registry returns the load catalog the controller operates on.
func (c *Controller) Registry() *loads.Registry { return c.registry }
