package shedding

import (
	"context"
	"errors"

	"github.com/kilianp07/adms/core/model"
)

var (
	// ErrInfeasible indicates the on-state loads cannot cover the deficit.
	ErrInfeasible = errors.New("shedding infeasible")
	// ErrNoCandidates indicates a deficit occurred with every load already off.
	ErrNoCandidates = errors.New("no loads available to shed")
	// ErrTimeout indicates the solve exceeded its time budget.
	ErrTimeout = errors.New("shedding solve timed out")
)

// Status is the outcome of a shedding solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusNoCandidates
	StatusSolverError
	StatusTimeout
)

// String returns a label usable in logs and metrics.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusNoCandidates:
		return "no_candidates"
	case StatusSolverError:
		return "solver_error"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Result is the value returned by an Optimizer. Shed is only populated when
// Status is StatusOptimal and is ordered like the candidates passed in.
type Result struct {
	Status       Status
	Shed         []model.Load
	TotalCost    float64
	TotalPowerMW float64
	// LowerBound is the LP relaxation value when it was computed.
	LowerBound float64
	// Nodes counts the branch and bound nodes visited.
	Nodes int
	Err   error
}

// OK reports whether the result carries a shed set to apply.
func (r Result) OK() bool { return r.Status == StatusOptimal }

// Names returns the names of the loads to shed.
func (r Result) Names() []string {
	names := make([]string, len(r.Shed))
	for i, l := range r.Shed {
		names[i] = l.Name
	}
	return names
}

// Optimizer selects a set of loads whose combined power covers a deficit.
type Optimizer interface {
	Solve(ctx context.Context, deficitMW float64, candidates []model.Load) Result
}

func failure(status Status, err error) Result {
	return Result{Status: status, Err: err}
}

// contextFailure maps a context error to a timeout or solver failure.
func contextFailure(err error, nodes int) Result {
	var res Result
	if errors.Is(err, context.DeadlineExceeded) {
		res = failure(StatusTimeout, errors.Join(ErrTimeout, err))
	} else {
		res = failure(StatusSolverError, err)
	}
	res.Nodes = nodes
	return res
}
