package shedding

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/adms/core/model"
)

func defaultLoads() []model.Load {
	return []model.Load{
		{Name: "EV_charger", PowerMW: 5, Priority: 3},
		{Name: "AC_unit", PowerMW: 3, Priority: 2},
		{Name: "Industrial_pump", PowerMW: 7, Priority: 1},
	}
}

func TestMILP_SingleLoad(t *testing.T) {
	opt := NewMILPOptimizer(0)
	res := opt.Solve(context.Background(), 4, []model.Load{{Name: "L1", PowerMW: 5, Priority: 1}})
	require.True(t, res.OK(), "status %s err %v", res.Status, res.Err)
	assert.Equal(t, []string{"L1"}, res.Names())
	assert.Equal(t, 5.0, res.TotalPowerMW)
	assert.Equal(t, 1.0, res.TotalCost)
}

func TestMILP_CheapestCover(t *testing.T) {
	opt := NewMILPOptimizer(0)
	res := opt.Solve(context.Background(), 4, defaultLoads())
	require.True(t, res.OK())
	assert.Equal(t, []string{"Industrial_pump"}, res.Names())
	assert.InDelta(t, 4.0/7.0, res.LowerBound, 1e-6)

	res = opt.Solve(context.Background(), 8, defaultLoads())
	require.True(t, res.OK())
	// Registry order, not selection order.
	assert.Equal(t, []string{"AC_unit", "Industrial_pump"}, res.Names())
	assert.Equal(t, 3.0, res.TotalCost)

	res = opt.Solve(context.Background(), 15, defaultLoads())
	require.True(t, res.OK())
	assert.Len(t, res.Shed, 3)
}

func TestMILP_Infeasible(t *testing.T) {
	opt := NewMILPOptimizer(0)
	res := opt.Solve(context.Background(), 16, defaultLoads())
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.ErrorIs(t, res.Err, ErrInfeasible)
	assert.Empty(t, res.Shed)
	assert.False(t, res.OK())
}

func TestMILP_NoCandidates(t *testing.T) {
	opt := NewMILPOptimizer(0)
	res := opt.Solve(context.Background(), 3, nil)
	assert.Equal(t, StatusNoCandidates, res.Status)
	assert.ErrorIs(t, res.Err, ErrNoCandidates)
}

func TestMILP_RelaxationError(t *testing.T) {
	old := relaxSolve
	relaxSolve = func(_, _ []float64, _ float64) (float64, error) { return 0, errors.New("fail") }
	defer func() { relaxSolve = old }()

	res := NewMILPOptimizer(0).Solve(context.Background(), 4, defaultLoads())
	assert.Equal(t, StatusSolverError, res.Status)
	assert.Error(t, res.Err)
	assert.Empty(t, res.Shed)
}

func TestMILP_Timeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	res := NewMILPOptimizer(0).Solve(ctx, 4, defaultLoads())
	assert.Equal(t, StatusTimeout, res.Status)
	assert.ErrorIs(t, res.Err, ErrTimeout)
}

func TestMILP_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewMILPOptimizer(time.Second).Solve(ctx, 4, defaultLoads())
	assert.Equal(t, StatusSolverError, res.Status)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestMILP_TieBreak(t *testing.T) {
	opt := NewMILPOptimizer(0)

	// Equal cost, equal size: lexicographic on names.
	loads := []model.Load{
		{Name: "B", PowerMW: 5, Priority: 1},
		{Name: "A", PowerMW: 5, Priority: 1},
	}
	res := opt.Solve(context.Background(), 4, loads)
	require.True(t, res.OK())
	assert.Equal(t, []string{"A"}, res.Names())

	// Equal (zero) cost: the smaller set wins.
	loads = []model.Load{
		{Name: "A", PowerMW: 2, Priority: 0},
		{Name: "B", PowerMW: 2, Priority: 0},
		{Name: "C", PowerMW: 4, Priority: 0},
	}
	res = opt.Solve(context.Background(), 3, loads)
	require.True(t, res.OK())
	assert.Equal(t, []string{"C"}, res.Names())
}

func TestMILP_Deterministic(t *testing.T) {
	opt := NewMILPOptimizer(0)
	loads := []model.Load{
		{Name: "a", PowerMW: 2, Priority: 1},
		{Name: "b", PowerMW: 2, Priority: 1},
		{Name: "c", PowerMW: 2, Priority: 1},
		{Name: "d", PowerMW: 2, Priority: 1},
	}
	first := opt.Solve(context.Background(), 3, loads)
	for i := 0; i < 5; i++ {
		again := opt.Solve(context.Background(), 3, loads)
		assert.Equal(t, first.Names(), again.Names())
	}
	assert.Equal(t, []string{"a", "b"}, first.Names())
}

// bruteForce returns the minimum cost of a cover, or +Inf when none exists.
func bruteForce(loads []model.Load, deficit float64) float64 {
	best := math.Inf(1)
	n := len(loads)
	for mask := 0; mask < 1<<n; mask++ {
		var p, c float64
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				p += loads[i].PowerMW
				c += loads[i].Priority
			}
		}
		if p >= deficit && c < best {
			best = c
		}
	}
	return best
}

func TestMILP_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	opt := NewMILPOptimizer(0)
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(8)
		loads := make([]model.Load, n)
		var total float64
		for i := range loads {
			loads[i] = model.Load{
				Name:     string(rune('a' + i)),
				PowerMW:  float64(1 + rng.Intn(10)),
				Priority: float64(rng.Intn(6)),
			}
			total += loads[i].PowerMW
		}
		deficit := 0.5 + rng.Float64()*(total+2)
		want := bruteForce(loads, deficit)
		res := opt.Solve(context.Background(), deficit, loads)
		if math.IsInf(want, 1) {
			assert.Equal(t, StatusInfeasible, res.Status, "trial %d", trial)
			continue
		}
		require.True(t, res.OK(), "trial %d: status %s err %v", trial, res.Status, res.Err)
		assert.InDelta(t, want, res.TotalCost, 1e-9, "trial %d", trial)
		assert.GreaterOrEqual(t, res.TotalPowerMW, deficit, "trial %d", trial)
		assert.LessOrEqual(t, res.LowerBound, res.TotalCost+1e-6, "trial %d", trial)
	}
}
