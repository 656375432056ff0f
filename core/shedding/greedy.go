package shedding

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/adms/core/model"
)

// GreedyOptimizer picks loads by increasing cost per MW until the deficit is
// covered, then drops any load that turned out to be redundant. It is fast
// but not guaranteed to be optimal.
type GreedyOptimizer struct{}

// Solve implements Optimizer.
func (GreedyOptimizer) Solve(ctx context.Context, deficit float64, candidates []model.Load) Result {
	if len(candidates) == 0 {
		return failure(StatusNoCandidates, ErrNoCandidates)
	}
	if err := ctx.Err(); err != nil {
		return contextFailure(err, 0)
	}
	costs := make([]float64, len(candidates))
	powers := make([]float64, len(candidates))
	for i, l := range candidates {
		costs[i] = l.Priority
		powers[i] = l.PowerMW
	}
	if available := floats.Sum(powers); available < deficit-eps {
		return failure(StatusInfeasible, fmt.Errorf("%w: deficit %.3f MW exceeds %.3f MW sheddable", ErrInfeasible, deficit, available))
	}

	s := newSearch(ctx, candidates, costs, powers, deficit)
	var picked []int
	var covered float64
	for _, i := range s.order {
		if covered >= deficit-eps {
			break
		}
		picked = append(picked, i)
		covered += powers[i]
	}

	// Drop the most expensive redundant loads first.
	sort.SliceStable(picked, func(a, b int) bool {
		return costs[picked[a]] > costs[picked[b]]
	})
	kept := picked[:0]
	for _, i := range picked {
		if covered-powers[i] >= deficit-eps {
			covered -= powers[i]
			continue
		}
		kept = append(kept, i)
	}
	sort.Ints(kept)

	res := Result{Status: StatusOptimal, Nodes: len(s.order)}
	for _, i := range kept {
		res.Shed = append(res.Shed, candidates[i])
		res.TotalCost += costs[i]
		res.TotalPowerMW += powers[i]
	}
	return res
}
