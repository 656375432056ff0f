package shedding

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/adms/core/model"
)

const eps = 1e-9

// MILPOptimizer solves the binary shedding problem exactly:
//
//	minimize   sum(priority_i * x_i)
//	subject to sum(power_i * x_i) >= deficit, x_i in {0,1}
//
// The LP relaxation is solved with the simplex method to obtain a lower
// bound, then a depth-first branch and bound enumerates integer solutions.
// Among equal-cost optima the set with the fewest loads wins, then the
// lexicographically smallest sorted list of names.
type MILPOptimizer struct {
	// Timeout bounds a single solve. Zero disables the limit.
	Timeout time.Duration
}

// NewMILPOptimizer returns an exact optimizer with the given time budget.
func NewMILPOptimizer(timeout time.Duration) *MILPOptimizer {
	return &MILPOptimizer{Timeout: timeout}
}

// solveRelaxation solves the continuous relaxation in standard form. Each
// load contributes x_i and a slack s_i with x_i + s_i = 1; a surplus
// variable t turns the cover constraint into sum(p_i x_i) - t = deficit.
func solveRelaxation(costs, powers []float64, deficit float64) (float64, error) {
	n := len(costs)
	cols := 2*n + 1
	c := make([]float64, cols)
	copy(c, costs)

	A := mat.NewDense(n+1, cols, nil)
	b := make([]float64, n+1)
	for i := 0; i < n; i++ {
		A.Set(i, i, 1)
		A.Set(i, n+i, 1)
		b[i] = 1
		A.Set(n, i, powers[i])
	}
	A.Set(n, 2*n, -1)
	b[n] = deficit

	opt, _, err := lp.Simplex(c, A, b, 1e-7, nil)
	return opt, err
}

// relaxSolve points to the function used for the relaxation. It can be
// overridden in tests to simulate solver failures.
var relaxSolve = solveRelaxation

// Solve implements Optimizer.
func (o *MILPOptimizer) Solve(ctx context.Context, deficit float64, candidates []model.Load) Result {
	if len(candidates) == 0 {
		return failure(StatusNoCandidates, ErrNoCandidates)
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
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

	bound, err := relaxSolve(costs, powers, deficit)
	if err != nil {
		return failure(StatusSolverError, fmt.Errorf("lp relaxation: %w", err))
	}

	s := newSearch(ctx, candidates, costs, powers, deficit)
	if err := s.visit(0, nil, 0, 0); err != nil {
		return contextFailure(err, s.nodes)
	}
	if !s.found {
		// The relaxation was feasible so an integer cover exists; reaching
		// this point means the search itself is broken.
		return failure(StatusSolverError, fmt.Errorf("branch and bound found no cover"))
	}

	res := Result{Status: StatusOptimal, LowerBound: bound, Nodes: s.nodes}
	chosen := append([]int(nil), s.best...)
	sort.Ints(chosen)
	for _, i := range chosen {
		res.Shed = append(res.Shed, candidates[i])
		res.TotalCost += costs[i]
		res.TotalPowerMW += powers[i]
	}
	return res
}

// search holds the branch and bound state. order lists candidate indices by
// increasing cost per MW, which makes the greedy fractional fill the exact
// LP bound of any node.
type search struct {
	ctx       context.Context
	loads     []model.Load
	costs     []float64
	powers    []float64
	deficit   float64
	order     []int
	suffixPow []float64

	nodes    int
	found    bool
	best     []int
	bestCost float64
}

func newSearch(ctx context.Context, loads []model.Load, costs, powers []float64, deficit float64) *search {
	order := make([]int, len(loads))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		ri, rj := costs[i]/powers[i], costs[j]/powers[j]
		if ri != rj {
			return ri < rj
		}
		if powers[i] != powers[j] {
			return powers[i] > powers[j]
		}
		return loads[i].Name < loads[j].Name
	})
	suffix := make([]float64, len(order)+1)
	for k := len(order) - 1; k >= 0; k-- {
		suffix[k] = suffix[k+1] + powers[order[k]]
	}
	return &search{
		ctx:       ctx,
		loads:     loads,
		costs:     costs,
		powers:    powers,
		deficit:   deficit,
		order:     order,
		suffixPow: suffix,
	}
}

func (s *search) visit(k int, chosen []int, cost, power float64) error {
	s.nodes++
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if power >= s.deficit-eps {
		// Any superset costs at least as much and sheds more loads.
		s.consider(chosen, cost)
		return nil
	}
	if k == len(s.order) {
		return nil
	}
	remaining := s.deficit - power
	if s.suffixPow[k] < remaining-eps {
		return nil
	}
	if s.found && cost+s.fractionalBound(k, remaining) > s.bestCost+tolerance(s.bestCost) {
		return nil
	}
	i := s.order[k]
	if err := s.visit(k+1, append(chosen, i), cost+s.costs[i], power+s.powers[i]); err != nil {
		return err
	}
	return s.visit(k+1, chosen, cost, power)
}

// fractionalBound is the LP relaxation value of covering remaining MW with
// the loads from position k onwards.
func (s *search) fractionalBound(k int, remaining float64) float64 {
	var bound float64
	for _, i := range s.order[k:] {
		if remaining <= eps {
			break
		}
		if s.powers[i] >= remaining {
			bound += s.costs[i] * remaining / s.powers[i]
			remaining = 0
			break
		}
		bound += s.costs[i]
		remaining -= s.powers[i]
	}
	if remaining > eps {
		return math.Inf(1)
	}
	return bound
}

func (s *search) consider(chosen []int, cost float64) {
	if !s.found || s.better(chosen, cost) {
		s.best = append(s.best[:0], chosen...)
		s.bestCost = cost
		s.found = true
	}
}

func (s *search) better(chosen []int, cost float64) bool {
	tol := tolerance(s.bestCost)
	if cost < s.bestCost-tol {
		return true
	}
	if cost > s.bestCost+tol {
		return false
	}
	if len(chosen) != len(s.best) {
		return len(chosen) < len(s.best)
	}
	return lexLess(s.sortedNames(chosen), s.sortedNames(s.best))
}

func (s *search) sortedNames(idx []int) []string {
	names := make([]string, len(idx))
	for j, i := range idx {
		names[j] = s.loads[i].Name
	}
	sort.Strings(names)
	return names
}

func lexLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func tolerance(v float64) float64 {
	return eps * math.Max(1, math.Abs(v))
}
