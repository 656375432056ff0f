package forecast

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/adms/core/model"
)

// GeneratorConfig parameterises the synthetic series.
type GeneratorConfig struct {
	Start    time.Time
	Interval time.Duration
	Points   int
	Seed     uint64
	// DemandMean and DemandStdDev shape the demand distribution in MW.
	DemandMean   float64
	DemandStdDev float64
	// GenerationGapStdDev is the spread of demand minus generation.
	GenerationGapStdDev float64
}

// DefaultGeneratorConfig covers one day at five minute resolution.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Interval:            5 * time.Minute,
		Points:              288,
		DemandMean:          50,
		DemandStdDev:        5,
		GenerationGapStdDev: 4,
	}
}

// Generator produces reproducible demand and generation forecasts.
type Generator struct {
	cfg GeneratorConfig
}

func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.Points <= 0 {
		return nil, errors.New("forecast: points must be > 0")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("forecast: interval must be > 0")
	}
	if cfg.DemandStdDev < 0 || cfg.GenerationGapStdDev < 0 {
		return nil, errors.New("forecast: standard deviations must be >= 0")
	}
	return &Generator{cfg: cfg}, nil
}

// Generate draws every demand value first, then the generation gaps, so a
// given seed always yields the same series. Generation is clipped at zero
// and both values are rounded to two decimals.
func (g *Generator) Generate() []model.ImbalanceSample {
	src := rand.NewPCG(g.cfg.Seed, g.cfg.Seed)
	demand := distuv.Normal{Mu: g.cfg.DemandMean, Sigma: g.cfg.DemandStdDev, Src: src}
	gap := distuv.Normal{Mu: 0, Sigma: g.cfg.GenerationGapStdDev, Src: src}

	n := g.cfg.Points
	out := make([]model.ImbalanceSample, n)
	for i := range out {
		out[i].Timestamp = g.cfg.Start.Add(time.Duration(i) * g.cfg.Interval)
		out[i].DemandMW = round2(demand.Rand())
	}
	for i := range out {
		out[i].GenerationMW = round2(math.Max(0, out[i].DemandMW-gap.Rand()))
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
