package forecast

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_InnerJoinSorted(t *testing.T) {
	demand := "time,demand_mw\n00:10:00,52.5\n00:00:00,50\n00:05:00,48.25\n00:20:00,60\n"
	generation := "time,generation_mw\n00:00:00,49\n00:05:00,51\n00:10:00,47.5\n00:15:00,40\n"

	samples, err := ReadCSV(strings.NewReader(demand), strings.NewReader(generation), "")
	require.NoError(t, err)
	require.Len(t, samples, 3)

	var times []string
	for _, s := range samples {
		times = append(times, s.Timestamp.Format(DefaultLayout))
	}
	assert.Equal(t, []string{"00:00:00", "00:05:00", "00:10:00"}, times)
	assert.Equal(t, 52.5, samples[2].DemandMW)
	assert.Equal(t, 47.5, samples[2].GenerationMW)
	assert.InDelta(t, -2.75, samples[1].Imbalance(), 1e-9)
}

func TestReadCSV_ColumnOrderFromHeader(t *testing.T) {
	demand := "demand_mw,time\n50,00:00:00\n"
	generation := "time, generation_mw\n00:00:00, 45\n"
	samples, err := ReadCSV(strings.NewReader(demand), strings.NewReader(generation), DefaultLayout)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 45.0, samples[0].GenerationMW)
}

func TestReadCSV_RFC3339Layout(t *testing.T) {
	demand := "time,demand_mw\n2025-01-01T00:05:00Z,51\n2025-01-01T00:00:00Z,50\n"
	generation := "time,generation_mw\n2025-01-01T00:00:00Z,49\n2025-01-01T00:05:00Z,49\n"
	samples, err := ReadCSV(strings.NewReader(demand), strings.NewReader(generation), time.RFC3339)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.True(t, samples[0].Timestamp.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestReadCSV_Errors(t *testing.T) {
	okGen := "time,generation_mw\n00:00:00,1\n"
	cases := map[string]string{
		"empty":          "",
		"missing column": "time,load\n00:00:00,1\n",
		"bad value":      "time,demand_mw\n00:00:00,abc\n",
		"bad time":       "time,demand_mw\nnoon,1\n",
		"duplicate":      "time,demand_mw\n00:00:00,1\n00:00:00,2\n",
		"ragged":         "time,demand_mw\n00:00:00\n",
	}
	for name, demand := range cases {
		_, err := ReadCSV(strings.NewReader(demand), strings.NewReader(okGen), "")
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrMalformed), "%s: %v", name, err)
	}

	_, err := ReadCSV(strings.NewReader("time,demand_mw\n00:00:00,1\n00:05:00,x\n"), strings.NewReader(okGen), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestGenerator_Reproducible(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Seed = 42
	g, err := NewGenerator(cfg)
	require.NoError(t, err)

	a := g.Generate()
	b := g.Generate()
	require.Len(t, a, 288)
	assert.Equal(t, a, b)

	assert.Equal(t, 5*time.Minute, a[1].Timestamp.Sub(a[0].Timestamp))
	assert.Equal(t, "23:55:00", a[len(a)-1].Timestamp.Format(DefaultLayout))

	cfg.Seed = 43
	other, err := NewGenerator(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a, other.Generate())
}

func TestGenerator_ValuesRoundedAndNonNegative(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.DemandMean = 2
	cfg.DemandStdDev = 1
	cfg.GenerationGapStdDev = 4
	g, err := NewGenerator(cfg)
	require.NoError(t, err)

	sum := 0.0
	for _, s := range g.Generate() {
		assert.GreaterOrEqual(t, s.GenerationMW, 0.0)
		assert.InDelta(t, s.DemandMW, round2(s.DemandMW), 1e-9)
		assert.InDelta(t, s.GenerationMW, round2(s.GenerationMW), 1e-9)
		sum += s.DemandMW
	}
	assert.InDelta(t, 2.0, sum/float64(cfg.Points), 0.5)
}

func TestNewGenerator_Invalid(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Points = 0
	_, err := NewGenerator(cfg)
	assert.Error(t, err)

	cfg = DefaultGeneratorConfig()
	cfg.Interval = 0
	_, err = NewGenerator(cfg)
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	g, err := NewGenerator(DefaultGeneratorConfig())
	require.NoError(t, err)
	samples := g.Generate()[:12]

	var dem, gen bytes.Buffer
	require.NoError(t, WriteCSV(&dem, &gen, samples, ""))
	assert.True(t, strings.HasPrefix(dem.String(), "time,demand_mw\n"))
	assert.True(t, strings.HasPrefix(gen.String(), "time,generation_mw\n"))

	back, err := ReadCSV(&dem, &gen, "")
	require.NoError(t, err)
	require.Len(t, back, len(samples))
	for i := range samples {
		assert.Equal(t, samples[i].DemandMW, back[i].DemandMW)
		assert.Equal(t, samples[i].GenerationMW, back[i].GenerationMW)
		assert.Equal(t, samples[i].Timestamp.Format(DefaultLayout), back[i].Timestamp.Format(DefaultLayout))
	}
}

func TestWriteFilesAndLoadFiles(t *testing.T) {
	dir := t.TempDir()
	dp := filepath.Join(dir, "data", "demand_forecast.csv")
	gp := filepath.Join(dir, "data", "generation_forecast.csv")
	g, err := NewGenerator(DefaultGeneratorConfig())
	require.NoError(t, err)

	require.NoError(t, WriteFiles(dp, gp, g.Generate(), ""))
	samples, err := LoadFiles(dp, gp, "")
	require.NoError(t, err)
	assert.Len(t, samples, 288)

	_, err = LoadFiles(filepath.Join(dir, "missing.csv"), gp, "")
	assert.Error(t, err)
}
