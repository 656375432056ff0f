// Package forecast reads and produces the demand and generation series fed
// to the controller.
package forecast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/adms/core/model"
)

// DefaultLayout parses the time-of-day column of the forecast files.
const DefaultLayout = "15:04:05"

// Column names of the two series.
const (
	TimeColumn       = "time"
	DemandColumn     = "demand_mw"
	GenerationColumn = "generation_mw"
)

// ErrMalformed is wrapped by every parse error.
var ErrMalformed = errors.New("malformed forecast")

type point struct {
	t time.Time
	v float64
}

// ReadCSV joins a demand series and a generation series on their time
// column. Times present in only one series are dropped and the result is
// sorted by time.
func ReadCSV(demand, generation io.Reader, layout string) ([]model.ImbalanceSample, error) {
	if layout == "" {
		layout = DefaultLayout
	}
	dem, err := readSeries(demand, DemandColumn, layout)
	if err != nil {
		return nil, fmt.Errorf("demand: %w", err)
	}
	gen, err := readSeries(generation, GenerationColumn, layout)
	if err != nil {
		return nil, fmt.Errorf("generation: %w", err)
	}
	byTime := make(map[string]float64, len(gen))
	for _, p := range gen {
		byTime[timeKey(p.t)] = p.v
	}
	out := make([]model.ImbalanceSample, 0, len(dem))
	for _, p := range dem {
		g, ok := byTime[timeKey(p.t)]
		if !ok {
			continue
		}
		out = append(out, model.ImbalanceSample{Timestamp: p.t, DemandMW: p.v, GenerationMW: g})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// LoadFiles opens both series and joins them with ReadCSV.
func LoadFiles(demandPath, generationPath, layout string) ([]model.ImbalanceSample, error) {
	df, err := os.Open(demandPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = df.Close() }()
	gf, err := os.Open(generationPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = gf.Close() }()
	return ReadCSV(df, gf, layout)
}

// readSeries reads a two column CSV whose header names the time column and
// the value column.
func readSeries(r io.Reader, valueCol, layout string) ([]point, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	ti, vi := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.ToLower(h)) {
		case TimeColumn:
			ti = i
		case valueCol:
			vi = i
		}
	}
	if ti < 0 || vi < 0 {
		return nil, fmt.Errorf("%w: header %v lacks %q or %q", ErrMalformed, header, TimeColumn, valueCol)
	}

	seen := make(map[string]struct{})
	var out []point
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		line, _ := cr.FieldPos(0)
		t, err := time.Parse(layout, strings.TrimSpace(row[ti]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: time %q: %v", ErrMalformed, line, row[ti], err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[vi]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s %q: %v", ErrMalformed, line, valueCol, row[vi], err)
		}
		key := timeKey(t)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate time %s", ErrMalformed, line, row[ti])
		}
		seen[key] = struct{}{}
		out = append(out, point{t: t, v: v})
	}
	return out, nil
}

// timeKey identifies an instant; time-of-day layouts parse to year 0 where
// UnixNano is undefined.
func timeKey(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }
