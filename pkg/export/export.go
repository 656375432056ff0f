// Package export writes controller action logs for offline analysis and
// summarises how often the controller intervened.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kilianp07/adms/core/model"
)

// DefaultPath is where the action log is written when none is configured.
const DefaultPath = "logs/adms_log.csv"

// DefaultTimeLayout formats the time column.
const DefaultTimeLayout = "15:04:05"

// WriteJSON writes the action log to w in JSON format.
func WriteJSON(w io.Writer, records []model.ActionRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteCSV writes the action log to w with the columns time, demand,
// generation and action.
func WriteCSV(w io.Writer, records []model.ActionRecord, layout string) error {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "demand", "generation", "action"}); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			r.Timestamp.Format(layout),
			strconv.FormatFloat(r.DemandMW, 'f', -1, 64),
			strconv.FormatFloat(r.GenerationMW, 'f', -1, 64),
			r.Action,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the action log to path, creating parent directories. The
// format follows the extension: .json writes JSON, anything else CSV.
func WriteFile(path string, records []model.ActionRecord, layout string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if filepath.Ext(path) == ".json" {
		return WriteJSON(f, records)
	}
	return WriteCSV(f, records, layout)
}

// Summary counts the steps in which the controller acted.
type Summary struct {
	Steps        int `json:"steps"`
	ShedSteps    int `json:"shed_steps"`
	RestoreSteps int `json:"restore_steps"`
	FailedSteps  int `json:"failed_steps"`
}

// Interventions is the number of steps that shed or restored loads. A step
// doing both counts twice.
func (s Summary) Interventions() int { return s.ShedSteps + s.RestoreSteps }

// Summarize counts steps containing at least one shed, restore or failure.
func Summarize(records []model.ActionRecord) Summary {
	s := Summary{Steps: len(records)}
	for _, r := range records {
		if r.HasShed() {
			s.ShedSteps++
		}
		if r.HasRestore() {
			s.RestoreSteps++
		}
		if r.Failed() {
			s.FailedSteps++
		}
	}
	return s
}

// WriteSummary prints the end of run report.
func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "Total interventions: %d\nShed events: %d, Restores: %d\n",
		s.Interventions(), s.ShedSteps, s.RestoreSteps)
	return err
}
