package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/adms/core/model"
)

func sampleRecords() []model.ActionRecord {
	t0 := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	return []model.ActionRecord{
		{Timestamp: t0, DemandMW: 55.5, GenerationMW: 50, Regime: model.Deficit, Action: "shed AC_unit; shed Industrial_pump"},
		{Timestamp: t0.Add(5 * time.Minute), DemandMW: 50, GenerationMW: 50, Action: model.ActionNone},
		{Timestamp: t0.Add(10 * time.Minute), DemandMW: 70, GenerationMW: 50, Regime: model.Deficit, Action: model.ActionSolverFailed},
		{Timestamp: t0.Add(15 * time.Minute), DemandMW: 40, GenerationMW: 45, Regime: model.Surplus, Action: "restored AC_unit; restored Industrial_pump"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords(), ""))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "time,demand,generation,action", lines[0])
	assert.Equal(t, "00:00:00,55.5,50,shed AC_unit; shed Industrial_pump", lines[1])
	assert.Equal(t, "00:10:00,70,50,solver failed", lines[3])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()))
	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 4)
	assert.Equal(t, "restored AC_unit; restored Industrial_pump", out[3]["action"])
	assert.Equal(t, "surplus", out[3]["regime"])
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "logs", "adms_log.csv")
	require.NoError(t, WriteFile(csvPath, sampleRecords(), ""))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "time,demand,generation,action\n"))

	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, WriteFile(jsonPath, sampleRecords(), ""))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords())
	assert.Equal(t, Summary{Steps: 4, ShedSteps: 1, RestoreSteps: 1, FailedSteps: 1}, s)
	assert.Equal(t, 2, s.Interventions())

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, Summary{ShedSteps: 12, RestoreSteps: 5}))
	assert.Equal(t, "Total interventions: 17\nShed events: 12, Restores: 5\n", buf.String())
}
