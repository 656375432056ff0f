package forecast

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kilianp07/adms/core/model"
)

// WriteCSV writes the samples as two series readable by ReadCSV.
func WriteCSV(demand, generation io.Writer, samples []model.ImbalanceSample, layout string) error {
	if layout == "" {
		layout = DefaultLayout
	}
	if err := writeSeries(demand, DemandColumn, samples, layout, func(s model.ImbalanceSample) float64 { return s.DemandMW }); err != nil {
		return err
	}
	return writeSeries(generation, GenerationColumn, samples, layout, func(s model.ImbalanceSample) float64 { return s.GenerationMW })
}

// WriteFiles creates both files, including missing parent directories.
func WriteFiles(demandPath, generationPath string, samples []model.ImbalanceSample, layout string) (err error) {
	open := func(path string) (*os.File, error) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		return os.Create(path)
	}
	df, err := open(demandPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	gf, err := open(generationPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := gf.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCSV(df, gf, samples, layout)
}

func writeSeries(w io.Writer, col string, samples []model.ImbalanceSample, layout string, value func(model.ImbalanceSample) float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{TimeColumn, col}); err != nil {
		return err
	}
	for _, s := range samples {
		rec := []string{s.Timestamp.Format(layout), strconv.FormatFloat(value(s), 'f', -1, 64)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
