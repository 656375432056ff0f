package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/adms/forecast"
)

var (
	genSeed     uint64
	genPoints   int
	genInterval time.Duration
	genStart    string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Generate synthetic demand and generation forecast files",
	RunE:  generateForecast,
}

func init() {
	forecastCmd.Flags().Uint64Var(&genSeed, "seed", 0, "random seed (defaults to the configured seed)")
	forecastCmd.Flags().IntVar(&genPoints, "points", 0, "number of samples (defaults to the configured count)")
	forecastCmd.Flags().DurationVar(&genInterval, "interval", 0, "sample spacing (defaults to the configured interval)")
	forecastCmd.Flags().StringVar(&genStart, "start", "", "first timestamp, RFC3339")
	rootCmd.AddCommand(forecastCmd)
}

func generateForecast(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	gc := cfg.Forecast.Generator()
	if cmd.Flags().Changed("seed") {
		gc.Seed = genSeed
	}
	if genPoints > 0 {
		gc.Points = genPoints
	}
	if genInterval > 0 {
		gc.Interval = genInterval
	}
	if genStart != "" {
		start, err := time.Parse(time.RFC3339, genStart)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		gc.Start = start
	}
	g, err := forecast.NewGenerator(gc)
	if err != nil {
		return err
	}
	samples := g.Generate()
	if err := forecast.WriteFiles(cfg.Forecast.DemandPath, cfg.Forecast.GenerationPath, samples, cfg.Forecast.TimeLayout); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d samples to %s and %s\n",
		len(samples), cfg.Forecast.DemandPath, cfg.Forecast.GenerationPath)
	return err
}
