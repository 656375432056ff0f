package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/adms/app"
	"github.com/kilianp07/adms/config"
	"github.com/kilianp07/adms/infra/logger"
	"github.com/kilianp07/adms/pkg/export"
)

var (
	cfgPath string
	hold    bool
)

var rootCmd = &cobra.Command{
	Use:          "adms",
	Short:        "Grid balancing controller",
	RunE:         run,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller over the configured forecast",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	runCmd.Flags().BoolVar(&hold, "hold", false, "keep serving metrics after the run until interrupted")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration file. A missing default file falls
// back to the built-in configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		logger.New("main").Warnf("%s not found, using defaults", cfgPath)
		return config.Default(), nil
	}
	return nil, fmt.Errorf("load config: %w", err)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	samples, err := app.LoadSamples(cfg.Forecast)
	if err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	summary, err := svc.Run(ctx, samples)
	if werr := export.WriteSummary(cmd.OutOrStdout(), summary); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	if hold && cfg.Metrics.PrometheusAddr != "" {
		<-ctx.Done()
	}
	return nil
}
