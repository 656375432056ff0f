package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/adms/app/plugins"
	"github.com/kilianp07/adms/core/actionlog"
	"github.com/kilianp07/adms/core/model"
	"github.com/kilianp07/adms/pkg/export"
)

var (
	logRunID  string
	logKind   string
	logSince  string
	logUntil  string
	logFormat string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Query the persisted action log",
	RunE:  queryLog,
}

func init() {
	logCmd.Flags().StringVar(&logRunID, "run", "", "only records of this run")
	logCmd.Flags().StringVar(&logKind, "kind", "", "shed, restored, failure or none")
	logCmd.Flags().StringVar(&logSince, "since", "", "inclusive lower bound, RFC3339")
	logCmd.Flags().StringVar(&logUntil, "until", "", "inclusive upper bound, RFC3339")
	logCmd.Flags().StringVar(&logFormat, "format", "csv", "output format: csv or json")
	rootCmd.AddCommand(logCmd)
}

func parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func queryLog(cmd *cobra.Command, args []string) error {
	kind, err := actionlog.ParseKind(logKind)
	if err != nil {
		return err
	}
	start, err := parseBound(logSince)
	if err != nil {
		return fmt.Errorf("since: %w", err)
	}
	end, err := parseBound(logUntil)
	if err != nil {
		return fmt.Errorf("until: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := plugins.NewLogStore(cfg.ActionLog)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.Query(cmd.Context(), actionlog.Query{Start: start, End: end, RunID: logRunID, Kind: kind})
	if err != nil {
		return err
	}
	out := make([]model.ActionRecord, len(recs))
	for i, r := range recs {
		out[i] = r.ActionRecord()
	}
	switch logFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), out)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), out, cfg.Export.TimeLayout)
	default:
		return fmt.Errorf("unknown format %s", logFormat)
	}
}
