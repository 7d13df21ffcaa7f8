// Command delta-report builds the one-page DELTA_REPORT.md and
// delta_report_values.csv from impact group stats, normalized panel metrics
// and, optionally, the leak summaries written by leak-rate.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/uyouii/ahis-analysis/config"
	"github.com/uyouii/ahis-analysis/loader"
	"github.com/uyouii/ahis-analysis/report"
	"github.com/uyouii/ahis-analysis/utils"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	logger := utils.GetLogger(ctx).With(zap.String("cmd", "delta-report"))
	ctx = utils.WithLogger(ctx, logger)
	defer logger.Sync()

	cmd := newCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("delta report failed", zap.Error(err))
		return 1
	}
	return 0
}

func newCommand() *cobra.Command {
	var (
		configPath string
		flags      config.DeltaConfig
	)
	cmd := &cobra.Command{
		Use:           "delta-report",
		Short:         "Generate the one-page AHIS delta report from processed metrics",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			deltaCfg := overrideDelta(cmd, cfg.Delta, flags)
			if err := deltaCfg.Validate(); err != nil {
				return err
			}
			if deltaCfg.ReportID == "" {
				deltaCfg.ReportID = uuid.NewString()
			}

			logger := utils.GetLogger(cmd.Context()).With(zap.String("reportID", deltaCfg.ReportID))
			ctx := utils.WithLogger(cmd.Context(), logger)

			paths, err := process(ctx, deltaCfg)
			if err != nil {
				return err
			}
			logger.Info("delta report written", zap.Strings("files", paths))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "optional YAML config file; flags override its delta section")
	f.StringVar(&flags.ImpactStats, "impact-stats", "", "path to impact_peak_group_stats.csv")
	f.StringVar(&flags.PanelMetrics, "panel-metrics", "", "path to normalized_panel_metrics.csv")
	f.StringVar(&flags.OutDir, "out-dir", "", "directory to write DELTA_REPORT.md and CSV values")
	f.StringVar(&flags.BaselineGroup, "baseline-group", config.DefaultBaselineGroup, "group label for baseline")
	f.StringVar(&flags.AhisGroup, "ahis-group", config.DefaultAhisGroup, "group label for AHIS")
	f.StringArrayVar(&flags.ImpactMetrics, "impact-metric", nil, "metric name from impact stats to include (repeatable)")
	f.StringVar(&flags.LeakOnset, "leak-onset", "", "optional path to leak_onset_summary.csv")
	f.StringVar(&flags.LeakRate, "leak-rate", "", "optional path to leak_rate_summary.csv")
	f.StringVar(&flags.ReportID, "report-id", "", "report identifier; a random UUID when empty")
	return cmd
}

// overrideDelta applies the flags the user set explicitly on top of the config file.
func overrideDelta(cmd *cobra.Command, cfg, flags config.DeltaConfig) config.DeltaConfig {
	changed := cmd.Flags().Changed
	if changed("impact-stats") {
		cfg.ImpactStats = flags.ImpactStats
	}
	if changed("panel-metrics") {
		cfg.PanelMetrics = flags.PanelMetrics
	}
	if changed("out-dir") {
		cfg.OutDir = flags.OutDir
	}
	if changed("baseline-group") {
		cfg.BaselineGroup = flags.BaselineGroup
	}
	if changed("ahis-group") {
		cfg.AhisGroup = flags.AhisGroup
	}
	if changed("impact-metric") {
		cfg.ImpactMetrics = flags.ImpactMetrics
	}
	if changed("leak-onset") {
		cfg.LeakOnset = flags.LeakOnset
	}
	if changed("leak-rate") {
		cfg.LeakRate = flags.LeakRate
	}
	if changed("report-id") {
		cfg.ReportID = flags.ReportID
	}
	return cfg
}

func process(ctx context.Context, cfg config.DeltaConfig) ([]string, error) {
	stats, err := loader.ReadImpactStats(cfg.ImpactStats)
	if err != nil {
		return nil, err
	}
	panels, err := loader.ReadNormalizedPanels(cfg.PanelMetrics)
	if err != nil {
		return nil, err
	}

	in := report.DeltaInputs{
		ReportID:      cfg.ReportID,
		ImpactStats:   stats,
		Panels:        panels,
		BaselineGroup: cfg.BaselineGroup,
		AhisGroup:     cfg.AhisGroup,
		ImpactMetrics: cfg.ImpactMetrics,
	}
	if cfg.LeakOnset != "" {
		if in.LeakOnset, err = loader.ReadLeakOnsetRecord(cfg.LeakOnset); err != nil {
			return nil, err
		}
	}
	if cfg.LeakRate != "" {
		if in.LeakRate, err = loader.ReadLeakRateRecord(cfg.LeakRate); err != nil {
			return nil, err
		}
	}

	res, err := report.BuildDeltaReport(ctx, in)
	if err != nil {
		return nil, err
	}
	return report.WriteDeltaReport(cfg.OutDir, res)
}
