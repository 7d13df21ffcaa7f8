// Command leak-rate computes dP/dt from a pressure log, finds the leak onset
// declared by a rate threshold and window, and writes the processed CSVs.
//
//	leak-rate --input raw/pressure_log.csv --output processed \
//	  --time-col time_s --pressure-col pressure_pa \
//	  --rate-threshold 5.0 --window-seconds 2.0
//
// Onset is declared when dP/dt <= -5 per second for at least 2 seconds.
// Exit status is 2 when no onset satisfies the threshold and window.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/config"
	"github.com/uyouii/ahis-analysis/leak"
	"github.com/uyouii/ahis-analysis/loader"
	"github.com/uyouii/ahis-analysis/model"
	"github.com/uyouii/ahis-analysis/report"
	"github.com/uyouii/ahis-analysis/utils"
	"go.uber.org/zap"
)

const (
	exitOK            = 0
	exitError         = 1
	exitOnsetNotFound = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	logger := utils.GetLogger(ctx).With(zap.String("cmd", "leak-rate"))
	ctx = utils.WithLogger(ctx, logger)
	defer logger.Sync()

	cmd := newCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, common.ErrorOnsetNotFound):
		logger.Warn("no leak onset found, nothing written", zap.Error(err))
		return exitOnsetNotFound
	default:
		logger.Error("leak rate metrics failed", zap.Error(err))
		return exitError
	}
}

func newCommand() *cobra.Command {
	var (
		configPath string
		flags      config.LeakConfig
	)
	cmd := &cobra.Command{
		Use:           "leak-rate",
		Short:         "Compute leak rate metrics from a pressure log CSV",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			leakCfg := cfg.Leak
			changed := cmd.Flags().Changed
			if changed("input") {
				leakCfg.Input = flags.Input
			}
			if changed("output") {
				leakCfg.Output = flags.Output
			}
			if changed("time-col") {
				leakCfg.TimeCol = flags.TimeCol
			}
			if changed("pressure-col") {
				leakCfg.PressureCol = flags.PressureCol
			}
			if changed("rate-threshold") {
				leakCfg.RateThreshold = flags.RateThreshold
			}
			if changed("window-seconds") {
				leakCfg.WindowSeconds = flags.WindowSeconds
			}
			if err := leakCfg.Validate(); err != nil {
				return err
			}

			paths, err := process(cmd.Context(), leakCfg)
			if err != nil {
				return err
			}
			utils.GetLogger(cmd.Context()).Info("leak rate metrics written", zap.Strings("files", paths))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "optional YAML config file; flags override its leak section")
	f.StringVar(&flags.Input, "input", "", "path to pressure log CSV (raw)")
	f.StringVar(&flags.Output, "output", "", "directory where processed outputs will be written")
	f.StringVar(&flags.TimeCol, "time-col", config.DefaultTimeCol, "name of the time column (seconds)")
	f.StringVar(&flags.PressureCol, "pressure-col", config.DefaultPressureCol, "name of the pressure column")
	f.Float64Var(&flags.RateThreshold, "rate-threshold", 0, "positive decay-rate threshold (pressure units per second); onset when dp/dt <= -threshold")
	f.Float64Var(&flags.WindowSeconds, "window-seconds", 0, "continuous duration (seconds) dp/dt must stay below -threshold")
	return cmd
}

func process(ctx context.Context, cfg config.LeakConfig) ([]string, error) {
	params, err := model.NewScanParams(cfg.RateThreshold, cfg.WindowSeconds)
	if err != nil {
		return nil, err
	}

	series, err := loader.ReadPressureSeries(cfg.Input, cfg.TimeCol, cfg.PressureCol)
	if err != nil {
		return nil, err
	}
	utils.GetLogger(ctx).Info("pressure series loaded", zap.String("input", cfg.Input),
		zap.String("series", series.DebugString()))

	analysis, err := leak.AnalyzeLeak(ctx, series, params)
	if err != nil {
		return nil, err
	}

	return report.WriteLeakOutputs(cfg.Output, report.LeakOutputs{
		Series:  series,
		Rates:   analysis.Rates,
		Onset:   analysis.Onset,
		Summary: analysis.Summary,
	})
}
