// Command normalize-panels computes areal density for each coupon in a panel
// metadata CSV and writes normalized_panel_metrics.csv.
//
// Required columns: coupon_id, config, area_m2, thickness_mm and one of
// mass_g or mass_kg. Optional: group, notes.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/ahis-analysis/config"
	"github.com/uyouii/ahis-analysis/loader"
	"github.com/uyouii/ahis-analysis/normalize"
	"github.com/uyouii/ahis-analysis/report"
	"github.com/uyouii/ahis-analysis/utils"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	logger := utils.GetLogger(ctx).With(zap.String("cmd", "normalize-panels"))
	ctx = utils.WithLogger(ctx, logger)
	defer logger.Sync()

	cmd := newCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("normalize panels failed", zap.Error(err))
		return 1
	}
	return 0
}

func newCommand() *cobra.Command {
	var (
		configPath string
		flags      config.NormalizeConfig
	)
	cmd := &cobra.Command{
		Use:           "normalize-panels",
		Short:         "Compute areal density metrics from a panel metadata CSV",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			normCfg := cfg.Normalize
			if cmd.Flags().Changed("input") {
				normCfg.Input = flags.Input
			}
			if cmd.Flags().Changed("output") {
				normCfg.Output = flags.Output
			}
			if err := normCfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			records, err := loader.ReadPanelMetadata(normCfg.Input)
			if err != nil {
				return err
			}
			panels, err := normalize.ToPanelMetrics(ctx, records)
			if err != nil {
				return err
			}
			if err := report.WriteNormalizedPanels(normCfg.Output, panels); err != nil {
				return err
			}

			utils.GetLogger(ctx).Info("normalized panel metrics written",
				zap.String("output", normCfg.Output), zap.Int("panels", len(panels)))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "optional YAML config file; flags override its normalize section")
	f.StringVar(&flags.Input, "input", "", "path to panel metadata CSV")
	f.StringVar(&flags.Output, "output", "", "path to write normalized metrics CSV")
	return cmd
}
