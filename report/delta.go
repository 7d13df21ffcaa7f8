package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
	"github.com/uyouii/ahis-analysis/normalize"
	"github.com/uyouii/ahis-analysis/utils"
	"go.uber.org/zap"
)

const (
	DeltaReportFile       = "DELTA_REPORT.md"
	DeltaReportValuesFile = "delta_report_values.csv"
)

var DeltaReportValuesHeader = []string{"key", "value"}

type DeltaInputs struct {
	ReportID      string
	ImpactStats   []model.ImpactGroupStat
	Panels        []model.PanelMetrics
	BaselineGroup string
	AhisGroup     string
	ImpactMetrics []string

	// optional
	LeakOnset *model.LeakOnsetRecord
	LeakRate  *model.LeakRateRecord
}

type DeltaReport struct {
	Markdown string
	Values   []model.KeyValue
}

type deltaBuilder struct {
	lines  []string
	values []model.KeyValue
}

func (b *deltaBuilder) line(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *deltaBuilder) value(key, value string) {
	b.values = append(b.values, model.KeyValue{Key: key, Value: value})
}

// BuildDeltaReport compares the AHIS group against the baseline. Impact deltas
// are normalized by the AHIS group's mean areal density and mean thickness.
func BuildDeltaReport(ctx context.Context, in DeltaInputs) (*DeltaReport, error) {
	logger := utils.GetLogger(ctx)

	if len(in.ImpactMetrics) == 0 {
		return nil, fmt.Errorf("at least one impact metric is required: %w", common.ErrorInvalidParameter)
	}

	aggs := normalize.AggregateByGroup(in.Panels)
	base, ok := aggs[in.BaselineGroup]
	if !ok {
		return nil, fmt.Errorf("baseline group '%s' not found in panel metrics, found: %v: %w",
			in.BaselineGroup, normalize.GroupNames(aggs), common.ErrorInvalidValue)
	}
	ahis, ok := aggs[in.AhisGroup]
	if !ok {
		return nil, fmt.Errorf("AHIS group '%s' not found in panel metrics, found: %v: %w",
			in.AhisGroup, normalize.GroupNames(aggs), common.ErrorInvalidValue)
	}

	b := &deltaBuilder{}
	b.value("report_id", in.ReportID)

	b.line("# AHIS — Delta Report (PoC)\n")
	b.line("**Status:** Proof-of-Concept summary generated from processed datasets. Not flight-qualified. Not crew-rated.\n")
	b.line("**Report ID:** `%s`\n", in.ReportID)

	b.line("## Panel Normalization (Measured)\n")
	b.line("- Baseline group: n=%d, mean areal density=%.6g kg/m², mean thickness=%.6g mm\n",
		base.N, base.MeanArealDensityKgM2, base.MeanThicknessMM)
	b.line("- AHIS group: n=%d, mean areal density=%.6g kg/m², mean thickness=%.6g mm\n",
		ahis.N, ahis.MeanArealDensityKgM2, ahis.MeanThicknessMM)
	b.value("baseline_mean_areal_density_kg_m2", utils.FloatString(base.MeanArealDensityKgM2))
	b.value("baseline_mean_thickness_mm", utils.FloatString(base.MeanThicknessMM))
	b.value("ahis_mean_areal_density_kg_m2", utils.FloatString(ahis.MeanArealDensityKgM2))
	b.value("ahis_mean_thickness_mm", utils.FloatString(ahis.MeanThicknessMM))
	if base.MeanMassKg > 0 && ahis.MeanMassKg > 0 {
		pct, err := normalize.AddedMassFractionPercent(base.MeanMassKg, ahis.MeanMassKg)
		if err != nil {
			return nil, err
		}
		b.line("- Added mass (AHIS vs Baseline, group means) = %.6g %%\n", pct)
		b.value("ahis_added_mass_fraction_percent", utils.FloatString(pct))
	}

	b.line("\n## Impact Peaks (Magnitude) — Baseline vs AHIS\n")
	for _, metric := range in.ImpactMetrics {
		if err := b.impactSection(in, metric, ahis); err != nil {
			logger.Error("impact section failed", zap.String("metric", metric), zap.Error(err))
			return nil, err
		}
	}

	if in.LeakOnset != nil || in.LeakRate != nil {
		b.leakSection(in.LeakOnset, in.LeakRate)
	}

	b.line("\n## Interpretation Discipline\n")
	b.line("- This report summarizes processed datasets only; it does not certify safety or mission readiness.\n")
	b.line("- Any confounders (fixture changes, temperature drift, insufficient repeats) must be stated in the run package README.\n")

	logger.Info("build delta report success", zap.Int("metrics", len(in.ImpactMetrics)),
		zap.Int("values", len(b.values)), zap.Bool("leak", in.LeakOnset != nil || in.LeakRate != nil))

	return &DeltaReport{
		Markdown: strings.Join(b.lines, ""),
		Values:   b.values,
	}, nil
}

func (b *deltaBuilder) impactSection(in DeltaInputs, metric string, ahis *model.PanelGroupAgg) error {
	base, err := findStat(in.ImpactStats, in.BaselineGroup, metric)
	if err != nil {
		return err
	}
	test, err := findStat(in.ImpactStats, in.AhisGroup, metric)
	if err != nil {
		return err
	}

	delta := test.MeanPeakAbs - base.MeanPeakAbs
	perKgM2, err := normalize.DeltaPerArealDensity(delta, ahis.MeanArealDensityKgM2)
	if err != nil {
		return err
	}
	perMM, err := normalize.DeltaPerThicknessMM(delta, ahis.MeanThicknessMM)
	if err != nil {
		return err
	}

	b.line("### Metric: `%s`\n", metric)
	b.line("- Baseline: n=%d, mean|peak|=%.6g, std=%.6g\n", base.N, base.MeanPeakAbs, base.StdPeakAbsSample)
	b.line("- AHIS: n=%d, mean|peak|=%.6g, std=%.6g\n", test.N, test.MeanPeakAbs, test.StdPeakAbsSample)
	b.line("- Δ(mean|peak|) = %.6g (AHIS − Baseline)\n", delta)
	b.line("- Normalized Δ per AHIS areal density = %.6g / (kg/m²)\n", perKgM2)
	b.line("- Normalized Δ per AHIS thickness = %.6g / mm\n", perMM)

	b.value(metric+"_baseline_mean_abs_peak", utils.FloatString(base.MeanPeakAbs))
	b.value(metric+"_ahis_mean_abs_peak", utils.FloatString(test.MeanPeakAbs))
	b.value(metric+"_delta_mean_abs_peak", utils.FloatString(delta))
	b.value(metric+"_delta_per_ahis_areal_density", utils.FloatString(perKgM2))
	b.value(metric+"_delta_per_ahis_thickness_mm", utils.FloatString(perMM))
	return nil
}

func (b *deltaBuilder) leakSection(onset *model.LeakOnsetRecord, rate *model.LeakRateRecord) {
	b.line("\n## Pressure/Leak (Optional Inputs)\n")
	if onset != nil {
		b.line("- Leak onset time (s): %s (threshold=%s per s, window=%s s)\n",
			onset.OnsetTime, onset.RateThreshold, onset.WindowSeconds)
		b.value("leak_onset_time_s", onset.OnsetTime)
		b.value("leak_onset_rate_threshold_pos_per_s", onset.RateThreshold)
		b.value("leak_onset_window_seconds", onset.WindowSeconds)
	}
	if rate != nil {
		b.line("- Mean dP/dt over onset window: %s per s\n", rate.MeanRate)
		b.line("- Median dP/dt over onset window: %s per s\n", rate.MedianRate)
		b.value("leak_mean_dp_dt_per_s", rate.MeanRate)
		b.value("leak_median_dp_dt_per_s", rate.MedianRate)
	}
}

func findStat(stats []model.ImpactGroupStat, group, metric string) (*model.ImpactGroupStat, error) {
	var match *model.ImpactGroupStat
	for i := range stats {
		if stats[i].Group != group || stats[i].Metric != metric {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("duplicate impact stats rows for group='%s' metric='%s': %w",
				group, metric, common.ErrorInvalidValue)
		}
		match = &stats[i]
	}
	if match == nil {
		return nil, fmt.Errorf("missing impact stats for group='%s' metric='%s': %w",
			group, metric, common.ErrorInvalidValue)
	}
	return match, nil
}

// WriteDeltaReport writes the Markdown report and the key/value CSV into dir.
func WriteDeltaReport(dir string, report *DeltaReport) ([]string, error) {
	mdPath := filepath.Join(dir, DeltaReportFile)
	valuesPath := filepath.Join(dir, DeltaReportValuesFile)

	if err := writeText(mdPath, report.Markdown); err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(report.Values))
	for _, kv := range report.Values {
		rows = append(rows, []string{kv.Key, kv.Value})
	}
	if err := writeCSV(valuesPath, DeltaReportValuesHeader, rows); err != nil {
		return nil, err
	}
	return []string{mdPath, valuesPath}, nil
}
