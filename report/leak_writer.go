package report

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
	"github.com/uyouii/ahis-analysis/utils"
)

const (
	LeakTimeseriesFile   = "leak_rate_timeseries.csv"
	LeakOnsetSummaryFile = "leak_onset_summary.csv"
	LeakRateSummaryFile  = "leak_rate_summary.csv"
)

var (
	LeakTimeseriesHeader   = []string{"time_s", "pressure", "dp_dt_per_s"}
	LeakOnsetSummaryHeader = []string{"onset_index", "onset_time_s", "rate_threshold_pos_per_s", "window_seconds"}
	LeakRateSummaryHeader  = []string{"window_start_time_s", "window_end_time_s", "n_samples", "mean_dp_dt_per_s", "median_dp_dt_per_s"}
)

// LeakOutputs is everything the leak-rate command persists.
type LeakOutputs struct {
	Series  *model.Series
	Rates   *model.RateSeries
	Onset   *model.OnsetResult
	Summary *model.WindowSummary
}

// WriteLeakOutputs writes the three leak CSVs into dir and returns their paths.
func WriteLeakOutputs(dir string, out LeakOutputs) ([]string, error) {
	paths := []string{
		filepath.Join(dir, LeakTimeseriesFile),
		filepath.Join(dir, LeakOnsetSummaryFile),
		filepath.Join(dir, LeakRateSummaryFile),
	}
	if err := WriteLeakTimeseries(paths[0], out.Series, out.Rates); err != nil {
		return nil, err
	}
	if err := WriteOnsetSummary(paths[1], out.Onset); err != nil {
		return nil, err
	}
	if err := WriteRateSummary(paths[2], out.Summary); err != nil {
		return nil, err
	}
	return paths, nil
}

func WriteLeakTimeseries(path string, series *model.Series, rates *model.RateSeries) error {
	if series.Len() != rates.Len() {
		return fmt.Errorf("rate series length %d does not match series length %d: %w",
			rates.Len(), series.Len(), common.ErrorInvalidValue)
	}
	rows := make([][]string, 0, series.Len())
	for i := 0; i < series.Len(); i++ {
		rows = append(rows, []string{
			utils.FloatString(series.Time(i)),
			utils.FloatString(series.Pressure(i)),
			utils.FloatString(rates.At(i)),
		})
	}
	return writeCSV(path, LeakTimeseriesHeader, rows)
}

func WriteOnsetSummary(path string, onset *model.OnsetResult) error {
	if onset == nil {
		return fmt.Errorf("nil onset result: %w", common.ErrorInvalidValue)
	}
	return writeCSV(path, LeakOnsetSummaryHeader, [][]string{{
		strconv.Itoa(onset.Index),
		utils.FloatString(onset.Time),
		utils.FloatString(onset.ThresholdPositive),
		utils.FloatString(onset.WindowSeconds),
	}})
}

func WriteRateSummary(path string, summary *model.WindowSummary) error {
	if summary == nil {
		return fmt.Errorf("nil window summary: %w", common.ErrorInvalidValue)
	}
	return writeCSV(path, LeakRateSummaryHeader, [][]string{{
		utils.FloatString(summary.StartTime),
		utils.FloatString(summary.EndTime),
		strconv.Itoa(summary.SampleCount),
		utils.FloatString(summary.MeanRate),
		utils.FloatString(summary.MedianRate),
	}})
}
