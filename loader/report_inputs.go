package loader

import (
	"fmt"

	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
)

var (
	ImpactStatsColumns = []string{"group", "metric", "n", "mean_peak_abs", "std_peak_abs_sample"}
	LeakOnsetColumns   = []string{"onset_index", "onset_time_s", "rate_threshold_pos_per_s", "window_seconds"}
	LeakRateColumns    = []string{"window_start_time_s", "window_end_time_s", "n_samples", "mean_dp_dt_per_s", "median_dp_dt_per_s"}
)

// ReadImpactStats reads per-group impact peak statistics.
func ReadImpactStats(path string) ([]model.ImpactGroupStat, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if err := table.RequireRows(); err != nil {
		return nil, err
	}
	if err := table.Require(ImpactStatsColumns...); err != nil {
		return nil, err
	}

	res := make([]model.ImpactGroupStat, 0, len(table.Rows))
	for i := range table.Rows {
		stat := model.ImpactGroupStat{
			Group:  table.Value(i, "group"),
			Metric: table.Value(i, "metric"),
		}
		if stat.N, err = table.Int(i, "n"); err != nil {
			return nil, err
		}
		if stat.MeanPeakAbs, err = table.Float(i, "mean_peak_abs"); err != nil {
			return nil, err
		}
		if stat.StdPeakAbsSample, err = table.Float(i, "std_peak_abs_sample"); err != nil {
			return nil, err
		}
		res = append(res, stat)
	}
	return res, nil
}

func ReadLeakOnsetRecord(path string) (*model.LeakOnsetRecord, error) {
	table, err := readSingleRow(path, LeakOnsetColumns)
	if err != nil {
		return nil, err
	}
	return &model.LeakOnsetRecord{
		OnsetIndex:    table.Value(0, "onset_index"),
		OnsetTime:     table.Value(0, "onset_time_s"),
		RateThreshold: table.Value(0, "rate_threshold_pos_per_s"),
		WindowSeconds: table.Value(0, "window_seconds"),
	}, nil
}

func ReadLeakRateRecord(path string) (*model.LeakRateRecord, error) {
	table, err := readSingleRow(path, LeakRateColumns)
	if err != nil {
		return nil, err
	}
	return &model.LeakRateRecord{
		WindowStartTime: table.Value(0, "window_start_time_s"),
		WindowEndTime:   table.Value(0, "window_end_time_s"),
		SampleCount:     table.Value(0, "n_samples"),
		MeanRate:        table.Value(0, "mean_dp_dt_per_s"),
		MedianRate:      table.Value(0, "median_dp_dt_per_s"),
	}, nil
}

func readSingleRow(path string, required []string) (*Table, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if err := table.RequireRows(); err != nil {
		return nil, err
	}
	if err := table.Require(required...); err != nil {
		return nil, err
	}
	if len(table.Rows) != 1 {
		return nil, fmt.Errorf("expected exactly 1 data row in %s, found %d: %w",
			path, len(table.Rows), common.ErrorInvalidValue)
	}
	return table, nil
}
