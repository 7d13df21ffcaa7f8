package leak

import (
	"fmt"

	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
	"gonum.org/v1/gonum/stat"
)

// SummarizeWindow collects the rates from onsetIndex while t <= t[onsetIndex]+windowSeconds.
// The bound is closed, independently of the scan's own span check.
func SummarizeWindow(series *model.Series, rates *model.RateSeries, onsetIndex int,
	windowSeconds float64) (*model.WindowSummary, error) {
	if series.Len() != rates.Len() {
		return nil, fmt.Errorf("got %d rates for %d samples: %w",
			rates.Len(), series.Len(), common.ErrorInternalInvariant)
	}
	if onsetIndex < 0 || onsetIndex >= series.Len() {
		return nil, fmt.Errorf("onset index %d out of range for %d samples: %w",
			onsetIndex, series.Len(), common.ErrorInternalInvariant)
	}

	startTime := series.Time(onsetIndex)
	endTime := startTime + windowSeconds

	values := windowValues(series, rates, onsetIndex, endTime)
	if len(values) == 0 {
		return nil, fmt.Errorf("onset window contained no samples: %w", common.ErrorInternalInvariant)
	}

	return &model.WindowSummary{
		StartTime:   startTime,
		EndTime:     endTime,
		SampleCount: len(values),
		MeanRate:    stat.Mean(values, nil),
		MedianRate:  Median(values),
	}, nil
}

func windowValues(series *model.Series, rates *model.RateSeries, start int, endTime float64) []float64 {
	res := []float64{}
	for k := start; k < series.Len(); k++ {
		if series.Time(k) > endTime {
			break
		}
		res = append(res, rates.At(k))
	}
	return res
}
