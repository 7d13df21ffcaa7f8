package leak

import (
	"fmt"

	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
)

// FindOnset returns the earliest index i that starts a contiguous run of
// breaching rates [i, j] with t[j]-t[i] >= params.WindowSeconds.
// A run that ends before reaching the window is skipped as a whole, and the
// scan resumes where the run stopped, so each sample is visited once.
func FindOnset(series *model.Series, rates *model.RateSeries, params model.ScanParams) (*model.OnsetResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if series.Len() != rates.Len() {
		return nil, fmt.Errorf("rate series length %d does not match series length %d: %w",
			rates.Len(), series.Len(), common.ErrorInvalidValue)
	}

	threshold := params.Threshold
	n := series.Len()

	i := 0
	for i < n {
		if !threshold.Breached(rates.At(i)) {
			i++
			continue
		}

		startTime := series.Time(i)
		j := i
		for j < n && threshold.Breached(rates.At(j)) {
			if series.Time(j)-startTime >= params.WindowSeconds {
				return &model.OnsetResult{
					Index:             i,
					Time:              startTime,
					ThresholdPositive: threshold.Magnitude(),
					WindowSeconds:     params.WindowSeconds,
				}, nil
			}
			j++
		}
		i = j
	}

	return nil, fmt.Errorf("threshold=%v per s, window=%v s; adjust the rate threshold and/or window or verify units: %w",
		threshold.Magnitude(), params.WindowSeconds, common.ErrorOnsetNotFound)
}
