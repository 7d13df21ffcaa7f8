package leak

import (
	"github.com/uyouii/ahis-analysis/model"
)

// EstimateRates computes dP/dt for every sample: forward difference at the
// first sample, backward difference at the last, central differences between.
// The result is aligned 1:1 with series.
func EstimateRates(series *model.Series) *model.RateSeries {
	n := series.Len()
	dpdt := make([]float64, n)

	dpdt[0] = slope(series.At(0), series.At(1))

	for i := 1; i < n-1; i++ {
		dpdt[i] = slope(series.At(i-1), series.At(i+1))
	}

	dpdt[n-1] = slope(series.At(n-2), series.At(n-1))

	return model.NewRateSeries(dpdt)
}

// dt is strictly positive since Series rejects non-increasing time.
func slope(from, to model.Sample) float64 {
	return (to.P - from.P) / (to.T - from.T)
}
