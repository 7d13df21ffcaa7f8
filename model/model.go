package model

import (
	"fmt"
	"math"

	"github.com/uyouii/ahis-analysis/common"
)

const MinSeriesLen = 3

// Sample is one (time, pressure) reading. Units are whatever the caller declared.
type Sample struct {
	T float64
	P float64
}

func (s Sample) Before(other Sample) bool {
	return s.T < other.T
}

// Series is a strictly time-ordered sequence of samples.
// It can only be built by NewSeries and is never modified afterwards.
type Series struct {
	samples []Sample
}

func NewSeries(samples []Sample) (*Series, error) {
	if len(samples) < MinSeriesLen {
		return nil, fmt.Errorf("need at least %d samples to compute derivatives, got %d: %w",
			MinSeriesLen, len(samples), common.ErrorSeriesTooShort)
	}

	for i, s := range samples {
		if !isFinite(s.T) || !isFinite(s.P) {
			return nil, fmt.Errorf("sample %d is not finite (t=%v, p=%v): %w", i, s.T, s.P, common.ErrorNonNumeric)
		}
		if i > 0 && !samples[i-1].Before(s) {
			return nil, fmt.Errorf("found non-increasing time at index %d (t=%v <= %v): %w",
				i, s.T, samples[i-1].T, common.ErrorTimeNotIncreasing)
		}
	}

	copied := make([]Sample, len(samples))
	copy(copied, samples)
	return &Series{samples: copied}, nil
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.samples)
}

func (s *Series) At(i int) Sample {
	return s.samples[i]
}

func (s *Series) Time(i int) float64 {
	return s.samples[i].T
}

func (s *Series) Pressure(i int) float64 {
	return s.samples[i].P
}

// Samples returns a copy of the underlying samples.
func (s *Series) Samples() []Sample {
	res := make([]Sample, len(s.samples))
	copy(res, s.samples)
	return res
}

func (s *Series) DebugString() string {
	if s.Len() == 0 {
		return "samples: 0"
	}
	return fmt.Sprintf("samples: %v, t: [%v, %v]", s.Len(), s.samples[0].T, s.samples[len(s.samples)-1].T)
}

// RateSeries holds one dP/dt estimate per sample index of the Series it was derived from.
type RateSeries struct {
	values []float64
}

func NewRateSeries(values []float64) *RateSeries {
	copied := make([]float64, len(values))
	copy(copied, values)
	return &RateSeries{values: copied}
}

func (r *RateSeries) Len() int {
	if r == nil {
		return 0
	}
	return len(r.values)
}

func (r *RateSeries) At(i int) float64 {
	return r.values[i]
}

// Values returns a copy of the rates.
func (r *RateSeries) Values() []float64 {
	res := make([]float64, len(r.values))
	copy(res, r.values)
	return res
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
