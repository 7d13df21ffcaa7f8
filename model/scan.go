package model

import (
	"fmt"

	"github.com/uyouii/ahis-analysis/common"
)

// DecayThreshold is the positive decay-rate magnitude supplied by the caller,
// in pressure units per second. A rate breaches it when rate <= -magnitude.
// Limit and Breached are the only places the sign is flipped.
type DecayThreshold struct {
	magnitude float64
}

func NewDecayThreshold(magnitude float64) (DecayThreshold, error) {
	if !isFinite(magnitude) || magnitude <= 0 {
		return DecayThreshold{}, fmt.Errorf("rate threshold must be positive, it is applied as a negative decay threshold (got %v): %w",
			magnitude, common.ErrorInvalidParameter)
	}
	return DecayThreshold{magnitude: magnitude}, nil
}

// Magnitude is the positive value as declared by the caller.
func (d DecayThreshold) Magnitude() float64 {
	return d.magnitude
}

// Limit is the signed comparison value, always negative for a valid threshold.
func (d DecayThreshold) Limit() float64 {
	return -d.magnitude
}

func (d DecayThreshold) Breached(rate float64) bool {
	return rate <= d.Limit()
}

type ScanParams struct {
	Threshold     DecayThreshold
	WindowSeconds float64
}

func NewScanParams(thresholdPositive, windowSeconds float64) (ScanParams, error) {
	threshold, err := NewDecayThreshold(thresholdPositive)
	if err != nil {
		return ScanParams{}, err
	}
	params := ScanParams{Threshold: threshold, WindowSeconds: windowSeconds}
	if err := params.Validate(); err != nil {
		return ScanParams{}, err
	}
	return params, nil
}

func (p ScanParams) Validate() error {
	if !isFinite(p.Threshold.magnitude) || p.Threshold.magnitude <= 0 {
		return fmt.Errorf("rate threshold must be positive (got %v): %w", p.Threshold.magnitude, common.ErrorInvalidParameter)
	}
	if !isFinite(p.WindowSeconds) || p.WindowSeconds <= 0 {
		return fmt.Errorf("window seconds must be positive (got %v): %w", p.WindowSeconds, common.ErrorInvalidParameter)
	}
	return nil
}

// OnsetResult marks the first sample of the earliest breaching run that lasted WindowSeconds.
type OnsetResult struct {
	Index             int     `json:"onset_index"`
	Time              float64 `json:"onset_time_s"`
	ThresholdPositive float64 `json:"rate_threshold_pos_per_s"`
	WindowSeconds     float64 `json:"window_seconds"`
}

type WindowSummary struct {
	StartTime   float64 `json:"window_start_time_s"`
	EndTime     float64 `json:"window_end_time_s"`
	SampleCount int     `json:"n_samples"`
	MeanRate    float64 `json:"mean_dp_dt_per_s"`
	MedianRate  float64 `json:"median_dp_dt_per_s"`
}
