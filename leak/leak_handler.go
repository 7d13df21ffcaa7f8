package leak

import (
	"context"
	"errors"
	"fmt"

	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
	"github.com/uyouii/ahis-analysis/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// decimal places of rates in log lines; persisted outputs keep full precision
const logRatePrecision = 3

type LeakAnalysis struct {
	Rates   *model.RateSeries
	Onset   *model.OnsetResult
	Summary *model.WindowSummary
}

// AnalyzeLeak runs the estimator, the onset scan and the window summary in order.
// Errors from each stage are returned as is, so callers can match them with errors.Is.
func AnalyzeLeak(ctx context.Context, series *model.Series, params model.ScanParams) (res *LeakAnalysis, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("AnalyzeLeak recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("panic during leak analysis: %v: %w", r, common.ErrorInternalInvariant)
		}
	}()

	if series.Len() < model.MinSeriesLen {
		return nil, fmt.Errorf("got %d samples: %w", series.Len(), common.ErrorSeriesTooShort)
	}
	if err := params.Validate(); err != nil {
		logger.Error("invalid scan params", zap.Error(err))
		return nil, err
	}

	rates := EstimateRates(series)
	values := rates.Values()
	logger.Info("estimate rates success", zap.Int("samples", rates.Len()),
		zap.Float64("minRate", floats.Min(values)), zap.Float64("maxRate", floats.Max(values)))

	onset, err := FindOnset(series, rates, params)
	if err != nil {
		if errors.Is(err, common.ErrorOnsetNotFound) {
			logger.Warn("no leak onset found", zap.Float64("rateThreshold", params.Threshold.Magnitude()),
				zap.Float64("windowSeconds", params.WindowSeconds))
		} else {
			logger.Error("FindOnset failed", zap.Error(err))
		}
		return nil, err
	}
	logger.Info("find leak onset", zap.Int("onsetIndex", onset.Index), zap.Float64("onsetTime", onset.Time))

	summary, err := SummarizeWindow(series, rates, onset.Index, params.WindowSeconds)
	if err != nil {
		logger.Error("SummarizeWindow failed", zap.Error(err))
		return nil, err
	}
	logger.Info("summarize onset window success", zap.Int("sampleCount", summary.SampleCount),
		zap.Float64("meanRate", utils.FormatFloat(summary.MeanRate, logRatePrecision)),
		zap.Float64("medianRate", utils.FormatFloat(summary.MedianRate, logRatePrecision)))

	return &LeakAnalysis{
		Rates:   rates,
		Onset:   onset,
		Summary: summary,
	}, nil
}
