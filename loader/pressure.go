package loader

import (
	"fmt"

	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
)

// ReadPressureSeries loads a time/pressure log. Time must be in seconds and
// strictly increasing; pressure may be in any unit consistent with the threshold.
func ReadPressureSeries(path, timeCol, pressureCol string) (*model.Series, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if !table.Has(timeCol) {
		return nil, fmt.Errorf("missing time column '%s' in %s, found: %v: %w",
			timeCol, path, table.Headers, common.ErrorMissingColumn)
	}
	if !table.Has(pressureCol) {
		return nil, fmt.Errorf("missing pressure column '%s' in %s, found: %v: %w",
			pressureCol, path, table.Headers, common.ErrorMissingColumn)
	}

	samples := make([]model.Sample, 0, len(table.Rows))
	for i := range table.Rows {
		t, err := table.Float(i, timeCol)
		if err != nil {
			return nil, err
		}
		p, err := table.Float(i, pressureCol)
		if err != nil {
			return nil, err
		}
		samples = append(samples, model.Sample{T: t, P: p})
	}

	series, err := model.NewSeries(samples)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}
