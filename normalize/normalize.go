package normalize

import (
	"fmt"

	"github.com/uyouii/ahis-analysis/common"
)

// ArealDensity returns mass per unit area in kg/m^2.
func ArealDensity(massKg, areaM2 float64) (float64, error) {
	if massKg <= 0 {
		return 0, fmt.Errorf("mass_kg must be > 0: %w", common.ErrorInvalidValue)
	}
	if areaM2 <= 0 {
		return 0, fmt.Errorf("area_m2 must be > 0: %w", common.ErrorInvalidValue)
	}
	return massKg / areaM2, nil
}

// AddedMassFractionPercent is the test mass relative to the baseline, in percent.
func AddedMassFractionPercent(baselineMassKg, testMassKg float64) (float64, error) {
	if baselineMassKg <= 0 {
		return 0, fmt.Errorf("baseline_mass_kg must be > 0: %w", common.ErrorInvalidValue)
	}
	return (testMassKg - baselineMassKg) / baselineMassKg * 100.0, nil
}

// DeltaPerArealDensity is in (metric units) / (kg/m^2).
func DeltaPerArealDensity(metricDelta, arealDensityKgM2 float64) (float64, error) {
	if arealDensityKgM2 <= 0 {
		return 0, fmt.Errorf("areal density must be > 0: %w", common.ErrorInvalidValue)
	}
	return metricDelta / arealDensityKgM2, nil
}

// DeltaPerThicknessMM is in (metric units) / mm.
func DeltaPerThicknessMM(metricDelta, thicknessMM float64) (float64, error) {
	if thicknessMM <= 0 {
		return 0, fmt.Errorf("thickness_mm must be > 0: %w", common.ErrorInvalidValue)
	}
	return metricDelta / thicknessMM, nil
}
