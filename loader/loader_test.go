package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/ahis-analysis/common"
	"github.com/uyouii/ahis-analysis/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadPressureSeries(t *testing.T) {
	path := writeFile(t, "pressure_log.csv",
		"time_s,pressure_pa,temp_c\n0,100,21\n1, 100 ,21\n2,90,21\n3,70,22\n")

	series, err := ReadPressureSeries(path, "time_s", "pressure_pa")
	require.NoError(t, err)
	assert.Equal(t, []model.Sample{{T: 0, P: 100}, {T: 1, P: 100}, {T: 2, P: 90}, {T: 3, P: 70}}, series.Samples())
}

func TestReadPressureSeries_CustomColumns(t *testing.T) {
	path := writeFile(t, "log.csv", "t,p\n0.0,5\n0.1,4.5\n0.2,4\n")

	series, err := ReadPressureSeries(path, "t", "p")
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
	assert.Equal(t, 0.2, series.Time(2))
}

func TestReadPressureSeries_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
		msg     string
	}{
		{"empty file", "", common.ErrorEmptyTable, "no header row"},
		{"missing time", "t,pressure_pa\n0,1\n", common.ErrorMissingColumn, "missing time column 'time_s'"},
		{"missing pressure", "time_s,p\n0,1\n", common.ErrorMissingColumn, "missing pressure column 'pressure_pa'"},
		{"non numeric", "time_s,pressure_pa\n0,1\n1,abc\n2,3\n", common.ErrorNonNumeric, "row 3 col 'pressure_pa'"},
		{"empty field", "time_s,pressure_pa\n0,1\n,2\n2,3\n", common.ErrorNonNumeric, "row 3 col 'time_s'"},
		{"nan", "time_s,pressure_pa\n0,1\n1,nan\n2,3\n", common.ErrorNonNumeric, `"nan"`},
		{"too short", "time_s,pressure_pa\n0,1\n1,2\n", common.ErrorSeriesTooShort, "at least 3"},
		{"not increasing", "time_s,pressure_pa\n0,1\n1,2\n1,3\n", common.ErrorTimeNotIncreasing, "index 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "log.csv", tc.content)
			_, err := ReadPressureSeries(path, "time_s", "pressure_pa")
			require.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestReadPressureSeries_MissingFile(t *testing.T) {
	_, err := ReadPressureSeries(filepath.Join(t.TempDir(), "nope.csv"), "time_s", "pressure_pa")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadPanelMetadata(t *testing.T) {
	path := writeFile(t, "panel_metadata.csv",
		"coupon_id,config,group,mass_g,mass_kg,area_m2,thickness_mm,notes\n"+
			"AHIS-PANEL-001,A,baseline,125,,0.0100,2.10,baseline coupon\n"+
			"AHIS-PANEL-002,B,ahis,999,0.1652,0.0100,3.05,passive layer added\n"+
			"AHIS-PANEL-003,B,,150,,0.02,3,\n")

	records, err := ReadPanelMetadata(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, PanelRecord{
		CouponID: "AHIS-PANEL-001", Config: "A", Group: "baseline",
		MassKg: 0.125, AreaM2: 0.01, ThicknessMM: 2.1, Notes: "baseline coupon",
	}, records[0])
	assert.Equal(t, 0.1652, records[1].MassKg, "mass_kg wins over mass_g")
	assert.Equal(t, DefaultGroup, records[2].Group)
	assert.Equal(t, 0.15, records[2].MassKg)
}

func TestReadPanelMetadata_Errors(t *testing.T) {
	header := "coupon_id,config,mass_g,area_m2,thickness_mm\n"
	cases := []struct {
		name    string
		content string
		want    error
		msg     string
	}{
		{"missing base column", "coupon_id,config,mass_g,area_m2\nA,B,1,1\n", common.ErrorMissingColumn, "[thickness_mm]"},
		{"missing mass column", "coupon_id,config,area_m2,thickness_mm\nA,B,1,1\n", common.ErrorMissingColumn, "mass_g mass_kg"},
		{"no rows", header, common.ErrorEmptyTable, "no data rows"},
		{"empty coupon", header + ",A,1,1,1\n", common.ErrorInvalidValue, "empty coupon_id"},
		{"empty config", header + "C1,,1,1,1\n", common.ErrorInvalidValue, "empty config"},
		{"zero area", header + "C1,A,1,0,1\n", common.ErrorInvalidValue, "area_m2 must be > 0"},
		{"negative thickness", header + "C1,A,1,1,-2\n", common.ErrorInvalidValue, "thickness_mm must be > 0"},
		{"zero mass", header + "C1,A,0,1,1\n", common.ErrorInvalidValue, "mass_g must be > 0"},
		{"no mass", header + "C1,A,,1,1\n", common.ErrorInvalidValue, "neither mass_g nor mass_kg"},
		{"bad number", header + "C1,A,x,1,1\n", common.ErrorNonNumeric, "col 'mass_g'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadPanelMetadata(writeFile(t, "panel.csv", tc.content))
			require.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestReadNormalizedPanels(t *testing.T) {
	path := writeFile(t, "normalized.csv",
		"coupon_id,config,group,mass_kg,area_m2,thickness_mm,areal_density_kg_m2,notes\n"+
			"P1,A,baseline,0.1234,0.01,2.1,12.34,\n"+
			"P2,B,ahis,0.1652,0.01,3.05,16.52,layer\n")

	panels, err := ReadNormalizedPanels(path)
	require.NoError(t, err)
	require.Len(t, panels, 2)
	assert.Equal(t, "ahis", panels[1].Group)
	assert.Equal(t, 16.52, panels[1].ArealDensityKgM2)
	assert.Equal(t, 3.05, panels[1].ThicknessMM)
	assert.Equal(t, "layer", panels[1].Notes)

	_, err = ReadNormalizedPanels(writeFile(t, "bad.csv", "group,areal_density_kg_m2,thickness_mm\n,1,1\n"))
	require.ErrorIs(t, err, common.ErrorInvalidValue)

	_, err = ReadNormalizedPanels(writeFile(t, "bad.csv", "group,thickness_mm\nbaseline,1\n"))
	require.ErrorIs(t, err, common.ErrorMissingColumn)
}

func TestReadImpactStats(t *testing.T) {
	path := writeFile(t, "impact_peak_group_stats.csv",
		"group,metric,n,mean_peak_abs,std_peak_abs_sample\n"+
			"baseline,strain_ue,5,1200,40.5\n"+
			"ahis,strain_ue,5,900,35\n")

	stats, err := ReadImpactStats(path)
	require.NoError(t, err)
	assert.Equal(t, []model.ImpactGroupStat{
		{Group: "baseline", Metric: "strain_ue", N: 5, MeanPeakAbs: 1200, StdPeakAbsSample: 40.5},
		{Group: "ahis", Metric: "strain_ue", N: 5, MeanPeakAbs: 900, StdPeakAbsSample: 35},
	}, stats)

	_, err = ReadImpactStats(writeFile(t, "bad.csv",
		"group,metric,n,mean_peak_abs,std_peak_abs_sample\nbaseline,strain_ue,5.5,1,1\n"))
	require.ErrorIs(t, err, common.ErrorNonNumeric)
	assert.Contains(t, err.Error(), "non-integer")
}

func TestReadLeakRecords(t *testing.T) {
	onsetPath := writeFile(t, "leak_onset_summary.csv",
		"onset_index,onset_time_s,rate_threshold_pos_per_s,window_seconds\n2,2,15,2\n")
	onset, err := ReadLeakOnsetRecord(onsetPath)
	require.NoError(t, err)
	assert.Equal(t, &model.LeakOnsetRecord{OnsetIndex: "2", OnsetTime: "2", RateThreshold: "15", WindowSeconds: "2"}, onset)

	ratePath := writeFile(t, "leak_rate_summary.csv",
		"window_start_time_s,window_end_time_s,n_samples,mean_dp_dt_per_s,median_dp_dt_per_s\n2,4,3,-16.666666666666668,-15\n")
	rate, err := ReadLeakRateRecord(ratePath)
	require.NoError(t, err)
	assert.Equal(t, "-16.666666666666668", rate.MeanRate)
	assert.Equal(t, "-15", rate.MedianRate)
	assert.Equal(t, "3", rate.SampleCount)

	_, err = ReadLeakOnsetRecord(writeFile(t, "two.csv",
		"onset_index,onset_time_s,rate_threshold_pos_per_s,window_seconds\n2,2,15,2\n3,3,15,2\n"))
	require.ErrorIs(t, err, common.ErrorInvalidValue)
	assert.Contains(t, err.Error(), "found 2")

	_, err = ReadLeakRateRecord(writeFile(t, "cols.csv", "window_start_time_s\n1\n"))
	require.ErrorIs(t, err, common.ErrorMissingColumn)
}
