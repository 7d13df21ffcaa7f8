package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/ahis-analysis/report"
)

type fixture struct {
	dir    string
	impact string
	panels string
	onset  string
	rate   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		impact: filepath.Join(dir, "impact_peak_group_stats.csv"),
		panels: filepath.Join(dir, "normalized_panel_metrics.csv"),
		onset:  filepath.Join(dir, "leak_onset_summary.csv"),
		rate:   filepath.Join(dir, "leak_rate_summary.csv"),
	}
	files := map[string]string{
		f.impact: "group,metric,n,mean_peak_abs,std_peak_abs_sample\n" +
			"baseline,strain_ue,5,1200,40\nahis,strain_ue,5,900,30\n",
		f.panels: "coupon_id,config,group,mass_kg,area_m2,thickness_mm,areal_density_kg_m2,notes\n" +
			"P1,A,baseline,0.1,0.01,2,10,\nP2,B,ahis,0.15,0.01,3,15,\n",
		f.onset: "onset_index,onset_time_s,rate_threshold_pos_per_s,window_seconds\n2,2,15,2\n",
		f.rate: "window_start_time_s,window_end_time_s,n_samples,mean_dp_dt_per_s,median_dp_dt_per_s\n" +
			"2,4,3,-16.666666666666668,-15\n",
	}
	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return f
}

func readValues(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, report.DeltaReportValuesFile))
	require.NoError(t, err)
	return string(data)
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "processed")

	code := run(context.Background(), []string{
		"--impact-stats", f.impact, "--panel-metrics", f.panels, "--out-dir", out,
		"--impact-metric", "strain_ue", "--leak-onset", f.onset, "--leak-rate", f.rate,
		"--report-id", "RUN_A",
	})
	require.Equal(t, 0, code)

	values := readValues(t, out)
	assert.Contains(t, values, "report_id,RUN_A\n")
	assert.Contains(t, values, "strain_ue_delta_per_ahis_areal_density,-20.0\n")
	assert.Contains(t, values, "leak_mean_dp_dt_per_s,-16.666666666666668\n")
	assert.Contains(t, values, "ahis_added_mass_fraction_percent,")

	md, err := os.ReadFile(filepath.Join(out, report.DeltaReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Pressure/Leak (Optional Inputs)")
}

func TestRun_GeneratesReportID(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "processed")

	require.Equal(t, 0, run(context.Background(), []string{
		"--impact-stats", f.impact, "--panel-metrics", f.panels, "--out-dir", out, "--impact-metric", "strain_ue",
	}))

	values := readValues(t, out)
	require.Contains(t, values, "report_id,")
	id := values[len("key,value\nreport_id,"):]
	id = id[:36]
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotContains(t, values, "leak_")
}

func TestRun_Errors(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "processed")
	base := []string{"--impact-stats", f.impact, "--panel-metrics", f.panels, "--out-dir", out}

	cases := [][]string{
		base,
		append(append([]string{}, base...), "--impact-metric", "accel_g"),
		append(append([]string{}, base...), "--impact-metric", "strain_ue", "--ahis-group", "v2"),
		append(append([]string{}, base...), "--impact-metric", "strain_ue", "--leak-rate", f.onset),
	}
	for _, args := range cases {
		assert.Equal(t, 1, run(context.Background(), args), "args %v", args)
	}
	assert.NoDirExists(t, out)
}

func TestRun_MetricFlagOverridesConfig(t *testing.T) {
	f := newFixture(t)
	out := filepath.Join(f.dir, "processed")
	cfgPath := filepath.Join(f.dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"delta:\n  impact_stats: "+f.impact+"\n  panel_metrics: "+f.panels+"\n  out_dir: "+out+
			"\n  impact_metrics: [accel_g]\n  report_id: RUN_CFG\n"), 0o644))

	require.Equal(t, 1, run(context.Background(), []string{"--config", cfgPath}))
	require.Equal(t, 0, run(context.Background(), []string{
		"--config", cfgPath, "--impact-metric", "strain_ue", "--impact-metric", "strain_ue",
	}))

	values := readValues(t, out)
	assert.Contains(t, values, "report_id,RUN_CFG\n")
	assert.Contains(t, values, "strain_ue_delta_mean_abs_peak,-300.0\n")
	assert.NotContains(t, values, "accel_g")
}
