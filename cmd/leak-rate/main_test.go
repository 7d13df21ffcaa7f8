package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/ahis-analysis/loader"
	"github.com/uyouii/ahis-analysis/report"
)

const pressureLog = "time_s,pressure_pa\n0,100\n1,100\n2,90\n3,70\n4,50\n5,40\n"

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pressure_log.csv")
	require.NoError(t, os.WriteFile(path, []byte(pressureLog), 0o644))
	return path
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "processed")
	code := run(context.Background(), []string{
		"--input", writeLog(t), "--output", out, "--rate-threshold", "15", "--window-seconds", "2",
	})
	require.Equal(t, exitOK, code)

	onset, err := loader.ReadLeakOnsetRecord(filepath.Join(out, report.LeakOnsetSummaryFile))
	require.NoError(t, err)
	assert.Equal(t, "2", onset.OnsetIndex)
	assert.Equal(t, "2.0", onset.OnsetTime)
	assert.Equal(t, "15.0", onset.RateThreshold)

	rate, err := loader.ReadLeakRateRecord(filepath.Join(out, report.LeakRateSummaryFile))
	require.NoError(t, err)
	assert.Equal(t, "3", rate.SampleCount)
	assert.Equal(t, "-15.0", rate.MedianRate)
	assert.Equal(t, "4.0", rate.WindowEndTime)

	assert.FileExists(t, filepath.Join(out, report.LeakTimeseriesFile))
}

func TestRun_OnsetNotFound(t *testing.T) {
	out := filepath.Join(t.TempDir(), "processed")
	code := run(context.Background(), []string{
		"--input", writeLog(t), "--output", out, "--rate-threshold", "25", "--window-seconds", "2",
	})
	require.Equal(t, exitOnsetNotFound, code)
	assert.NoDirExists(t, out)
}

func TestRun_ConfigWithOverride(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "processed")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"leak:\n  input: "+writeLog(t)+"\n  output: "+out+"\n  rate_threshold: 25\n  window_seconds: 2\n"), 0o644))

	require.Equal(t, exitOnsetNotFound, run(context.Background(), []string{"--config", cfgPath}))
	require.Equal(t, exitOK, run(context.Background(), []string{"--config", cfgPath, "--rate-threshold", "15"}))
	assert.FileExists(t, filepath.Join(out, report.LeakRateSummaryFile))
}

func TestRun_InvalidArguments(t *testing.T) {
	log := writeLog(t)
	out := t.TempDir()
	cases := [][]string{
		{"--input", log, "--output", out, "--window-seconds", "2"},
		{"--input", log, "--output", out, "--rate-threshold", "-5", "--window-seconds", "2"},
		{"--input", log, "--output", out, "--rate-threshold", "5", "--window-seconds", "0"},
		{"--output", out, "--rate-threshold", "5", "--window-seconds", "2"},
		{"--input", log, "--output", out, "--rate-threshold", "5", "--window-seconds", "2", "--time-col", "t"},
		{"--bogus"},
		{"stray-positional"},
	}
	for _, args := range cases {
		assert.Equal(t, exitError, run(context.Background(), args), "args %v", args)
	}
}

func TestRun_Help(t *testing.T) {
	assert.Equal(t, exitOK, run(context.Background(), []string{"--help"}))
}
