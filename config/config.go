package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when fields are absent from the config file. Rate threshold
// and window have no defaults: they must always be declared by the operator.
const (
	DefaultTimeCol       = "time_s"
	DefaultPressureCol   = "pressure_pa"
	DefaultBaselineGroup = "baseline"
	DefaultAhisGroup     = "ahis"
)

// Config holds the settings of all three commands. Each command reads its own section.
type Config struct {
	Leak      LeakConfig      `yaml:"leak"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Delta     DeltaConfig     `yaml:"delta"`
}

// LeakConfig drives the leak-rate command.
type LeakConfig struct {
	// Input is the raw pressure log CSV.
	Input string `yaml:"input"`

	// Output is the directory the processed CSVs are written to.
	Output string `yaml:"output"`

	TimeCol     string `yaml:"time_col"`
	PressureCol string `yaml:"pressure_col"`

	// RateThreshold is the positive decay rate in pressure units per second.
	// Onset is declared when dP/dt <= -RateThreshold.
	RateThreshold float64 `yaml:"rate_threshold"`

	// WindowSeconds is how long dP/dt must stay below -RateThreshold.
	WindowSeconds float64 `yaml:"window_seconds"`
}

type NormalizeConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// DeltaConfig drives the delta-report command.
type DeltaConfig struct {
	ImpactStats   string   `yaml:"impact_stats"`
	PanelMetrics  string   `yaml:"panel_metrics"`
	OutDir        string   `yaml:"out_dir"`
	BaselineGroup string   `yaml:"baseline_group"`
	AhisGroup     string   `yaml:"ahis_group"`
	ImpactMetrics []string `yaml:"impact_metrics"`

	// Optional leak summaries written by leak-rate.
	LeakOnset string `yaml:"leak_onset"`
	LeakRate  string `yaml:"leak_rate"`

	// ReportID tags the report; a random UUID is used when empty.
	ReportID string `yaml:"report_id"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults. Sections are validated by
// the commands that use them, after flag overrides are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, or the defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

func Defaults() *Config {
	return &Config{
		Leak: LeakConfig{
			TimeCol:     DefaultTimeCol,
			PressureCol: DefaultPressureCol,
		},
		Delta: DeltaConfig{
			BaselineGroup: DefaultBaselineGroup,
			AhisGroup:     DefaultAhisGroup,
		},
	}
}

func (c LeakConfig) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("config: leak.input is required")
	}
	if c.Output == "" {
		return fmt.Errorf("config: leak.output is required")
	}
	if c.TimeCol == "" {
		return fmt.Errorf("config: leak.time_col must not be empty")
	}
	if c.PressureCol == "" {
		return fmt.Errorf("config: leak.pressure_col must not be empty")
	}
	if c.RateThreshold <= 0 {
		return fmt.Errorf("config: leak.rate_threshold is required and must be positive (it is applied as a negative decay threshold)")
	}
	if c.WindowSeconds <= 0 {
		return fmt.Errorf("config: leak.window_seconds is required and must be positive")
	}
	return nil
}

func (c NormalizeConfig) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("config: normalize.input is required")
	}
	if c.Output == "" {
		return fmt.Errorf("config: normalize.output is required")
	}
	return nil
}

func (c DeltaConfig) Validate() error {
	if c.ImpactStats == "" {
		return fmt.Errorf("config: delta.impact_stats is required")
	}
	if c.PanelMetrics == "" {
		return fmt.Errorf("config: delta.panel_metrics is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("config: delta.out_dir is required")
	}
	if c.BaselineGroup == "" || c.AhisGroup == "" {
		return fmt.Errorf("config: delta.baseline_group and delta.ahis_group must not be empty")
	}
	if c.BaselineGroup == c.AhisGroup {
		return fmt.Errorf("config: delta.baseline_group and delta.ahis_group must differ (both %q)", c.AhisGroup)
	}
	if len(c.ImpactMetrics) == 0 {
		return fmt.Errorf("config: delta.impact_metrics needs at least one metric")
	}
	for i, m := range c.ImpactMetrics {
		if m == "" {
			return fmt.Errorf("config: delta.impact_metrics[%d] is empty", i)
		}
	}
	return nil
}
