package sim

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Bounds are the rectangular world limits.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// RunConfig holds the engine settings shared by every scenario: the
// theater, the clock, and where reports go. Scenario-specific numbers
// (launcher placement, missile performance) live in the scenario
// parameters instead.
type RunConfig struct {
	Bounds        Bounds  `yaml:"bounds"`
	ArrivalRadius float64 `yaml:"arrival_radius"`
	TMax          float64 `yaml:"tmax"`       // model end time, seconds
	TimeStep      float64 `yaml:"time_step"`  // tick length, seconds
	FrameTime     float64 `yaml:"frame_time"` // wall-clock pacing per tick, 0 runs flat out
	ReportDir     string  `yaml:"report_dir"`
	ReportFormat  string  `yaml:"report_format"` // json or markdown
	LogLevel      string  `yaml:"log_level"`
}

// DefaultRunConfig returns the settings of the reference engagement: a
// 100 by 100 theater simulated for 20 model seconds in 0.05s ticks.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Bounds:        Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
		ArrivalRadius: 1.0,
		TMax:          20,
		TimeStep:      0.05,
		FrameTime:     0,
		ReportDir:     "./reports",
		ReportFormat:  "json",
		LogLevel:      "info",
	}
}

// Validate checks the configuration.
func (c *RunConfig) Validate() error {
	if c.Bounds.MaxX <= c.Bounds.MinX || c.Bounds.MaxY <= c.Bounds.MinY {
		return fmt.Errorf("world bounds are empty")
	}
	if c.ArrivalRadius < 0 {
		return fmt.Errorf("arrival radius must be non-negative")
	}
	if !(c.TMax > 0) || math.IsInf(c.TMax, 0) {
		return fmt.Errorf("tmax must be positive and finite")
	}
	if !(c.TimeStep > 0) || math.IsInf(c.TimeStep, 0) {
		return fmt.Errorf("time step must be positive and finite")
	}
	if c.FrameTime < 0 || math.IsNaN(c.FrameTime) || math.IsInf(c.FrameTime, 0) {
		return fmt.Errorf("frame time must be non-negative and finite")
	}
	switch c.ReportFormat {
	case "", "json", "markdown":
	default:
		return fmt.Errorf("report format must be json or markdown, got %q", c.ReportFormat)
	}
	return nil
}

// LoadRunConfig loads a run configuration from a YAML file.
func LoadRunConfig(path string) (*RunConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultRunConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadRunConfigOrDefault loads the config from path when given,
// otherwise returns the default, and applies environment overrides
// either way.
func LoadRunConfigOrDefault(path string) (*RunConfig, error) {
	config := DefaultRunConfig()

	if path != "" {
		loaded, err := LoadRunConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	MergeWithEnvironment(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after environment overrides: %w", err)
	}

	return config, nil
}

// SaveRunConfig writes a run configuration to a YAML file.
func SaveRunConfig(config *RunConfig, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// MergeWithEnvironment applies EVADER_* environment overrides.
func MergeWithEnvironment(config *RunConfig) {
	if tmax := os.Getenv("EVADER_TMAX"); tmax != "" {
		if v, err := strconv.ParseFloat(tmax, 64); err == nil && v > 0 {
			config.TMax = v
		}
	}

	if step := os.Getenv("EVADER_TIME_STEP"); step != "" {
		if v, err := strconv.ParseFloat(step, 64); err == nil && v > 0 {
			config.TimeStep = v
		}
	}

	if frame := os.Getenv("EVADER_FRAME_TIME"); frame != "" {
		if v, err := strconv.ParseFloat(frame, 64); err == nil && v >= 0 {
			config.FrameTime = v
		}
	}

	if radius := os.Getenv("EVADER_ARRIVAL_RADIUS"); radius != "" {
		if v, err := strconv.ParseFloat(radius, 64); err == nil && v >= 0 {
			config.ArrivalRadius = v
		}
	}

	if dir := os.Getenv("EVADER_REPORT_DIR"); dir != "" {
		config.ReportDir = dir
	}

	if format := os.Getenv("EVADER_REPORT_FORMAT"); format != "" {
		switch format {
		case "json", "markdown":
			config.ReportFormat = format
		}
	}

	if level := os.Getenv("EVADER_LOG_LEVEL"); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			config.LogLevel = level
		}
	}
}
