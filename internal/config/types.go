package config

import "fmt"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Display selects how results are presented after a benchmark.
type Display string

const (
	// DisplayWindow shows the image in a window, then prints the report.
	DisplayWindow Display = "window"
	// DisplayTUI shows progress and the report in a terminal UI.
	DisplayTUI Display = "tui"
	// DisplayText prints the report only.
	DisplayText Display = "text"
	// DisplayNone only logs.
	DisplayNone Display = "none"
)

// ParseDisplay validates a display name.
func ParseDisplay(s string) (Display, error) {
	switch d := Display(s); d {
	case DisplayWindow, DisplayTUI, DisplayText, DisplayNone:
		return d, nil
	case "headless":
		return DisplayNone, nil
	}
	return "", fmt.Errorf("unknown display %q (want window, tui, text or none)", s)
}

// Default values.
const (
	DefaultWorkers   = 0
	DefaultDisplay   = DisplayWindow
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for mandelbench.
type Config struct {
	// Workers is the number of parallel workers; 0 means one per CPU.
	Workers int `toml:"workers"`

	// Display is one of window, tui, text or none.
	Display Display `toml:"display"`

	// Optional outputs of a run.
	Output string `toml:"output"`
	Report string `toml:"report"`
	Chart  string `toml:"chart"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogDir        string `toml:"log_dir"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"workers",
		"display",
		"output",
		"report",
		"chart",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_dir",
	}
}

func setDefaults(cfg *Config) {
	cfg.Workers = DefaultWorkers
	cfg.Display = DefaultDisplay
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Value returns the effective value of a field by its TOML key, formatted for display.
func (c *Config) Value(field string) string {
	switch field {
	case "workers":
		if c.Workers == 0 {
			return "0 (one per CPU)"
		}
		return fmt.Sprint(c.Workers)
	case "display":
		return string(c.Display)
	case "output":
		return c.Output
	case "report":
		return c.Report
	case "chart":
		return c.Chart
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	case "log_dir":
		return c.LogDir
	}
	return ""
}

// Fields lists the configurable TOML keys in display order.
func Fields() []string {
	return configFields()
}
