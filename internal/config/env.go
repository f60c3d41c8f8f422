package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const envPrefix = "MANDELBENCH_"

// loadFromEnv overrides config from MANDELBENCH_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv(envPrefix + "WORKERS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", envPrefix, err)
		}
		cfg.Workers = n
		set("workers")
	}
	if v := os.Getenv(envPrefix + "DISPLAY"); v != "" {
		cfg.Display = Display(strings.TrimSpace(v))
		set("display")
	}
	if v := os.Getenv(envPrefix + "OUTPUT"); v != "" {
		cfg.Output = v
		set("output")
	}
	if v := os.Getenv(envPrefix + "REPORT"); v != "" {
		cfg.Report = v
		set("report")
	}
	if v := os.Getenv(envPrefix + "CHART"); v != "" {
		cfg.Chart = v
		set("chart")
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv(envPrefix + "LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv(envPrefix + "LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv(envPrefix + "LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
	if v := os.Getenv(envPrefix + "LOG_DIR"); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	return nil
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
