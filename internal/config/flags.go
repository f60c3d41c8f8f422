package config

import (
	"flag"
)

// flagFields maps flag names to the config field they set.
var flagFields = map[string]string{
	"workers":        "workers",
	"display":        "display",
	"output":         "output",
	"report":         "report",
	"chart":          "chart",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"log-dir":        "log_dir",
}

// parseFlags defines the global flags on fs, parses args and records which
// fields were explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("mandelbench", flag.ContinueOnError)
	}

	display := string(cfg.Display)

	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel workers (0 = one per CPU)")
	fs.StringVar(&display, "display", display, "Result display: window, tui, text or none")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Write the final image to this PNG file")
	fs.StringVar(&cfg.Report, "report", cfg.Report, "Write the benchmark report to this JSON file")
	fs.StringVar(&cfg.Chart, "chart", cfg.Chart, "Write a timing chart to this PNG file")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, logfmt, json)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log records")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log records")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Also write a per-run log file into this directory")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Display = Display(display)

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
