package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# mandelbench configuration file
# Values can be overridden by MANDELBENCH_* environment variables or CLI flags.

# Parallel workers for the second render (0 = one per CPU)
workers = 0

# How to present results: window, tui, text or none
display = "window"

# Optional outputs (paths support ~ expansion)
# output = "mandelbrot.png"
# report = "report.json"
# chart = "timings.png"

# Logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false
# log_dir = "~/.mandelbench/logs"
`
}
