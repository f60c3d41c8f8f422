// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.mandelbench/mandelbench.toml or OS-specific config directory)
// 3. Project config file (mandelbench.toml or .mandelbench.toml in the working directory,
//    or the file named by MANDELBENCH_CONFIG)
// 4. Environment variables (MANDELBENCH_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// The frame size, iteration cap and viewport are compile-time constants of
// package fractal and cannot be configured.
package config
