// Package cmd implements the CLI command structure for mandelbench.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nibzard/mandelbench/internal/bench"
	"github.com/nibzard/mandelbench/internal/config"
	"github.com/nibzard/mandelbench/internal/fractal"
	"github.com/nibzard/mandelbench/internal/logging"
	"github.com/nibzard/mandelbench/internal/render"
	"github.com/nibzard/mandelbench/internal/report"
	"github.com/nibzard/mandelbench/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrMismatch is returned when the parallel image differs from the sequential one.
var ErrMismatch = errors.New("parallel render differs from sequential render")

// Viewer shows the final image with a one-line overlay and blocks until it is closed.
type Viewer func(img *image.RGBA, overlay string) error

// Option configures Run.
type Option func(*runtimeEnv)

type runtimeEnv struct {
	viewer Viewer
	stdout io.Writer
	stderr io.Writer
}

// WithViewer sets the window used by the window display.
func WithViewer(v Viewer) Option {
	return func(e *runtimeEnv) {
		e.viewer = v
	}
}

// WithOutput redirects standard output and standard error.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *runtimeEnv) {
		if stdout != nil {
			e.stdout = stdout
		}
		if stderr != nil {
			e.stderr = stderr
		}
	}
}

// Run executes the mandelbench CLI.
func Run(ctx context.Context, args []string, opts ...Option) error {
	env := &runtimeEnv{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(env)
	}

	// Create a flag set for global options
	fs := flag.NewFlagSet("mandelbench", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cs, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(fs, env.stdout)
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cs.Config
	if *help {
		printUsage(fs, env.stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(env.stdout)
	}

	// With no command, or with arguments after "--", the remaining args go to "run".
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "run":
		return runCommand(ctx, env, cfg, remainingArgs)
	case "render":
		return renderCommand(ctx, env, cfg, remainingArgs)
	case "partition":
		return partitionCommand(env, cfg, remainingArgs)
	case "validate":
		return validateCommand(env, remainingArgs)
	case "config":
		return configCommand(env, cs, remainingArgs)
	case "version":
		return versionCommand(env.stdout)
	case "help":
		printUsage(fs, env.stdout)
		return nil
	default:
		fmt.Fprintf(env.stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, env.stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// Exit codes returned by ExitCode.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitInterrupted = 130
)

// ExitCode maps the error returned by Run to a process exit code. Leaving the
// terminal UI before the benchmark ends counts as an interrupt.
func ExitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return ExitOK
	case ctx.Err() != nil, errors.Is(err, ui.ErrQuit):
		return ExitInterrupted
	}
	return ExitError
}

// newLogger builds the run logger from the logging fields of cfg.
func newLogger(env *runtimeEnv, cfg *config.Config) (*logging.RunLogger, error) {
	logger, err := logging.New(env.stderr, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Caller:     cfg.LogCaller,
		Dir:        cfg.LogDir,
		WorkDir:    cfg.ProjectRoot,
	})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// runCommand benchmarks the sequential render against the parallel render.
func runCommand(ctx context.Context, env *runtimeEnv, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("mandelbench run", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	showBands := fs.Bool("bands", false, "Also print per-band timings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if cfg.Display == config.DisplayWindow && env.viewer == nil {
		return fmt.Errorf("window display is not available; use -display tui, text or none")
	}

	logger, err := newLogger(env, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()
	if logger.LogPath != "" {
		logger.Debug("Writing run log", "path", logger.LogPath)
	}

	runner := bench.New(
		bench.WithWorkers(cfg.Workers),
		bench.WithLogger(logger.Logger),
	)

	var res *bench.Result
	if cfg.Display == config.DisplayTUI {
		res, err = ui.RunTUI(ctx, runner, ui.WithBands(*showBands))
	} else {
		res, err = runner.Run(ctx)
	}
	if err != nil {
		return err
	}

	if cfg.Display == config.DisplayWindow {
		if err := env.viewer(res.Image, report.Overlay(res)); err != nil {
			return fmt.Errorf("showing window: %w", err)
		}
	}
	if cfg.Display != config.DisplayNone {
		printReport(env.stdout, res, *showBands)
	}

	if err := writeOutputs(cfg, logger, res); err != nil {
		return err
	}
	if !res.Identical {
		return ErrMismatch
	}
	return nil
}

func printReport(w io.Writer, res *bench.Result, showBands bool) {
	fmt.Fprintln(w, report.Title)
	fmt.Fprintln(w, strings.Repeat("=", len(report.Title)))
	fmt.Fprint(w, report.Format(res))
	if showBands {
		fmt.Fprintln(w)
		fmt.Fprint(w, report.Bands(res))
	}
}

// writeOutputs writes the optional image, report and chart files.
func writeOutputs(cfg *config.Config, logger *logging.RunLogger, res *bench.Result) error {
	if path := cfg.ResolvePath(cfg.Output); path != "" {
		if err := report.WritePNG(path, res.Image); err != nil {
			return err
		}
		logger.Info("Wrote image", "path", path)
	}
	if path := cfg.ResolvePath(cfg.Report); path != "" {
		if err := report.WriteJSON(path, res); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", path)
	}
	if path := cfg.ResolvePath(cfg.Chart); path != "" {
		if err := report.WriteChart(path, res); err != nil {
			return err
		}
		logger.Info("Wrote chart", "path", path)
	}
	return nil
}

// renderCommand renders the image once and saves it, without benchmarking.
func renderCommand(ctx context.Context, env *runtimeEnv, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("mandelbench render", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	mode := fs.String("mode", "parallel", "Render mode (sequential|parallel)")
	output := fs.String("output", cfg.Output, "PNG file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	path := cfg.ResolvePath(*output)
	if path == "" {
		return fmt.Errorf("render needs an output file (-output)")
	}

	logger, err := newLogger(env, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	img := render.NewCanvas(fractal.Width, fractal.Height)
	start := time.Now()
	switch *mode {
	case "sequential", "seq":
		err = render.Sequential(ctx, img)
	case "parallel", "par":
		workers := cfg.Workers
		if workers < 1 {
			workers = bench.DefaultWorkers()
		}
		logger.Debug("Rendering in parallel", "workers", workers)
		_, err = render.Parallel(ctx, img, workers)
	default:
		return fmt.Errorf("unknown render mode %q (want sequential or parallel)", *mode)
	}
	if err != nil {
		return err
	}
	logger.Info("Render finished", "mode", *mode, "elapsed", time.Since(start))

	if err := report.WritePNG(path, img); err != nil {
		return err
	}
	logger.Info("Wrote image", "path", path)
	return nil
}

// partitionCommand prints the row bands each worker would render.
func partitionCommand(env *runtimeEnv, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("mandelbench partition", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	height := fs.Int("height", fractal.Height, "Image height in rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = bench.DefaultWorkers()
	}
	bands, err := render.Partition(*height, workers)
	if err != nil {
		return err
	}

	fmt.Fprintf(env.stdout, "%d rows across %d workers\n", *height, workers)
	for _, b := range bands {
		fmt.Fprintf(env.stdout, "  %s  %d rows\n", b, b.Rows())
	}
	return nil
}

// validateCommand checks an exported report against the report schema.
func validateCommand(env *runtimeEnv, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: mandelbench validate <report.json>")
	}
	path := args[0]
	if err := report.ValidateFile(path); err != nil {
		var verr *report.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(env.stderr, "%s is invalid:\n", path)
			for _, p := range verr.Problems {
				fmt.Fprintf(env.stderr, "  - %s\n", p)
			}
		}
		return err
	}
	fmt.Fprintf(env.stdout, "%s is valid\n", path)
	return nil
}

// configCommand prints the effective configuration and where each value came from.
func configCommand(env *runtimeEnv, cs *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("mandelbench config", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(env.stdout, config.ExampleConfig())
		return nil
	}

	for _, field := range config.Fields() {
		value := cs.Config.Value(field)
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(env.stdout, "%-15s %-30s (%s)\n", field, value, cs.Sources[field])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "mandelbench version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Mandelbench - sequential vs parallel Mandelbrot rendering benchmark")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mandelbench [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Benchmark and show the result (default command)")
	fmt.Fprintln(w, "  render              Render once and write a PNG")
	fmt.Fprintln(w, "  partition           Print the row bands for the worker count")
	fmt.Fprintln(w, "  validate <file>     Validate an exported JSON report")
	fmt.Fprintln(w, "  config              Show the effective configuration")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run Options (use with 'run' command):")
	fmt.Fprintln(w, "  -bands")
	fmt.Fprintln(w, "        Also print per-band timings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Options (use with 'render' command):")
	fmt.Fprintln(w, "  -mode string")
	fmt.Fprintln(w, "        Render mode (sequential|parallel) (default \"parallel\")")
	fmt.Fprintln(w, "  -output string")
	fmt.Fprintln(w, "        PNG file to write")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Partition Options (use with 'partition' command):")
	fmt.Fprintln(w, "  -height int")
	fmt.Fprintf(w, "        Image height in rows (default %d)\n", fractal.Height)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}
