// Package bench times a sequential render of the fractal against a parallel
// render of the same frame and reports the speedup.
package bench

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/mandelbench/internal/fractal"
	"github.com/nibzard/mandelbench/internal/render"
)

// Phase names a step of a benchmark run.
type Phase string

const (
	PhaseSequential Phase = "sequential"
	PhaseParallel   Phase = "parallel"
	PhaseVerify     Phase = "verify"
	PhaseDone       Phase = "done"
)

// Status is a progress update sent by RunWithStatus.
type Status struct {
	Phase   Phase
	Message string
	Elapsed time.Duration
	Error   error
	// Result is set on the PhaseDone update.
	Result *Result
}

// Result holds the measurements of one run.
type Result struct {
	Workers       int
	Width         int
	Height        int
	MaxIterations int
	Sequential    time.Duration
	Parallel      time.Duration
	Bands         []render.BandTiming
	// Identical is true when both renders produced the same pixels.
	Identical bool
	// Image is the buffer produced by the parallel render.
	Image *image.RGBA
}

// Speedup is the sequential time divided by the parallel time, both at full
// precision rather than in whole milliseconds.
func (r *Result) Speedup() float64 {
	if r.Parallel <= 0 {
		return 0
	}
	return float64(r.Sequential) / float64(r.Parallel)
}

// Efficiency is the speedup per worker, as a percentage.
func (r *Result) Efficiency() float64 {
	if r.Workers <= 0 {
		return 0
	}
	return 100 * r.Speedup() / float64(r.Workers)
}

// Runner runs the benchmark.
type Runner struct {
	workers int
	width   int
	height  int
	logger  *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of parallel workers. Values below 1 select
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithSize overrides the frame size. The command line always uses the fixed
// fractal.Width x fractal.Height frame.
func WithSize(width, height int) Option {
	return func(r *Runner) {
		r.width = width
		r.height = height
	}
}

// WithLogger sets the logger used for progress records.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner for the fixed frame using every CPU.
func New(opts ...Option) *Runner {
	r := &Runner{
		width:  fractal.Width,
		height: fractal.Height,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = DefaultWorkers()
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// DefaultWorkers is the number of hardware threads, never less than one.
func DefaultWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// Workers returns the worker count the runner will use.
func (r *Runner) Workers() int {
	return r.workers
}

// Run executes the benchmark without progress reporting.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	return r.run(ctx, func(Status) {})
}

// RunWithStatus executes the benchmark and sends progress on statusCh, which
// is closed when the run ends. A failure is also sent as a Status with Error set.
func (r *Runner) RunWithStatus(ctx context.Context, statusCh chan<- Status) (*Result, error) {
	defer close(statusCh)

	send := func(s Status) {
		select {
		case statusCh <- s:
		case <-ctx.Done():
		}
	}
	res, err := r.run(ctx, send)
	if err != nil {
		send(Status{Error: err, Message: err.Error()})
		return nil, err
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, send func(Status)) (*Result, error) {
	if r.width <= 0 || r.height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", r.width, r.height)
	}

	res := &Result{
		Workers:       r.workers,
		Width:         r.width,
		Height:        r.height,
		MaxIterations: fractal.MaxIterations,
	}

	send(Status{Phase: PhaseSequential, Message: "rendering on one goroutine"})
	r.logger.Info("Sequential render started", "width", r.width, "height", r.height)
	seq := render.NewCanvas(r.width, r.height)
	start := time.Now()
	if err := render.Sequential(ctx, seq); err != nil {
		return nil, fmt.Errorf("sequential render: %w", err)
	}
	res.Sequential = time.Since(start)
	r.logger.Info("Sequential render finished", "elapsed", res.Sequential)

	send(Status{
		Phase:   PhaseParallel,
		Message: fmt.Sprintf("rendering with %d workers", r.workers),
		Elapsed: res.Sequential,
	})
	r.logger.Info("Parallel render started", "workers", r.workers)
	par := render.NewCanvas(r.width, r.height)
	start = time.Now()
	bands, err := render.Parallel(ctx, par, r.workers)
	if err != nil {
		return nil, err
	}
	res.Parallel = time.Since(start)
	res.Bands = bands
	res.Image = par
	for _, b := range bands {
		r.logger.Debug("Band finished", "band", b.Index, "start", b.Start, "end", b.End, "elapsed", b.Duration)
	}
	r.logger.Info("Parallel render finished", "elapsed", res.Parallel)

	send(Status{Phase: PhaseVerify, Message: "comparing renders", Elapsed: res.Parallel})
	res.Identical = bytes.Equal(seq.Pix, par.Pix)
	if !res.Identical {
		r.logger.Warn("Parallel image differs from sequential image")
	}

	r.logger.Info("Benchmark finished",
		"speedup", fmt.Sprintf("%.3f", res.Speedup()),
		"efficiency", fmt.Sprintf("%.1f%%", res.Efficiency()),
	)
	send(Status{Phase: PhaseDone, Message: "benchmark finished", Result: res})
	return res, nil
}
