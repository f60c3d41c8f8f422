// Package report turns a benchmark result into the textual comparison shown
// to the user and into the optional files written after a run.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/mandelbench/internal/bench"
)

// Title heads the report wherever it is displayed.
const Title = "Results"

// Format renders the comparison report, one line per measurement. Times are
// truncated to whole milliseconds while speedup and efficiency come from the
// exact durations, so they can differ slightly from the ratio of the printed times.
func Format(res *bench.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Threads: %d\n", res.Workers)
	fmt.Fprintf(&b, "Sequential time: %dms\n", millis(res.Sequential))
	fmt.Fprintf(&b, "Parallel time: %dms\n", millis(res.Parallel))
	fmt.Fprintf(&b, "Speedup: %.6g\n", res.Speedup())
	fmt.Fprintf(&b, "Efficiency: %.6g%%\n", res.Efficiency())
	return b.String()
}

// Overlay is a compact single-line summary drawn on top of the image.
func Overlay(res *bench.Result) string {
	return fmt.Sprintf("%d threads  seq %dms  par %dms  x%.2f  %.1f%%",
		res.Workers, millis(res.Sequential), millis(res.Parallel), res.Speedup(), res.Efficiency())
}

// Bands lists the row range and time of every band of the parallel render.
func Bands(res *bench.Result) string {
	var b strings.Builder
	for _, band := range res.Bands {
		fmt.Fprintf(&b, "  band %-3d rows %4d-%-4d %5d rows  %s\n",
			band.Index, band.Start, band.End, band.Rows(), band.Duration.Round(time.Microsecond))
	}
	return b.String()
}

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}
