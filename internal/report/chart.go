package report

import (
	"fmt"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/nibzard/mandelbench/internal/bench"
)

const (
	chartHeight   = 512
	chartBarWidth = 48
	chartMinWidth = 640
)

var (
	sequentialStyle = chart.Style{FillColor: drawing.ColorFromHex("6c757d"), StrokeColor: drawing.ColorFromHex("495057")}
	parallelStyle   = chart.Style{FillColor: drawing.ColorFromHex("1f77b4"), StrokeColor: drawing.ColorFromHex("17557f")}
	bandStyle       = chart.Style{FillColor: drawing.ColorFromHex("9ecae1"), StrokeColor: drawing.ColorFromHex("6baed6")}
)

// Chart builds a bar chart of the sequential time, the parallel time and the
// time of each band, all in milliseconds.
func Chart(res *bench.Result) chart.BarChart {
	bars := []chart.Value{
		{Label: "sequential", Value: ms(res.Sequential), Style: sequentialStyle},
		{Label: "parallel", Value: ms(res.Parallel), Style: parallelStyle},
	}
	for _, b := range res.Bands {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("band %d", b.Index),
			Value: ms(b.Duration),
			Style: bandStyle,
		})
	}

	top := 0.0
	for _, b := range bars {
		if b.Value > top {
			top = b.Value
		}
	}
	if top == 0 {
		top = 1
	}

	width := (len(bars) + 2) * (chartBarWidth + 16)
	if width < chartMinWidth {
		width = chartMinWidth
	}

	return chart.BarChart{
		Title:      fmt.Sprintf("Render time (ms), %d threads, speedup %.2f", res.Workers, res.Speedup()),
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
}

// RenderChart writes the timing chart as PNG to w.
func RenderChart(w io.Writer, res *bench.Result) error {
	c := Chart(res)
	if err := c.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// WriteChart writes the timing chart as a PNG file.
func WriteChart(path string, res *bench.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := RenderChart(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
