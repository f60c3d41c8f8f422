package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/nibzard/mandelbench/internal/fractal"
	"github.com/nibzard/mandelbench/internal/parallel"
)

// BandTiming records how long one band took in a parallel render.
type BandTiming struct {
	Band
	Started  time.Time     `json:"-"`
	Duration time.Duration `json:"duration_ns"`
}

// NewCanvas returns an opaque black width x height image.
func NewCanvas(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}

// Region renders rows [band.Start, band.End) of img across its full width.
// Pixels are mapped onto the plane using the whole image size, so any band of
// a frame lands on the same points it would in a full render.
func Region(img *image.RGBA, band Band) error {
	return region(context.Background(), img, band)
}

func region(ctx context.Context, img *image.RGBA, band Band) error {
	b := img.Bounds()
	if b.Min != (image.Point{}) {
		return fmt.Errorf("image origin %v is not zero", b.Min)
	}
	if band.Start < 0 || band.End > b.Dy() || band.Start > band.End {
		return fmt.Errorf("%s outside image of height %d", band, b.Dy())
	}

	plane := fractal.Plane{Width: b.Dx(), Height: b.Dy()}
	for py := band.Start; py < band.End; py++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := img.Pix[py*img.Stride : py*img.Stride+b.Dx()*4]
		for px := 0; px < b.Dx(); px++ {
			c := fractal.Shade(fractal.Iterations(plane.At(px, py)))
			off := px * 4
			row[off+0] = c.R
			row[off+1] = c.G
			row[off+2] = c.B
			row[off+3] = c.A
		}
	}
	return nil
}

// Sequential renders the whole image on the calling goroutine.
func Sequential(ctx context.Context, img *image.RGBA) error {
	return region(ctx, img, Band{Start: 0, End: img.Bounds().Dy()})
}

// Parallel partitions the image into workers bands, renders each band on its
// own goroutine and waits for all of them. The timings are ordered by band.
func Parallel(ctx context.Context, img *image.RGBA, workers int) ([]BandTiming, error) {
	bands, err := Partition(img.Bounds().Dy(), workers)
	if err != nil {
		return nil, err
	}

	pool := parallel.NewWorkerPool(ctx, workers, true)
	for _, band := range bands {
		band := band
		pool.Submit(band.Index, band.String(), func(ctx context.Context) error {
			return region(ctx, img, band)
		})
	}

	results, errs := pool.Wait()
	if len(errs) > 0 {
		return nil, fmt.Errorf("parallel render: %w", errs[0])
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(results) != len(bands) {
		return nil, fmt.Errorf("parallel render: %d of %d bands finished", len(results), len(bands))
	}

	timings := make([]BandTiming, len(results))
	for i, r := range results {
		timings[i] = BandTiming{Band: bands[r.Index], Started: r.Start, Duration: r.Duration}
	}
	return timings, nil
}
