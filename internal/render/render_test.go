package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/nibzard/mandelbench/internal/fractal"
)

const (
	testWidth  = 40
	testHeight = 30
)

func TestNewCanvas(t *testing.T) {
	img := NewCanvas(3, 2)
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{A: 0xff}) {
				t.Errorf("pixel (%d, %d): got %v, want opaque black", x, y, got)
			}
		}
	}
}

func TestRegionWritesOnlyItsRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, testWidth, testHeight))
	band := Band{Index: 0, Start: 10, End: 20}

	if err := Region(img, band); err != nil {
		t.Fatalf("Region: %v", err)
	}

	plane := fractal.Plane{Width: testWidth, Height: testHeight}
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			got := img.RGBAAt(x, y)
			if y < band.Start || y >= band.End {
				if got != (color.RGBA{}) {
					t.Fatalf("pixel (%d, %d) outside band was written: %v", x, y, got)
				}
				continue
			}
			want := fractal.Shade(fractal.Iterations(plane.At(x, y)))
			if got != want {
				t.Fatalf("pixel (%d, %d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRegionRejectsOutOfBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	tests := []Band{
		{Start: -1, End: 2},
		{Start: 0, End: 5},
		{Start: 3, End: 2},
	}
	for _, b := range tests {
		if err := Region(img, b); err == nil {
			t.Errorf("Region(%v): expected error", b)
		}
	}

	shifted := image.NewRGBA(image.Rect(1, 1, 5, 5))
	if err := Region(shifted, Band{Start: 0, End: 1}); err == nil {
		t.Error("Region on non-zero origin: expected error")
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	ctx := context.Background()

	seq := NewCanvas(testWidth, testHeight)
	if err := Sequential(ctx, seq); err != nil {
		t.Fatalf("Sequential: %v", err)
	}

	for _, workers := range []int{1, 2, 3, 4, 7, testHeight, testHeight + 5} {
		par := NewCanvas(testWidth, testHeight)
		timings, err := Parallel(ctx, par, workers)
		if err != nil {
			t.Fatalf("Parallel(%d): %v", workers, err)
		}
		bands, err := Partition(testHeight, workers)
		if err != nil {
			t.Fatalf("Partition(%d): %v", workers, err)
		}
		if len(timings) != workers {
			t.Errorf("Parallel(%d): got %d timings", workers, len(timings))
		}
		for i, tm := range timings {
			if tm.Index != i {
				t.Errorf("Parallel(%d): timings[%d].Index = %d", workers, i, tm.Index)
			}
			want := bands[i]
			if tm.Band != want {
				t.Errorf("Parallel(%d): timings[%d].Band = %v, want %v", workers, i, tm.Band, want)
			}
			if tm.Started.IsZero() {
				t.Errorf("Parallel(%d): timings[%d] has no start time", workers, i)
			}
		}
		if !bytes.Equal(seq.Pix, par.Pix) {
			t.Errorf("Parallel(%d): image differs from sequential render", workers)
		}
	}
}

func TestParallelRejectsZeroWorkers(t *testing.T) {
	img := NewCanvas(4, 4)
	if _, err := Parallel(context.Background(), img, 0); err == nil {
		t.Error("expected error for zero workers")
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := NewCanvas(testWidth, testHeight)
	if err := Sequential(ctx, img); err == nil {
		t.Error("Sequential: expected error on cancelled context")
	}
	if _, err := Parallel(ctx, img, 3); err == nil {
		t.Error("Parallel: expected error on cancelled context")
	}
}
