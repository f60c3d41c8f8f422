// Package fractal evaluates points of the Mandelbrot set.
//
// The frame size, the iteration cap and the part of the complex plane that is
// shown are compile-time constants. Only the number of workers varies between
// runs, so a sequential and a parallel render of the same frame always
// produce the same pixels.
package fractal

import "image/color"

// Frame and iteration limits.
const (
	Width         = 600
	Height        = 600
	MaxIterations = 10000

	// Span is the extent of the plane covered by the frame on each axis.
	Span = 4.0
)

// escapeRadiusSq is |z|^2 at which an orbit is considered escaped.
const escapeRadiusSq = 4.0

// Iterations runs z -> z^2 + c from z = 0 for c = cx + i*cy and returns the
// number of steps taken before |z| reached 2, capped at MaxIterations.
func Iterations(cx, cy float64) int {
	var x, y float64
	n := 0
	for x*x+y*y < escapeRadiusSq && n < MaxIterations {
		x, y = x*x-y*y+cx, 2*x*y+cy
		n++
	}
	return n
}

// Shade maps an iteration count to a grey level.
func Shade(n int) color.RGBA {
	v := uint8(n % 256)
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}

// Plane converts pixel positions of a Width x Height frame into points of the
// complex plane centred on the origin.
type Plane struct {
	Width, Height int
}

// DefaultPlane is the plane of the fixed frame.
var DefaultPlane = Plane{Width: Width, Height: Height}

// At returns the real and imaginary parts for pixel (px, py), where py grows
// downwards.
func (p Plane) At(px, py int) (float64, float64) {
	w := float64(p.Width)
	h := float64(p.Height)
	cx := (float64(px) - w/2.0) * Span / w
	cy := (float64(py) - h/2.0) * Span / h
	return cx, cy
}
