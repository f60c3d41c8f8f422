// Package render fills an image with the Mandelbrot set, either on the
// calling goroutine or split into contiguous row bands that are rendered
// concurrently into the same buffer.
//
// Bands never overlap, so workers write disjoint parts of img.Pix and need no
// locking. Every pixel of the frame is written exactly once per render.
package render
