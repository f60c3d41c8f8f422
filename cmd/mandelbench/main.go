// Command mandelbench renders the Mandelbrot set and benchmarks a sequential
// render against a row-partitioned parallel render.
package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/nibzard/mandelbench/cmd"
	"github.com/nibzard/mandelbench/internal/window"
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	viewer := func(img *image.RGBA, overlay string) error {
		return window.Show(img, window.DefaultTitle, overlay)
	}

	if err := cmd.Run(ctx, os.Args[1:], cmd.WithViewer(viewer)); err != nil {
		code := cmd.ExitCode(ctx, err)
		if code == cmd.ExitInterrupted {
			fmt.Fprintf(os.Stderr, "\nInterrupted\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}
