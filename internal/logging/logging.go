// Package logging builds the leveled console logger and the optional per-run
// log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPrefix is printed in front of every console record.
const DefaultPrefix = "mandelbench"

// Options holds configuration for logging.
type Options struct {
	Level      string
	Format     string
	Timestamps bool
	Caller     bool
	Prefix     string
	// Dir enables a per-run log file under Dir when not empty.
	Dir string
	// WorkDir resolves a relative Dir. Empty means the current directory.
	WorkDir string
}

// RunLogger is the logger of a single invocation together with its log file.
type RunLogger struct {
	*log.Logger
	Dir     string
	RunID   string
	LogPath string
	file    *os.File
}

// New creates a logger writing to w and, when opts.Dir is set, to a
// <run-id>.log file in that directory as well.
func New(w io.Writer, opts Options) (*RunLogger, error) {
	if w == nil {
		w = io.Discard
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}

	r := &RunLogger{RunID: runID()}
	out := w
	if opts.Dir != "" {
		dir, err := resolveDir(opts.Dir, opts.WorkDir)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		path := filepath.Join(dir, r.RunID+".log")
		file, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create log file: %w", err)
		}
		r.Dir = dir
		r.LogPath = path
		r.file = file
		out = io.MultiWriter(w, file)
	}

	r.Logger = log.NewWithOptions(out, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
		Prefix:          opts.Prefix,
	})
	return r, nil
}

// Discard returns a logger that drops everything.
func Discard() *RunLogger {
	return &RunLogger{Logger: log.New(io.Discard), RunID: runID()}
}

// Close closes the log file, if any.
func (r *RunLogger) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidLevel reports whether level is one ParseLevel understands.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

// ValidFormat reports whether format is one ParseFormatter understands.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "json", "logfmt":
		return true
	}
	return false
}

func resolveDir(dir, workDir string) (string, error) {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	if workDir == "" {
		workDir = "."
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve work dir: %w", err)
	}
	return filepath.Join(abs, dir), nil
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}
