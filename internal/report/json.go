package report

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/mandelbench/internal/bench"
)

// SchemaURL identifies the embedded report schema.
const SchemaURL = "https://mandelbench.local/report.schema.json"

//go:embed report.schema.json
var schemaSource string

// Document is the JSON form of a benchmark result.
type Document struct {
	Version       int        `json:"version"`
	GeneratedAt   time.Time  `json:"generated_at"`
	Workers       int        `json:"workers"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	MaxIterations int        `json:"max_iterations"`
	SequentialMS  float64    `json:"sequential_ms"`
	ParallelMS    float64    `json:"parallel_ms"`
	Speedup       float64    `json:"speedup"`
	Efficiency    float64    `json:"efficiency_percent"`
	Identical     bool       `json:"identical"`
	Bands         []BandInfo `json:"bands"`
}

// BandInfo is the JSON form of one band timing.
type BandInfo struct {
	Index      int     `json:"index"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	DurationMS float64 `json:"duration_ms"`
}

// NewDocument converts a result into its JSON document.
func NewDocument(res *bench.Result, now time.Time) *Document {
	doc := &Document{
		Version:       1,
		GeneratedAt:   now.UTC(),
		Workers:       res.Workers,
		Width:         res.Width,
		Height:        res.Height,
		MaxIterations: res.MaxIterations,
		SequentialMS:  ms(res.Sequential),
		ParallelMS:    ms(res.Parallel),
		Speedup:       res.Speedup(),
		Efficiency:    res.Efficiency(),
		Identical:     res.Identical,
		Bands:         make([]BandInfo, 0, len(res.Bands)),
	}
	for _, b := range res.Bands {
		doc.Bands = append(doc.Bands, BandInfo{
			Index:      b.Index,
			Start:      b.Start,
			End:        b.End,
			DurationMS: ms(b.Duration),
		})
	}
	return doc
}

// WriteJSON validates the document for res and writes it to path.
func WriteJSON(path string, res *bench.Result) error {
	data, err := json.MarshalIndent(NewDocument(res, time.Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := Validate(data); err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ValidateFile checks that the file at path is a valid report document.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	return Validate(data)
}

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid report: " + strings.Join(e.Problems, "; ")
}

// Validate checks raw JSON against the report schema.
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse report: %w", err)
	}

	err = schema.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	result := &ValidationError{}
	collectProblems(result, ve)
	return result
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(SchemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("load report schema: %w", err)
	}
	schema, err := compiler.Compile(SchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile report schema: %w", err)
	}
	return schema, nil
}

func collectProblems(result *ValidationError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		result.Problems = append(result.Problems, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectProblems(result, cause)
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
