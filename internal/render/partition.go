package render

import (
	"errors"
	"fmt"
)

// ErrNoWorkers is returned when a partition is requested for fewer than one worker.
var ErrNoWorkers = errors.New("at least one worker is required")

// Band is the half-open row range [Start, End) rendered by worker Index.
type Band struct {
	Index int `json:"index"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.End - b.Start
}

// Empty reports whether the band covers no rows.
func (b Band) Empty() bool {
	return b.End <= b.Start
}

func (b Band) String() string {
	return fmt.Sprintf("band %d [%d, %d)", b.Index, b.Start, b.End)
}

// Partition splits rows [0, height) into exactly workers contiguous bands.
// Every band gets height/workers rows and the last one also takes the
// remainder, so with more workers than rows the leading bands are empty.
func Partition(height, workers int) ([]Band, error) {
	if workers < 1 {
		return nil, ErrNoWorkers
	}
	if height < 0 {
		return nil, fmt.Errorf("negative height %d", height)
	}

	rowsPerWorker := height / workers
	bands := make([]Band, workers)
	start := 0
	for i := 0; i < workers; i++ {
		end := start + rowsPerWorker
		if i == workers-1 {
			end = height
		}
		bands[i] = Band{Index: i, Start: start, End: end}
		start = end
	}
	return bands, nil
}
