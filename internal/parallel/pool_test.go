package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pool with max workers", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 4, false)
		if pool == nil {
			t.Fatal("NewWorkerPool returned nil")
		}
		if pool.maxWorkers != 4 {
			t.Errorf("expected maxWorkers=4, got %d", pool.maxWorkers)
		}
		if pool.failFast {
			t.Error("expected failFast=false")
		}
	})

	t.Run("creates pool with failFast", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, true)
		if !pool.failFast {
			t.Error("expected failFast=true")
		}
	})

	t.Run("negative max workers means unbounded", func(t *testing.T) {
		pool := NewWorkerPool(ctx, -3, false)
		if pool.maxWorkers != 0 {
			t.Errorf("expected maxWorkers=0, got %d", pool.maxWorkers)
		}
	})
}

func TestWorkerPool_SubmitAndWait(t *testing.T) {
	ctx := context.Background()

	t.Run("single job execution", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, false)

		var executed atomic.Bool
		pool.Submit(0, "band-0", func(context.Context) error {
			executed.Store(true)
			return nil
		})

		results, errs := pool.Wait()
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		if !executed.Load() {
			t.Error("job was not executed")
		}
		if results[0].Label != "band-0" {
			t.Errorf("expected Label=band-0, got %s", results[0].Label)
		}
	})

	t.Run("results are ordered by index", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 0, false)

		const jobs = 8
		for i := jobs - 1; i >= 0; i-- {
			idx := i
			pool.Submit(idx, fmt.Sprintf("band-%d", idx), func(context.Context) error {
				// Lower indices finish last.
				time.Sleep(time.Duration(jobs-idx) * 5 * time.Millisecond)
				return nil
			})
		}

		results, _ := pool.Wait()
		if len(results) != jobs {
			t.Fatalf("expected %d results, got %d", jobs, len(results))
		}
		for i, r := range results {
			if r.Index != i {
				t.Errorf("results[%d].Index = %d", i, r.Index)
			}
		}
	})

	t.Run("respects max workers limit", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, false)

		maxConcurrent := 0
		currentConcurrent := 0
		var mu sync.Mutex

		for i := 0; i < 5; i++ {
			pool.Submit(i, "", func(context.Context) error {
				mu.Lock()
				currentConcurrent++
				if currentConcurrent > maxConcurrent {
					maxConcurrent = currentConcurrent
				}
				mu.Unlock()

				time.Sleep(50 * time.Millisecond)

				mu.Lock()
				currentConcurrent--
				mu.Unlock()
				return nil
			})
		}

		pool.Wait()

		if maxConcurrent > 2 {
			t.Errorf("expected max 2 concurrent jobs, got %d", maxConcurrent)
		}
	})

	t.Run("unlimited workers", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 0, false)

		jobCount := 10
		for i := 0; i < jobCount; i++ {
			pool.Submit(i, "", func(context.Context) error {
				time.Sleep(10 * time.Millisecond)
				return nil
			})
		}

		results, _ := pool.Wait()
		if len(results) != jobCount {
			t.Errorf("expected %d results, got %d", jobCount, len(results))
		}
	})
}

func TestWorkerPool_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("job error handling", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, false)

		errBand := errors.New("band failed")
		pool.Submit(0, "band-0", func(context.Context) error { return nil })
		pool.Submit(1, "band-1", func(context.Context) error { return errBand })
		pool.Submit(2, "band-2", func(context.Context) error { return nil })

		results, errs := pool.Wait()

		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d", len(errs))
		}
		if !errors.Is(errs[0], errBand) {
			t.Errorf("expected wrapped band error, got %v", errs[0])
		}
		if len(results) != 3 {
			t.Errorf("expected 3 results, got %d", len(results))
		}
		if results[1].Error == nil {
			t.Error("expected band-1 result to carry its error")
		}
	})

	t.Run("failFast stops execution", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 2, true)

		var executed atomic.Int32
		for i := 0; i < 5; i++ {
			pool.Submit(i, "", func(context.Context) error {
				if executed.Add(1) == 2 {
					return errors.New("fail fast test")
				}
				time.Sleep(100 * time.Millisecond)
				return nil
			})
		}

		_, errs := pool.Wait()

		if executed.Load() == 5 {
			t.Error("failFast did not stop execution early")
		}
		if len(errs) == 0 {
			t.Error("expected at least one error")
		}
	})

	t.Run("continue on error without failFast", func(t *testing.T) {
		pool := NewWorkerPool(ctx, 4, false)

		jobCount := 5
		for i := 0; i < jobCount; i++ {
			idx := i
			pool.Submit(idx, "", func(context.Context) error {
				if idx == 2 {
					return errors.New("job error")
				}
				return nil
			})
		}

		results, errs := pool.Wait()

		if len(results) != jobCount {
			t.Errorf("expected %d results, got %d", jobCount, len(results))
		}
		if len(errs) != 1 {
			t.Errorf("expected 1 error, got %d", len(errs))
		}
	})
}

func TestWorkerPool_Cancel(t *testing.T) {
	t.Run("running job observes cancellation", func(t *testing.T) {
		pool := NewWorkerPool(context.Background(), 1, false)

		started := make(chan struct{})
		pool.Submit(0, "", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})

		<-started
		pool.Cancel()

		_, errs := pool.Wait()
		if len(errs) != 1 || !errors.Is(errs[0], context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", errs)
		}
	})

	t.Run("cancel with context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		pool := NewWorkerPool(ctx, 2, false)

		var executed atomic.Int32
		for i := 0; i < 10; i++ {
			pool.Submit(i, "", func(context.Context) error {
				executed.Add(1)
				time.Sleep(50 * time.Millisecond)
				return nil
			})
		}

		go func() {
			time.Sleep(75 * time.Millisecond)
			cancel()
		}()

		pool.Wait()

		if executed.Load() >= 10 {
			t.Errorf("expected fewer than 10 executed jobs due to cancel, got %d", executed.Load())
		}
	})

	t.Run("submit after cancel is dropped", func(t *testing.T) {
		pool := NewWorkerPool(context.Background(), 2, false)
		pool.Cancel()

		pool.Submit(0, "", func(context.Context) error {
			t.Error("job ran after cancel")
			return nil
		})

		results, _ := pool.Wait()
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}

func TestWorkerPool_Duration(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2, false)

	pool.Submit(0, "", func(context.Context) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	results, _ := pool.Wait()

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Duration < 50*time.Millisecond {
		t.Errorf("expected duration >= 50ms, got %v", results[0].Duration)
	}
	if results[0].Start.IsZero() {
		t.Error("expected start time to be recorded")
	}
}
