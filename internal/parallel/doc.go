// Package parallel runs independent jobs on a bounded set of goroutines.
//
// It provides:
//   - WorkerPool: bounded concurrency with per-job timing and optional fail-fast
//   - JobResult: the outcome of one job, keyed by the index it was submitted with
//
// The renderer submits one job per row band and joins them with Wait, which is
// the fork/join step of the parallel benchmark.
package parallel
