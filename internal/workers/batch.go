// Package workers runs snapshot comparisons for many data views in
// parallel. Each job is isolated: workers share no mutable state, and
// results are collected as they complete without blocking on stragglers.
package workers

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/cjatools/cjadrift/internal/differ"
	"github.com/cjatools/cjadrift/internal/logger"
	"github.com/cjatools/cjadrift/pkg/types"
)

// BatchJob is one snapshot pair to compare.
type BatchJob struct {
	DataViewID string
	Source     *types.Snapshot
	Target     *types.Snapshot
}

// BatchResult is the outcome of one job.
type BatchResult struct {
	DataViewID string
	Result     *types.DiffResult
	Err        error
	Duration   time.Duration
	WorkerID   int
}

// BatchDiffer fans jobs out over a fixed pool of workers.
type BatchDiffer struct {
	workerCount int
	options     differ.Options
	log         logger.Logger
}

// NewBatchDiffer creates a pool sized to workerCount, or GOMAXPROCS when
// workerCount is zero or negative.
func NewBatchDiffer(workerCount int, options differ.Options, log logger.Logger) *BatchDiffer {
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = logger.NewSimple()
	}
	return &BatchDiffer{
		workerCount: workerCount,
		options:     options,
		log:         log,
	}
}

// Run compares every job and streams results as they complete. The
// returned channel closes once all submitted work has finished.
// Cancellation is cooperative: when ctx is done, no further jobs are
// handed out, but comparisons already in flight run to completion and
// their results are still delivered.
func (b *BatchDiffer) Run(ctx context.Context, jobs []BatchJob) <-chan BatchResult {
	jobChan := make(chan BatchJob)
	results := make(chan BatchResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < b.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			comparator := differ.NewWithLogger(b.options, b.log.WithField("worker", workerID))
			for job := range jobChan {
				start := time.Now()
				result, err := comparator.Compare(job.Source, job.Target)
				results <- BatchResult{
					DataViewID: job.DataViewID,
					Result:     result,
					Err:        err,
					Duration:   time.Since(start),
					WorkerID:   workerID,
				}
			}
		}(i)
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				b.log.Warn("batch canceled, letting in-flight comparisons finish")
				return
			case jobChan <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// RunAll is a convenience wrapper that drains Run into a slice keyed by
// submission completion order.
func (b *BatchDiffer) RunAll(ctx context.Context, jobs []BatchJob) []BatchResult {
	collected := make([]BatchResult, 0, len(jobs))
	for result := range b.Run(ctx, jobs) {
		collected = append(collected, result)
	}
	return collected
}
