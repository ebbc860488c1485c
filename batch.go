package jsondoc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cybergodev/jsondoc/internal"
	"github.com/panjf2000/ants/v2"
)

// FileResult is the outcome of loading one file in a batch
type FileResult struct {
	Path  string
	Value Value
	Err   error
}

// BatchStats summarizes a ParseFiles run. Failures counts failed files by
// kind: a parse error code name, "size", "missing", "cancelled", "io", or
// "aborted" for a file whose worker panicked.
type BatchStats = internal.BatchMetrics

// readDocument loads one batch file; tests swap it out
var readDocument = ReadDocument

// ParseFiles reads and parses paths concurrently on a bounded worker pool.
// Results keep the order of paths. A per-file failure is reported in its
// FileResult; the returned error is only set when the pool cannot run or
// ctx is cancelled, in which case files not yet started carry ctx's error.
func ParseFiles(ctx context.Context, paths []string, cfg ...*Config) ([]FileResult, error) {
	results, _, err := ParseFilesStats(ctx, paths, cfg...)
	return results, err
}

// ParseFilesStats is ParseFiles that also reports timing and failure counts
func ParseFilesStats(ctx context.Context, paths []string, cfg ...*Config) ([]FileResult, BatchStats, error) {
	c := resolveConfig(cfg).Clone()
	if err := c.Validate(); err != nil {
		return nil, BatchStats{}, err
	}

	stats := internal.NewBatchCollector()
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, stats.Snapshot(), nil
	}

	workers := min(c.Workers, len(paths))
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p any) {
		Logger().Error().
			Str("operation", "parse_files").
			Str("panic", fmt.Sprint(p)).
			Msg("worker panic recovered")
	}))
	if err != nil {
		return nil, BatchStats{}, newOperationError("parse_files", "", "failed to start worker pool", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, path := range paths {
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			stats.RecordFile(0, failureKind(err))
			continue
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			stats.StartWorker()
			defer stats.EndWorker()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				stats.RecordFile(0, failureKind(err))
				return
			}
			start := time.Now()
			done := false
			defer func() {
				if !done {
					results[i].Err = newOperationError("parse_files", path, "worker aborted", ErrOperationFailed)
					stats.RecordFile(time.Since(start), "aborted")
				}
			}()
			v, err := readDocument(path, c)
			results[i].Value, results[i].Err = v, err
			stats.RecordFile(time.Since(start), failureKind(err))
			done = true
		})
		if submitErr != nil {
			wg.Done()
			results[i].Err = newOperationError("parse_files", path, "failed to schedule file", submitErr)
			stats.RecordFile(0, failureKind(results[i].Err))
		}
	}
	wg.Wait()

	snapshot := stats.Snapshot()
	Logger().Info().
		Int64("files", snapshot.Files).
		Int64("failed", snapshot.Failed).
		Int("workers", workers).
		Int64("peak_workers", snapshot.MaxConcurrent).
		Dur("elapsed", snapshot.Elapsed).
		Msg("batch parse finished")

	if err := ctx.Err(); err != nil {
		return results, snapshot, err
	}
	return results, snapshot, nil
}

// failureKind names the class of a per-file error for BatchStats
func failureKind(err error) string {
	var pe *ParseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Code.String()
	case errors.Is(err, ErrSizeLimit):
		return "size"
	case errors.Is(err, os.ErrNotExist):
		return "missing"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "io"
}

// ReleaseResults drops the Values held by a batch result
func ReleaseResults(results []FileResult) {
	for i := range results {
		results[i].Value.Release()
	}
}
