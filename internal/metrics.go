package internal

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// BatchCollector gathers timing and failure counts for a batch of file
// loads. All methods are safe for concurrent use.
type BatchCollector struct {
	files         int64
	failed        int64
	totalTime     int64
	maxTime       int64
	minTime       int64
	active        int64
	maxActive     int64
	failuresByKey sync.Map
	startTime     time.Time
}

// NewBatchCollector creates a collector whose elapsed clock starts now
func NewBatchCollector() *BatchCollector {
	return &BatchCollector{
		startTime: time.Now(),
		minTime:   1<<63 - 1, // Max int64 value
	}
}

// RecordFile records one finished file. An empty kind marks success.
func (bc *BatchCollector) RecordFile(duration time.Duration, kind string) {
	atomic.AddInt64(&bc.files, 1)
	if kind != "" {
		atomic.AddInt64(&bc.failed, 1)
		actual, _ := bc.failuresByKey.LoadOrStore(kind, new(int64))
		atomic.AddInt64(actual.(*int64), 1)
	}

	ns := duration.Nanoseconds()
	if ns > 0 {
		atomic.AddInt64(&bc.totalTime, ns)
		updateMax(&bc.maxTime, ns)
		updateMin(&bc.minTime, ns)
	}
}

// StartWorker marks a worker busy
func (bc *BatchCollector) StartWorker() {
	current := atomic.AddInt64(&bc.active, 1)
	updateMax(&bc.maxActive, current)
}

// EndWorker marks a worker idle
func (bc *BatchCollector) EndWorker() {
	atomic.AddInt64(&bc.active, -1)
}

// Snapshot returns the counters collected so far
func (bc *BatchCollector) Snapshot() BatchMetrics {
	files := atomic.LoadInt64(&bc.files)
	total := atomic.LoadInt64(&bc.totalTime)

	m := BatchMetrics{
		Files:         files,
		Failed:        atomic.LoadInt64(&bc.failed),
		TotalTime:     time.Duration(total),
		MaxTime:       time.Duration(atomic.LoadInt64(&bc.maxTime)),
		MaxConcurrent: atomic.LoadInt64(&bc.maxActive),
		Elapsed:       time.Since(bc.startTime),
		Failures:      make(map[string]int64),
	}
	if files > 0 {
		m.AvgTime = time.Duration(total / files)
	}
	if minTime := atomic.LoadInt64(&bc.minTime); minTime != 1<<63-1 {
		m.MinTime = time.Duration(minTime)
	}
	bc.failuresByKey.Range(func(key, value any) bool {
		m.Failures[key.(string)] = atomic.LoadInt64(value.(*int64))
		return true
	})
	return m
}

// BatchMetrics is a point-in-time view of a BatchCollector
type BatchMetrics struct {
	Files         int64            `json:"files"`
	Failed        int64            `json:"failed"`
	TotalTime     time.Duration    `json:"total_time"`
	AvgTime       time.Duration    `json:"avg_time"`
	MaxTime       time.Duration    `json:"max_time"`
	MinTime       time.Duration    `json:"min_time"`
	MaxConcurrent int64            `json:"max_concurrent"`
	Elapsed       time.Duration    `json:"elapsed"`
	Failures      map[string]int64 `json:"failures"`
}

// Summary formats the metrics on one line
func (m BatchMetrics) Summary() string {
	return fmt.Sprintf("checked %d files, %d failed in %v (avg %v, max %v, peak %d workers)",
		m.Files, m.Failed, m.Elapsed.Round(time.Microsecond),
		m.AvgTime.Round(time.Microsecond), m.MaxTime.Round(time.Microsecond), m.MaxConcurrent)
}

// updateMax atomically updates target to value if value is greater
func updateMax(target *int64, value int64) {
	for {
		current := atomic.LoadInt64(target)
		if value <= current || atomic.CompareAndSwapInt64(target, current, value) {
			return
		}
	}
}

// updateMin atomically updates target to value if value is smaller
func updateMin(target *int64, value int64) {
	for {
		current := atomic.LoadInt64(target)
		if value >= current || atomic.CompareAndSwapInt64(target, current, value) {
			return
		}
	}
}
