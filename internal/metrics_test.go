package internal

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBatchCollector(t *testing.T) {
	t.Run("Creation", func(t *testing.T) {
		bc := NewBatchCollector()
		if bc.startTime.IsZero() {
			t.Error("Start time should be set")
		}
		m := bc.Snapshot()
		if m.Files != 0 || m.MinTime != 0 || m.AvgTime != 0 {
			t.Errorf("Expected empty snapshot, got %+v", m)
		}
	})

	t.Run("RecordFile", func(t *testing.T) {
		bc := NewBatchCollector()
		bc.RecordFile(100*time.Millisecond, "")
		bc.RecordFile(200*time.Millisecond, "trunc")
		bc.RecordFile(50*time.Millisecond, "trunc")
		bc.RecordFile(10*time.Millisecond, "missing")

		m := bc.Snapshot()
		if m.Files != 4 || m.Failed != 3 {
			t.Errorf("Expected 4 files with 3 failures, got %d and %d", m.Files, m.Failed)
		}
		if m.MaxTime != 200*time.Millisecond {
			t.Errorf("Expected max 200ms, got %v", m.MaxTime)
		}
		if m.MinTime != 10*time.Millisecond {
			t.Errorf("Expected min 10ms, got %v", m.MinTime)
		}
		if m.AvgTime != 90*time.Millisecond {
			t.Errorf("Expected avg 90ms, got %v", m.AvgTime)
		}
		if m.Failures["trunc"] != 2 || m.Failures["missing"] != 1 {
			t.Errorf("Unexpected failure counts %v", m.Failures)
		}
	})

	t.Run("WorkerConcurrency", func(t *testing.T) {
		bc := NewBatchCollector()
		bc.StartWorker()
		bc.StartWorker()
		bc.StartWorker()
		bc.EndWorker()

		if active := atomic.LoadInt64(&bc.active); active != 2 {
			t.Errorf("Expected 2 active workers, got %d", active)
		}
		if m := bc.Snapshot(); m.MaxConcurrent != 3 {
			t.Errorf("Expected peak of 3, got %d", m.MaxConcurrent)
		}
	})

	t.Run("ConcurrentRecording", func(t *testing.T) {
		bc := NewBatchCollector()

		var wg sync.WaitGroup
		workers := 10
		files := 100

		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				bc.StartWorker()
				defer bc.EndWorker()
				for j := 0; j < files; j++ {
					kind := ""
					if j%10 == 0 {
						kind = "value"
					}
					bc.RecordFile(time.Millisecond, kind)
				}
			}()
		}
		wg.Wait()

		m := bc.Snapshot()
		if m.Files != int64(workers*files) {
			t.Errorf("Expected %d files, got %d", workers*files, m.Files)
		}
		if m.Failures["value"] != int64(workers*files/10) {
			t.Errorf("Expected %d failures, got %d", workers*files/10, m.Failures["value"])
		}
		if m.MaxConcurrent < 1 || m.MaxConcurrent > int64(workers) {
			t.Errorf("Unexpected peak %d", m.MaxConcurrent)
		}
	})

	t.Run("Summary", func(t *testing.T) {
		bc := NewBatchCollector()
		bc.RecordFile(time.Millisecond, "")
		s := bc.Snapshot().Summary()
		if !strings.HasPrefix(s, "checked 1 files, 0 failed in ") {
			t.Errorf("Unexpected summary %q", s)
		}
	})
}
