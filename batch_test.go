package jsondoc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeBatchFiles(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("doc%02d.json", i))
		if err := os.WriteFile(paths[i], []byte(fmt.Sprintf(`{"id":%d}`, i)), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func TestParseFiles(t *testing.T) {
	helper := NewTestHelper(t)

	t.Run("results keep path order", func(t *testing.T) {
		paths := writeBatchFiles(t, 20)
		cfg := DefaultConfig()
		cfg.Workers = 3

		results, err := ParseFiles(context.Background(), paths, cfg)
		helper.AssertNoError(err)
		helper.AssertEqual(len(paths), len(results))
		for i, r := range results {
			helper.AssertEqual(paths[i], r.Path)
			helper.AssertNoError(r.Err)
			helper.AssertEqual(int64(i), r.Value.Key("id").AsLong(), "result %d", i)
		}
		ReleaseResults(results)
	})

	t.Run("per-file failures", func(t *testing.T) {
		paths := writeBatchFiles(t, 2)
		bad := filepath.Join(filepath.Dir(paths[0]), "bad.json")
		if err := os.WriteFile(bad, []byte(`{"id":`), 0644); err != nil {
			t.Fatal(err)
		}
		missing := filepath.Join(filepath.Dir(paths[0]), "missing.json")
		paths = append(paths, bad, missing)

		results, err := ParseFiles(context.Background(), paths)
		helper.AssertNoError(err)
		helper.AssertNoError(results[0].Err)
		helper.AssertNoError(results[1].Err)
		helper.AssertTrue(errors.Is(results[2].Err, &ParseError{Code: CodeTrunc}), "got %v", results[2].Err)
		helper.AssertTrue(errors.Is(results[3].Err, os.ErrNotExist), "got %v", results[3].Err)
		helper.AssertTrue(results[3].Value.IsNull())
		ReleaseResults(results)
	})

	t.Run("cancelled context", func(t *testing.T) {
		paths := writeBatchFiles(t, 4)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := ParseFiles(ctx, paths)
		helper.AssertTrue(errors.Is(err, context.Canceled), "got %v", err)
		helper.AssertEqual(4, len(results))
		for _, r := range results {
			helper.AssertTrue(errors.Is(r.Err, context.Canceled), "%s: got %v", r.Path, r.Err)
		}
	})

	t.Run("stats", func(t *testing.T) {
		paths := writeBatchFiles(t, 3)
		dir := filepath.Dir(paths[0])
		paths = append(paths,
			filepath.Join(dir, "missing.json"),
			filepath.Join(dir, "also-missing.json"))
		bad := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(bad, []byte(`[1 2]`), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, bad)

		cfg := DefaultConfig()
		cfg.Workers = 2
		results, stats, err := ParseFilesStats(context.Background(), paths, cfg)
		helper.AssertNoError(err)
		helper.AssertEqual(int64(6), stats.Files)
		helper.AssertEqual(int64(3), stats.Failed)
		helper.AssertEqual(map[string]int64{"missing": 2, "array": 1}, stats.Failures)
		helper.AssertTrue(stats.MaxConcurrent >= 1 && stats.MaxConcurrent <= 2, "peak %d", stats.MaxConcurrent)
		ReleaseResults(results)
	})

	t.Run("panicking file is counted", func(t *testing.T) {
		paths := writeBatchFiles(t, 3)
		boom := paths[1]
		orig := readDocument
		readDocument = func(path string, cfg ...*Config) (Value, error) {
			if path == boom {
				panic("decoder blew up")
			}
			return orig(path, cfg...)
		}
		t.Cleanup(func() { readDocument = orig })

		results, stats, err := ParseFilesStats(context.Background(), paths)
		helper.AssertNoError(err)
		helper.AssertEqual(int64(3), stats.Files)
		helper.AssertEqual(int64(1), stats.Failed)
		helper.AssertEqual(map[string]int64{"aborted": 1}, stats.Failures)
		helper.AssertTrue(errors.Is(results[1].Err, ErrOperationFailed), "got %v", results[1].Err)
		helper.AssertNoError(results[0].Err)
		helper.AssertNoError(results[2].Err)
		ReleaseResults(results)
	})

	t.Run("empty batch", func(t *testing.T) {
		results, err := ParseFiles(context.Background(), nil)
		helper.AssertNoError(err)
		helper.AssertEqual(0, len(results))
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workers = -2
		_, err := ParseFiles(context.Background(), []string{"x.json"}, cfg)
		helper.AssertTrue(errors.Is(err, ErrInvalidConfig), "got %v", err)
	})
}
