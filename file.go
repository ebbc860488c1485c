package jsondoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cybergodev/jsondoc/internal"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// compression identifies the stream codec implied by a file extension
type compression uint8

const (
	compressNone compression = iota
	compressGzip
	compressZstd
	compressS2
)

func compressionFor(path string) compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return compressGzip
	case ".zst", ".zstd":
		return compressZstd
	case ".s2":
		return compressS2
	}
	return compressNone
}

func (c compression) reader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case compressGzip:
		return gzip.NewReader(r)
	case compressZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case compressS2:
		return io.NopCloser(s2.NewReader(r)), nil
	}
	return io.NopCloser(r), nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (c compression) writer(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case compressGzip:
		return gzip.NewWriter(w), nil
	case compressZstd:
		return zstd.NewWriter(w)
	case compressS2:
		return s2.NewWriter(w), nil
	}
	return nopWriteCloser{w}, nil
}

// ============================================================================
// READING
// ============================================================================

// ReadFrom reads a document from r. A UTF-8 BOM is dropped and UTF-16 input
// with a BOM is transcoded to UTF-8 before parsing.
func ReadFrom(r io.Reader, cfg ...*Config) (Value, error) {
	c := resolveConfig(cfg)
	text, err := readText(r, c.MaxInputSize)
	if err != nil {
		return Value{}, newOperationError("read", "", err.Error(), err)
	}
	p := NewParser(c)
	var v Value
	if !p.Parse(&v, text) {
		return Value{}, p.Err()
	}
	return v, nil
}

// ReadFile returns the decoded text of a document file, decompressing by
// extension (.gz, .zst, .s2) and transcoding BOM-marked input to UTF-8
func ReadFile(path string, cfg ...*Config) (string, error) {
	c := resolveConfig(cfg)
	if err := validateFilePath(path); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &JsonsError{
			Op:      "read_file",
			Path:    path,
			Message: fmt.Sprintf("failed to open file %s", path),
			Err:     fmt.Errorf("open file error: %w", err),
		}
	}
	defer f.Close()

	rc, err := compressionFor(path).reader(f)
	if err != nil {
		return "", &JsonsError{
			Op:      "read_file",
			Path:    path,
			Message: "failed to open compressed stream",
			Err:     fmt.Errorf("%w: %v", ErrUnsupportedFormat, err),
		}
	}
	defer rc.Close()

	text, err := readText(rc, c.MaxInputSize)
	if err != nil {
		if errors.Is(err, ErrSizeLimit) {
			return "", newSizeLimitError("read_file", path, c.MaxInputSize)
		}
		return "", &JsonsError{
			Op:      "read_file",
			Path:    path,
			Message: fmt.Sprintf("failed to read file %s", path),
			Err:     fmt.Errorf("read file error: %w", err),
		}
	}
	return text, nil
}

// ReadDocument reads and parses a document file
func ReadDocument(path string, cfg ...*Config) (Value, error) {
	c := resolveConfig(cfg)
	text, err := ReadFile(path, c)
	if err != nil {
		logOperationError("read_document", path, err)
		return Value{}, err
	}

	p := NewParser(c)
	var v Value
	if !p.Parse(&v, text) {
		err := &JsonsError{
			Op:      "read_document",
			Path:    path,
			Message: "document is not valid JSON",
			Err:     p.Err(),
		}
		logOperationError("read_document", path, err)
		return Value{}, err
	}

	Logger().Info().
		Str("path", truncateString(path, 200)).
		Int("bytes", len(text)).
		Msg("document loaded")
	return v, nil
}

// readText reads at most limit bytes of decoded text. Reaching past the
// limit is ErrSizeLimit.
func readText(r io.Reader, limit int64) (string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))
	if limit <= 0 {
		data, err := io.ReadAll(decoded)
		return string(data), err
	}

	data, err := io.ReadAll(io.LimitReader(decoded, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", ErrSizeLimit
	}
	return string(data), nil
}

// ============================================================================
// WRITING
// ============================================================================

// WriteTo dumps v to w, indented when cfg asks for pretty output
func WriteTo(w io.Writer, v Value, cfg ...*Config) error {
	d := NewDumper(cfg...)
	if !d.Dump(v) {
		return newOperationError("write", "", "value cannot be dumped", ErrOperationFailed)
	}
	if _, err := w.Write(d.Bytes()); err != nil {
		return &JsonsError{
			Op:      "write",
			Message: fmt.Sprintf("failed to write to writer: %v", err),
			Err:     ErrOperationFailed,
		}
	}
	return nil
}

// WriteFile writes text to path, compressing by extension and creating
// missing parent directories
func WriteFile(path string, data []byte) error {
	if err := validateFilePath(path); err != nil {
		return err
	}
	if err := createDirectoryIfNotExists(path); err != nil {
		return &JsonsError{
			Op:      "write_file",
			Path:    path,
			Message: fmt.Sprintf("failed to create directory for %s", path),
			Err:     fmt.Errorf("directory creation error: %w", err),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &JsonsError{
			Op:      "write_file",
			Path:    path,
			Message: fmt.Sprintf("failed to create file %s", path),
			Err:     err,
		}
	}

	wc, err := compressionFor(path).writer(f)
	if err == nil {
		_, err = wc.Write(data)
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &JsonsError{
			Op:      "write_file",
			Path:    path,
			Message: fmt.Sprintf("failed to write file %s", path),
			Err:     fmt.Errorf("write file error: %w", err),
		}
	}
	return nil
}

// WriteDocument dumps v and writes it to path
func WriteDocument(path string, v Value, cfg ...*Config) error {
	d := NewDumper(cfg...)
	if !d.Dump(v) {
		return newOperationError("write_document", path, "value cannot be dumped", ErrOperationFailed)
	}
	if err := WriteFile(path, d.Bytes()); err != nil {
		logOperationError("write_document", path, err)
		return err
	}
	Logger().Info().
		Str("path", truncateString(path, 200)).
		Int("bytes", len(d.Bytes())).
		Msg("document written")
	return nil
}

// createDirectoryIfNotExists creates the directory structure for a file path if it doesn't exist
func createDirectoryIfNotExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "." || dir == "/" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// validateFilePath rejects paths that cannot name a regular document file
func validateFilePath(path string) error {
	if path == "" {
		return newOperationError("validate_file_path", "", "file path cannot be empty", ErrOperationFailed)
	}
	if strings.ContainsRune(path, 0) {
		return newOperationError("validate_file_path", "", "null byte in path", ErrOperationFailed)
	}
	if len(path) > internal.MaxPathLength {
		return newOperationError("validate_file_path", truncateString(path, 64),
			fmt.Sprintf("path too long: %d > %d", len(path), internal.MaxPathLength), ErrOperationFailed)
	}
	return nil
}
