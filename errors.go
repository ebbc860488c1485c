package jsondoc

import (
	"errors"
	"fmt"
)

// Core error definitions
var (
	ErrInvalidJSON       = errors.New("invalid JSON format")
	ErrEmptyInput        = errors.New("empty input")
	ErrDepthLimit        = errors.New("depth limit exceeded")
	ErrSizeLimit         = errors.New("size limit exceeded")
	ErrInvalidEscape     = errors.New("invalid escape sequence")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrOperationFailed   = errors.New("operation failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// ErrorCode classifies a parse failure by the construct that broke
type ErrorCode uint8

const (
	CodeNone    ErrorCode = iota
	CodeEmpty             // no input
	CodeStart             // top level is not an object or array
	CodeValue             // malformed or unexpected value
	CodeQuote             // malformed quoted string
	CodeKey               // malformed or disallowed object key
	CodeTrunc             // input ended inside a construct
	CodeDepth             // nesting limit exceeded
	CodeArray             // bad separator inside an array
	CodeObject            // bad separator inside an object
	CodeInvalid           // trailing data or oversized input
)

var codeNames = [...]string{
	CodeNone:    "none",
	CodeEmpty:   "empty",
	CodeStart:   "start",
	CodeValue:   "value",
	CodeQuote:   "quote",
	CodeKey:     "key",
	CodeTrunc:   "trunc",
	CodeDepth:   "depth",
	CodeArray:   "array",
	CodeObject:  "object",
	CodeInvalid: "invalid",
}

func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// ParseError describes where and why parsing stopped
type ParseError struct {
	Code    ErrorCode `json:"code"`    // What broke
	Offset  int       `json:"offset"`  // Byte offset of the failure
	Context string    `json:"context"` // Input around the offset
	Message string    `json:"message"` // Human-readable error message
	Err     error     `json:"err"`     // Underlying error
}

func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("JSON parse failed at offset %d (%s): %s near %q", e.Offset, e.Code, e.Message, e.Context)
	}
	return fmt.Sprintf("JSON parse failed at offset %d (%s): %s", e.Offset, e.Code, e.Message)
}

// Unwrap returns the underlying error for error chain support
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches another ParseError with the same code, or the underlying error
func (e *ParseError) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*ParseError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Err, target)
}

// JsonsError represents a failed document operation with essential context
type JsonsError struct {
	Op      string `json:"op"`      // Operation that failed
	Path    string `json:"path"`    // File path or expression involved
	Message string `json:"message"` // Human-readable error message
	Err     error  `json:"err"`     // Underlying error
}

func (e *JsonsError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("JSON %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("JSON %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain support
func (e *JsonsError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling
func (e *JsonsError) Is(target error) bool {
	if target == nil {
		return false
	}

	// Check if target is the same type
	if targetErr, ok := target.(*JsonsError); ok {
		return e.Op == targetErr.Op && e.Err == targetErr.Err
	}

	// Check underlying error
	return errors.Is(e.Err, target)
}

// newOperationError creates a JsonsError for operation failures
func newOperationError(operation, path, message string, err error) error {
	return &JsonsError{
		Op:      operation,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// newSizeLimitError creates a JsonsError for size limit violations
func newSizeLimitError(operation, path string, limit int64) error {
	return &JsonsError{
		Op:      operation,
		Path:    path,
		Message: fmt.Sprintf("input exceeds limit of %d bytes", limit),
		Err:     ErrSizeLimit,
	}
}

// sentinelFor maps a parse error code to the sentinel it wraps
func sentinelFor(code ErrorCode) error {
	switch code {
	case CodeEmpty:
		return ErrEmptyInput
	case CodeDepth:
		return ErrDepthLimit
	}
	return ErrInvalidJSON
}

// causeFor wraps a specific cause together with the code's sentinel, so
// both match with errors.Is
func causeFor(code ErrorCode, cause error) error {
	base := sentinelFor(code)
	if cause == nil {
		return base
	}
	return fmt.Errorf("%w: %w", base, cause)
}
