package jsondoc

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var pkgLogger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	pkgLogger.Store(&nop)
}

// SetLogger installs the logger used for parse failures and file and batch
// operations. The default discards everything.
func SetLogger(l zerolog.Logger) {
	pkgLogger.Store(&l)
}

// Logger returns the package logger
func Logger() *zerolog.Logger {
	return pkgLogger.Load()
}

// logParseFailure records a parse failure at debug level
func logParseFailure(err *ParseError, inputLen int) {
	l := Logger()
	if l.GetLevel() > zerolog.DebugLevel {
		return
	}
	l.Debug().
		Str("code", err.Code.String()).
		Int("offset", err.Offset).
		Int("input_len", inputLen).
		Str("context", sanitizeContext(err.Context)).
		Msg("JSON parse failed")
}

// logOperationError records a failed file or batch operation
func logOperationError(operation, path string, err error) {
	Logger().Error().
		Str("operation", operation).
		Str("path", truncateString(path, 200)).
		Str("error", sanitizeError(err)).
		Msg("JSON operation failed")
}

// sanitizeContext replaces control bytes so a snippet stays on one log line
func sanitizeContext(s string) string {
	b := []byte(truncateString(s, 64))
	for i, c := range b {
		if c < 0x20 || c == 0x7f {
			b[i] = '.'
		}
	}
	return string(b)
}

// sanitizeError keeps error messages to a bounded length
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	errMsg := err.Error()
	if len(errMsg) > 200 {
		return truncateString(errMsg, 200)
	}
	return errMsg
}

// truncateString efficiently truncates a string with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
