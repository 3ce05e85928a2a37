// Package logger prints pipeline progress for paperrank. Debug and
// Info lines appear only in verbose mode; Warn and Error always
// print. Everything goes to stderr so command output on stdout stays
// parseable.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	out     io.Writer = os.Stderr
)

// SetVerbose enables or disables debug and info output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose output is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr; tests point
// it at a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Debug prints a debug line in verbose mode.
func Debug(format string, args ...any) {
	write(true, "[DEBUG] ", format, args)
}

// Info prints a progress line in verbose mode.
func Info(format string, args ...any) {
	write(true, "[INFO] ", format, args)
}

// Warn prints a warning regardless of verbose mode.
func Warn(format string, args ...any) {
	write(false, "[WARN] ", format, args)
}

// Error prints an error line regardless of verbose mode.
func Error(format string, args ...any) {
	write(false, "[ERROR] ", format, args)
}

func write(gated bool, prefix, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(out, prefix+format+"\n", args...)
}
