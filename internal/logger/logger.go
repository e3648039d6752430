// Package logger is the verbose trace for scidata: page requests,
// skipped records and index writes go to stderr when --verbose is set.
// Error lines are written regardless.
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
	output  io.Writer = os.Stderr
)

// SetVerbose turns the gated levels on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether the gated levels are on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects every level to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes one line; gated lines are dropped unless verbose is on.
func emit(gated bool, prefix, format string, args []any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

func Debug(format string, args ...any) { emit(true, "[DEBUG] ", format, args) }

func Info(format string, args ...any) { emit(true, "[INFO] ", format, args) }

func Warn(format string, args ...any) { emit(true, "[WARN] ", format, args) }

// Error is never gated.
func Error(format string, args ...any) { emit(false, "[ERROR] ", format, args) }

// Section starts a named block of verbose output, e.g. one source's fetch.
func Section(name string) {
	emit(true, "\n=== ", "%s ===", []any{name})
}
