package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var (
	mu          sync.Mutex
	verbose     = false
	disableLogs = false
	forceStdErr = false
	colors      = true
	stdout      io.Writer = os.Stdout
	stderr      io.Writer = os.Stderr
	logPrefixes = map[int]string{
		levelDebug: "\033[37m[DBG]\033[0m", // White
		levelInfo:  "\033[36m[INF]\033[0m", // Cyan
		levelWarn:  "\033[33m[WRN]\033[0m", // Yellow
		levelError: "\033[31m[ERR]\033[0m", // Red
	}
	plainPrefixes = map[int]string{
		levelDebug: "[DBG]",
		levelInfo:  "[INF]",
		levelWarn:  "[WRN]",
		levelError: "[ERR]",
	}
)

// SetVerbose sets the logging verbosity. If true, all log levels are displayed.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// DisableLogs disables all logging.
func DisableLogs() {
	mu.Lock()
	disableLogs = true
	mu.Unlock()
}

// EnableLogs re-enables logging after DisableLogs.
func EnableLogs() {
	mu.Lock()
	disableLogs = false
	mu.Unlock()
}

// SetForceStdErr sends every level to the error writer.
func SetForceStdErr(v bool) {
	mu.Lock()
	forceStdErr = v
	mu.Unlock()
}

// SetOutput replaces the writers used for regular and error output.
// Passing a non-terminal writer is usually paired with SetColors(false).
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	stdout = out
	stderr = errOut
	mu.Unlock()
}

// SetColors toggles ANSI colors in level prefixes.
func SetColors(v bool) {
	mu.Lock()
	colors = v
	mu.Unlock()
}

// Debugf logs a debug message if verbose is true.
func Debugf(format string, args ...interface{}) {
	if IsVerbose() {
		logMessage(levelDebug, format, args...)
	}
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	logMessage(levelInfo, format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	logMessage(levelWarn, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	logMessage(levelError, format, args...)
}

// Fatalf logs an error message and exits the program.
func Fatalf(format string, args ...interface{}) {
	logMessage(levelError, format, args...)
	os.Exit(1)
}

// Printf writes an unprefixed line to the regular output. It is used for
// command results that are meant to be read or copied by the operator.
func Printf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if disableLogs {
		return
	}
	_, _ = fmt.Fprintf(stdout, format, args...)
}

// logMessage formats and writes a log message with the specified log level.
func logMessage(level int, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if disableLogs {
		return
	}
	prefix := plainPrefixes[level]
	if colors {
		prefix = logPrefixes[level]
	}
	message := fmt.Sprintf(format, args...)
	output := prefix + " " + message + "\n"

	// Write the output to the appropriate stream
	if forceStdErr || level == levelError {
		_, _ = io.WriteString(stderr, output)
	} else {
		_, _ = io.WriteString(stdout, output)
	}
}
