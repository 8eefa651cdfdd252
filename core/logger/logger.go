package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"sync"
	"time"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ColoredLogger writes leveled lines to a console writer and, optionally, a
// plain-text sink with color codes stripped.
type ColoredLogger struct {
	verbose bool
	mu      sync.RWMutex
	console map[LogLevel]*log.Logger
	sink    io.Writer
	closer  io.Closer
}

var globalLogger *ColoredLogger

func init() {
	globalLogger = newColoredLogger()
}

func newColoredLogger() *ColoredLogger {
	cl := &ColoredLogger{
		console: make(map[LogLevel]*log.Logger),
	}
	for level := DEBUG; level <= FATAL; level++ {
		cl.console[level] = log.New(defaultWriter(level), "", 0)
	}
	return cl
}

// Warnings and errors go to stderr so they never mix into piped output.
func defaultWriter(level LogLevel) io.Writer {
	if level >= WARN {
		return os.Stderr
	}
	return os.Stdout
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

func IsVerbose() bool {
	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	return globalLogger.verbose
}

func SetWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.console[level] = log.New(writer, "", 0)
}

func SetWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.console[level] = log.New(writer, "", 0)
	}
}

// Reset restores the default console writers and drops any log file sink.
func Reset() {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	if globalLogger.closer != nil {
		globalLogger.closer.Close()
	}
	verbose := globalLogger.verbose
	fresh := newColoredLogger()
	globalLogger.console = fresh.console
	globalLogger.sink = nil
	globalLogger.closer = nil
	globalLogger.verbose = verbose
}

// SetLogFile appends every log line, uncolored, to the file at path. An empty
// path is a no-op.
func SetLogFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	if globalLogger.closer != nil {
		globalLogger.closer.Close()
	}
	globalLogger.sink = f
	globalLogger.closer = f
	return nil
}

// Close flushes and releases the log file sink, if one is set.
func Close() error {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	if globalLogger.closer == nil {
		return nil
	}
	err := globalLogger.closer.Close()
	globalLogger.sink = nil
	globalLogger.closer = nil
	return err
}

func (cl *ColoredLogger) getColor(level LogLevel) string {
	switch level {
	case DEBUG:
		return ColorGray
	case INFO:
		return ColorBlue
	case WARN:
		return ColorYellow
	case ERROR:
		return ColorRed
	case FATAL:
		return ColorPurple
	default:
		return ColorWhite
	}
}

func (cl *ColoredLogger) formatMessage(level LogLevel, message string, now time.Time) string {
	timestamp := now.Format("06-01-02 15:04:05")

	return fmt.Sprintf(
		"%s[%s%s%s]%s %s%-5s%s %s%s",
		ColorGray, ColorGray, timestamp, ColorGray, ColorReset,
		cl.getColor(level), level.String(), ColorReset,
		message, ColorReset,
	)
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	cl.mu.RLock()
	if level == DEBUG && !cl.verbose {
		cl.mu.RUnlock()
		return
	}
	console := cl.console[level]
	sink := cl.sink
	cl.mu.RUnlock()

	message := fmt.Sprintf(format, args...)
	formatted := cl.formatMessage(level, message, time.Now())

	console.Println(formatted)
	if sink != nil {
		fmt.Fprintln(sink, ansiPattern.ReplaceAllString(formatted, ""))
	}

	if level == FATAL {
		os.Exit(1)
	}
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, format, args...)
	}
}
