// Package log implements the structured, fluent logger shared by every part
// of the extension. Events are built field by field and delivered to pluggable
// appenders; the file appender writes the dated extDB/logs layout the stock
// distribution uses.
package log

// Logger is the event-producing interface. Both the package-level default
// and named per-protocol loggers satisfy it.
type Logger interface {
	Trace() *LogEvent
	Debug() *LogEvent
	Info() *LogEvent
	Notice() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	Critical() *LogEvent
	Fatal() *LogEvent
	IgnoreCheckLevel() bool
	GetAppender() []LogAppender
	AddAppender(appender LogAppender)
	OnEventEnd(e *LogEvent)
}

var _defaultLogger *GameLogger

func init() {
	_defaultLogger = NewLogger(nil)
}

// AddAppender adds a new log appender to the default logger.
func AddAppender(appender LogAppender) {
	_defaultLogger.AddAppender(appender)
}

// Refresh flushes all appenders of the default logger.
func Refresh() {
	_defaultLogger.Refresh()
}

// SetDefaultLogger replaces the default logger with a custom instance.
func SetDefaultLogger(logger *GameLogger) {
	_defaultLogger = logger
}

// Default returns the process-wide default logger.
func Default() *GameLogger {
	return _defaultLogger
}

// SetLevel changes the default logger's minimum level at runtime.
func SetLevel(level Level) {
	_defaultLogger.SetLevel(level)
}

// Trace creates a trace-level event on the default logger.
func Trace() *LogEvent {
	return _defaultLogger.Trace()
}

// Debug creates a debug-level event on the default logger.
func Debug() *LogEvent {
	return _defaultLogger.Debug()
}

// Info creates an info-level event on the default logger.
func Info() *LogEvent {
	return _defaultLogger.Info()
}

// Notice creates a notice-level event on the default logger.
func Notice() *LogEvent {
	return _defaultLogger.Notice()
}

// Warn creates a warning-level event on the default logger.
func Warn() *LogEvent {
	return _defaultLogger.Warn()
}

// Error creates an error-level event on the default logger.
func Error() *LogEvent {
	return _defaultLogger.Error()
}

// Critical creates a critical-level event on the default logger.
func Critical() *LogEvent {
	return _defaultLogger.Critical()
}

// Fatal creates a fatal-level event on the default logger.
func Fatal() *LogEvent {
	return _defaultLogger.Fatal()
}
