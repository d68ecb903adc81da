package log

import (
	"path/filepath"
	"sync"
)

// NamedLogger writes to a dedicated log file of its own. It backs the LOG
// protocol: each registered instance owns a file named after its init data
// under extDB/logs. Its lines, warnings and errors included, are not copied
// to the main extension log.
type NamedLogger struct {
	*GameLogger
	name string
	file *FileAppender
}

// NewNamedLogger creates a logger whose lines land in extDB/logs/<name>.log
// (relative to dir), and on stdout as well when the base configuration enables
// the console appender. The base configuration's log file is not attached. The
// named file bypasses level filtering: a protocol that asks for its own log
// gets every line it writes.
func NewNamedLogger(cfg *LogCfg, dir, name string) *NamedLogger {
	if cfg == nil {
		cfg = getDefaultCfg()
	}

	logger := &GameLogger{
		callerSkip:        cfg.CallerSkip,
		levelChange:       newLevelChange(cfg.LevelChange),
		enabledCallerInfo: cfg.EnabledCallerInfo,
	}
	// The named file sees every line regardless of the configured level.
	logger.minLevel.Store(uint32(TraceLevel))

	named := &NamedLogger{
		GameLogger: logger,
		name:       name,
	}

	logger.eventPool = &sync.Pool{
		New: func() any {
			return newEvent(logger)
		},
	}

	if cfg.ConsoleAppender {
		logger.AddAppender(NewConsoleAppender())
	}

	fileCfg := *cfg
	fileCfg.LogPath = filepath.Join(dir, "extDB", "logs", name+".log")
	named.file = NewFileAppender(&fileCfg, named)
	named.AddAppender(named.file)

	return named
}

// Name returns the log name the instance was created with.
func (x *NamedLogger) Name() string {
	return x.name
}

// IgnoreCheckLevel bypasses level filtering so every line a protocol writes
// reaches its named file.
func (x *NamedLogger) IgnoreCheckLevel() bool {
	return true
}

// Close flushes and closes the named file.
func (x *NamedLogger) Close() {
	x.file.Close()
}

func (x *NamedLogger) log(level Level) *LogEvent {
	logEvent := x.GameLogger.log(level)
	if logEvent == nil {
		return nil
	}
	return logEvent.Str("log", x.name)
}

// Trace creates a trace-level event tagged with the log name.
func (x *NamedLogger) Trace() *LogEvent {
	return x.log(TraceLevel)
}

// Debug creates a debug-level event tagged with the log name.
func (x *NamedLogger) Debug() *LogEvent {
	return x.log(DebugLevel)
}

// Info creates an info-level event tagged with the log name.
func (x *NamedLogger) Info() *LogEvent {
	return x.log(InfoLevel)
}

// Notice creates a notice-level event tagged with the log name.
func (x *NamedLogger) Notice() *LogEvent {
	return x.log(NoticeLevel)
}

// Warn creates a warning-level event tagged with the log name.
func (x *NamedLogger) Warn() *LogEvent {
	return x.log(WarnLevel)
}

// Error creates an error-level event tagged with the log name.
func (x *NamedLogger) Error() *LogEvent {
	return x.log(ErrorLevel)
}

// Critical creates a critical-level event tagged with the log name.
func (x *NamedLogger) Critical() *LogEvent {
	return x.log(CriticalLevel)
}

// Fatal creates a fatal-level event tagged with the log name.
func (x *NamedLogger) Fatal() *LogEvent {
	return x.log(FatalLevel)
}
