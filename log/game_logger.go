package log

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// GameLogger is the concrete logger used throughout the extension. It keeps
// the logging path lock-free: the minimum level is an atomic, events come
// from a sync.Pool, and caller resolution is cached per program counter.
//
// Example:
//
//	logger := NewLogger(&LogCfg{LogLevel: InfoLevel, ConsoleAppender: true})
//	logger.Info().Str("protocol", "misc").Msg("registered")
type GameLogger struct {
	appenders         []LogAppender
	minLevel          atomic.Uint32
	callerSkip        int
	eventPool         *sync.Pool
	levelChange       *levelChange
	callerCache       sync.Map
	enabledCallerInfo bool
}

// NewLogger creates a GameLogger from cfg, falling back to defaults when cfg
// is nil. Appenders are attached according to the configuration.
func NewLogger(cfg *LogCfg) *GameLogger {
	if cfg == nil {
		cfg = getDefaultCfg()
	}

	logger := &GameLogger{
		callerSkip:        cfg.CallerSkip,
		levelChange:       newLevelChange(cfg.LevelChange),
		enabledCallerInfo: cfg.EnabledCallerInfo,
	}
	logger.minLevel.Store(uint32(cfg.LogLevel))

	logger.eventPool = &sync.Pool{
		New: func() any {
			return newEvent(logger)
		},
	}

	if cfg.FileAppender {
		logger.AddAppender(NewFileAppender(cfg, logger))
	}
	if cfg.ConsoleAppender {
		logger.AddAppender(NewConsoleAppender())
	}

	return logger
}

// SetLevel changes the minimum level at runtime. Safe to call while other
// goroutines log; used by the config watcher when Logging.Level changes.
func (x *GameLogger) SetLevel(level Level) {
	x.minLevel.Store(uint32(level))
}

// GetLevel returns the current minimum level.
func (x *GameLogger) GetLevel() Level {
	return Level(x.minLevel.Load())
}

func (x *GameLogger) checkLevel(level Level) bool {
	return Level(x.minLevel.Load()) <= level
}

// AddAppender attaches another output destination. Not safe to call
// concurrently with logging; wire appenders up before the logger is shared.
func (x *GameLogger) AddAppender(appender LogAppender) {
	x.appenders = append(x.appenders, appender)
}

// GetAppender returns the registered appenders.
func (x *GameLogger) GetAppender() []LogAppender {
	return x.appenders
}

// Refresh flushes every appender. Called at shutdown and after rotation
// relevant configuration changes.
func (x *GameLogger) Refresh() {
	for _, appender := range x.appenders {
		appender.Refresh()
	}
}

// IgnoreCheckLevel reports whether level filtering is bypassed. The base
// logger always filters.
func (x *GameLogger) IgnoreCheckLevel() bool {
	return false
}

func (x *GameLogger) newEvent() *LogEvent {
	e := x.eventPool.Get().(*LogEvent)
	e.Reset()
	return e
}

// OnEventEnd delivers a finished event to every appender and recycles it.
// Fatal events panic after delivery so the failure is not silently swallowed.
func (x *GameLogger) OnEventEnd(e *LogEvent) {
	for _, appender := range x.appenders {
		appender.Write(e.buf.Bytes())
	}

	if e.level == FatalLevel {
		panic(e.buf.String())
	}

	x.eventPool.Put(e)
}

// Trace creates a trace-level event, or nil when filtered.
func (x *GameLogger) Trace() *LogEvent {
	return x.log(TraceLevel)
}

// Debug creates a debug-level event, or nil when filtered.
func (x *GameLogger) Debug() *LogEvent {
	return x.log(DebugLevel)
}

// Info creates an info-level event, or nil when filtered.
func (x *GameLogger) Info() *LogEvent {
	return x.log(InfoLevel)
}

// Notice creates a notice-level event, or nil when filtered.
func (x *GameLogger) Notice() *LogEvent {
	return x.log(NoticeLevel)
}

// Warn creates a warning-level event, or nil when filtered.
func (x *GameLogger) Warn() *LogEvent {
	return x.log(WarnLevel)
}

// Error creates an error-level event, or nil when filtered.
func (x *GameLogger) Error() *LogEvent {
	return x.log(ErrorLevel)
}

// Critical creates a critical-level event, or nil when filtered.
func (x *GameLogger) Critical() *LogEvent {
	return x.log(CriticalLevel)
}

// Fatal creates a fatal-level event. The event panics once its Msg is
// written.
func (x *GameLogger) Fatal() *LogEvent {
	return x.log(FatalLevel)
}

// getCallerInfo resolves the file, function and line of the logging call
// site, caching the result per program counter.
func (x *GameLogger) getCallerInfo() *callerInfo {
	pc, file, line, ok := runtime.Caller(3 + x.callerSkip)
	if !ok {
		return _UnknownCallerInfo
	}

	if cached, found := x.callerCache.Load(pc); found {
		return cached.(*callerInfo)
	}

	funcName := runtime.FuncForPC(pc).Name()
	var function string
	if dotIdx := strings.LastIndexByte(funcName, '.'); dotIdx != -1 {
		function = funcName[dotIdx+1:]
	} else {
		function = funcName
	}

	// Trim the file path to its last two segments.
	if len(file) > 0 {
		lastSlash := strings.LastIndexByte(file, '/')
		if lastSlash > 0 {
			secondLastSlash := strings.LastIndexByte(file[:lastSlash], '/')
			if secondLastSlash >= 0 {
				file = file[secondLastSlash+1:]
			}
		}
	}

	c := newCallerInfo(file, function, line)
	x.callerCache.Store(pc, c)
	return c
}

// log stamps a new event with time, level and (optionally) caller, applying
// per-file level overrides when the global level would have filtered it.
func (x *GameLogger) log(level Level) *LogEvent {
	var info *callerInfo
	if !x.IgnoreCheckLevel() {
		if !x.checkLevel(level) {
			if x.levelChange.Empty() {
				return nil
			}
			info = x.getCallerInfo()
			if level < x.levelChange.GetLevel(info.file, info.line, x.GetLevel()) {
				return nil
			}
		}
	}

	e := x.newEvent()
	e.level = level

	t := time.Now()
	e.Time("time", &t)
	e.Str("level", level.String())

	if x.enabledCallerInfo {
		if info == nil {
			info = x.getCallerInfo()
		}
		e.Str("caller", info.String())
	}

	return e
}
