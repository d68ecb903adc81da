package log

// LogCfg carries the logging configuration of the extension. At startup the
// extension fills it in for a dated file under extDB/logs rotated at 10 MB,
// written asynchronously so the host's calling thread never waits on disk.
// The package default, used before that and when NewLogger gets nil, writes
// to the console only.
type LogCfg struct {
	// LogPath is the target log file. Parent directories are created on
	// demand. The extension sets it to the dated extDB/logs path at startup;
	// an empty path leaves the file appender without a file and its lines are
	// dropped.
	LogPath string `mapstructure:"path"`

	// LogLevel is the minimum severity that reaches the appenders. It maps
	// the config file's Logging.Level names; see ParseLevel.
	LogLevel Level `mapstructure:"level"`

	// FileSplitMB is the rotation threshold in megabytes. The stock build
	// rotates at 10.
	FileSplitMB int `mapstructure:"splitmb"`

	// IsAsync queues lines to a background writer instead of blocking the
	// logging call on file I/O.
	IsAsync bool `mapstructure:"isasync"`

	// AsyncCacheSize bounds the queued lines in async mode. Lines beyond
	// the bound are dropped, never blocked on.
	AsyncCacheSize int `mapstructure:"asynccachesize"`

	// AsyncWriteMillSec is the background flush interval in milliseconds.
	AsyncWriteMillSec int `mapstructure:"asyncwritemillsec"`

	// CallerSkip adjusts the stack depth used to resolve call sites when
	// the logger is wrapped by another layer.
	CallerSkip int `mapstructure:"callerSkip"`

	// FileAppender and ConsoleAppender select the output destinations.
	FileAppender    bool `mapstructure:"fileAppender"`
	ConsoleAppender bool `mapstructure:"consoleAppender"`

	// LevelChange holds per-file or per-line level overrides for targeted
	// debugging of one component without raising the global level.
	LevelChange []LevelChangeEntry `mapstructure:"levelChange"`

	EnabledCallerInfo bool `mapstructure:"enabledCallerInfo"`
}

var _defaultCfg = &LogCfg{
	LogLevel:        InfoLevel,
	FileSplitMB:     10,
	IsAsync:         true,
	CallerSkip:      1,
	FileAppender:    false,
	ConsoleAppender: true,
}

func getDefaultCfg() *LogCfg {
	return _defaultCfg
}
