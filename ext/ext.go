// Package ext wires the extension together: the root object the host talks
// to, the dispatcher state machine behind every call, the admin channel, and
// startup/shutdown. One Extension lives per host process.
package ext

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lcx/extdb/config"
	"github.com/lcx/extdb/db"
	_ "github.com/lcx/extdb/db/mysql"  // register the MySQL connector
	_ "github.com/lcx/extdb/db/odbc"   // register the ODBC connector
	_ "github.com/lcx/extdb/db/sqlite" // register the SQLite connector
	"github.com/lcx/extdb/log"
	"github.com/lcx/extdb/protocol"
	"github.com/lcx/extdb/result"
	"github.com/lcx/extdb/uniqueid"
	"github.com/lcx/extdb/worker"
)

// Version is the protocol version answered to 9:VERSION, returned bare
// without an envelope.
const Version = "16"

// Options configures extension startup.
type Options struct {
	// Dir is the working directory holding extdb-conf.ini and the extDB
	// tree (logs, sqlite databases). Empty means the process working
	// directory.
	Dir string
}

// Extension is the root object. It owns the registry, the result store, the
// worker pool and the database pool, and implements protocol.Host for the
// handlers it runs.
type Extension struct {
	dir    string
	cfg    config.ConfigManager
	main   *config.MainCfg
	logCfg *log.LogCfg

	registry *protocol.Registry
	store    *result.Store
	ids      *uniqueid.Allocator
	workers  *worker.Pool

	pool    atomic.Pointer[db.Pool]
	locked  atomic.Bool
	stopped atomic.Bool

	limiter recvLimiter

	namedMu sync.Mutex
	named   map[string]*log.NamedLogger
}

// New builds and starts the extension: config discovery, logger, worker pool,
// optional config file randomization. A missing config file is fatal; the
// extension has no degraded mode without one.
func New(opts Options) (*Extension, error) {
	path, randomized, err := config.FindConfigFile(opts.Dir)
	if err != nil {
		log.Critical().Str("dir", opts.Dir).Msg("Unable to find " + config.ConfFileName)
		return nil, fmt.Errorf("find config: %w", err)
	}

	cm, err := config.NewConfigManager(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	e := &Extension{
		dir:   opts.Dir,
		cfg:   cm,
		main:  &config.MainCfg{},
		store: result.NewStore(),
		ids:   uniqueid.NewAllocator(),
		named: make(map[string]*log.NamedLogger),
	}
	e.registry = protocol.NewRegistry(e)

	if err := cm.LoadSection("Main", e.main); err != nil {
		log.Warn().Err(err).Msg("no usable Main section, using defaults")
	}

	if e.main.RandomizeConf && !randomized {
		if err := e.randomizeConfig(); err != nil {
			log.Warn().Err(err).Msg("config file randomization failed")
		}
	}

	e.openLogger()
	e.workers = worker.New(e.main.Threads)
	e.limiter = newRecvLimiter(e.main)
	e.registerHooks()

	log.Info().
		Str("version", Version).
		Str("config", e.cfg.Path()).
		Int("workers", e.workers.Size()).
		Msg("extension started")
	return e, nil
}

// randomizeConfig renames the config file to its obfuscated form and reopens
// the manager on the new name.
func (e *Extension) randomizeConfig() error {
	if err := e.cfg.Close(); err != nil {
		return err
	}
	target, err := config.RandomizeConfigFile(e.dir)
	if err != nil {
		return err
	}
	cm, err := config.NewConfigManager(target)
	if err != nil {
		return err
	}
	e.cfg = cm
	return cm.LoadSection("Main", e.main)
}

// openLogger builds the dated main log file and applies Logging.Level. An
// unknown level name falls back to information with a warning.
func (e *Extension) openLogger() {
	logging := &config.LoggingCfg{}
	if err := e.cfg.LoadSection("Logging", logging); err != nil {
		log.Warn().Err(err).Msg("no usable Logging section, using defaults")
	}

	level, known := log.ParseLevel(logging.Level)
	e.logCfg = &log.LogCfg{
		LogPath:      log.TimestampedLogPath(e.dir, time.Now()),
		LogLevel:     level,
		FileSplitMB:  10,
		IsAsync:      true,
		FileAppender: true,
	}
	log.SetDefaultLogger(log.NewLogger(e.logCfg))

	if !known && logging.Level != "" {
		log.Warn().Str("level", logging.Level).Msg("unknown Logging.Level, using information")
	}
}

// registerHooks wires the hot-reload reactions: Logging.Level adjusts the
// live logger, Main rate-limit keys retune the receive limiter.
func (e *Extension) registerHooks() {
	e.cfg.RegisterHook("Logging", func(_, newVal config.Config) error {
		logging := newVal.(*config.LoggingCfg)
		level, known := log.ParseLevel(logging.Level)
		if !known && logging.Level != "" {
			log.Warn().Str("level", logging.Level).Msg("unknown Logging.Level, using information")
		}
		log.SetLevel(level)
		return nil
	})
	e.cfg.RegisterHook("Main", func(_, newVal config.Config) error {
		main := newVal.(*config.MainCfg)
		reloadRecvLimiter(e.limiter, main)
		return nil
	})
}

// Pool implements protocol.Host. Nil until a DATABASE admin command ran.
func (e *Extension) Pool() *db.Pool {
	return e.pool.Load()
}

// APIKey implements protocol.Host.
func (e *Extension) APIKey() string {
	return e.main.SteamAPIKey
}

// Logger implements protocol.Host.
func (e *Extension) Logger() log.Logger {
	return log.Default()
}

// NamedLogger implements protocol.Host. Instances are shared per name so two
// LOG protocols with the same init data append to the same file. Names that
// would escape the log directory are refused.
func (e *Extension) NamedLogger(name string) log.Logger {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil
	}

	e.namedMu.Lock()
	defer e.namedMu.Unlock()
	if l, ok := e.named[name]; ok {
		return l
	}
	l := log.NewNamedLogger(e.logCfg, e.dir, name)
	e.named[name] = l
	return l
}

// SectionStrings implements protocol.Host.
func (e *Extension) SectionStrings(section string) (map[string]string, error) {
	return e.cfg.SectionStrings(section)
}

// Workers exposes the worker pool size for callers sizing related resources.
func (e *Extension) Workers() int {
	return e.workers.Size()
}

// Stop drains the workers, clears the registry, tears the database pool down
// and flushes the logger. Stopping twice is safe.
func (e *Extension) Stop() {
	if e.stopped.Swap(true) {
		return
	}
	log.Info().Msg("Stopping Please Wait...")

	e.workers.Stop()
	e.registry.Clear()

	if pool := e.pool.Swap(nil); pool != nil {
		if err := pool.Close(); err != nil {
			log.Warn().Err(err).Msg("session pool close failed")
		}
		db.UnregisterConnector(pool.Kind())
	}

	e.namedMu.Lock()
	for _, l := range e.named {
		l.Close()
	}
	e.named = make(map[string]*log.NamedLogger)
	e.namedMu.Unlock()

	if err := e.cfg.Close(); err != nil {
		log.Warn().Err(err).Msg("config manager close failed")
	}

	log.Info().Msg("Stopped")
	log.Refresh()
}

// CallExtension is the buffer-writing form of Call used at the host boundary:
// it writes the NUL-terminated response into out, never exceeding len(out)-1
// response bytes, and reports the response length.
func (e *Extension) CallExtension(out []byte, input string) int {
	if len(out) == 0 {
		return 0
	}
	resp := e.Call(input, len(out))
	if len(resp) > len(out)-1 {
		resp = resp[:len(out)-1]
	}
	n := copy(out, resp)
	out[n] = 0
	return n
}
