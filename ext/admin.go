package ext

import (
	"errors"

	"github.com/lcx/extdb/codec"
	"github.com/lcx/extdb/config"
	"github.com/lcx/extdb/db"
	"github.com/lcx/extdb/log"
	"github.com/lcx/extdb/protocol"
)

// admin handles mode 9. Commands are keyed by token count, matching the wire
// contract: 2 tokens select VERSION or LOCK, 3 initialize the database pool
// from the named config section, 4 and 5 register a protocol. Once LOCK has
// latched, every admin call is a silent no-op.
func (e *Extension) admin(input string) string {
	if e.locked.Load() {
		return ""
	}

	tokens := codec.Tokenize(input)
	switch len(tokens) {
	case 2:
		switch tokens[1] {
		case "VERSION":
			return Version
		case "LOCK":
			e.locked.Store(true)
			log.Info().Msg("admin channel locked")
			return ""
		default:
			// Unrecognized two-token commands answer nothing.
			return ""
		}
	case 3:
		return e.connectDatabase(tokens[2])
	case 4:
		return e.addProtocol(tokens[2], tokens[3], "")
	case 5:
		return e.addProtocol(tokens[2], tokens[3], tokens[4])
	default:
		return e.fail(codec.MsgInvalidFormat)
	}
}

// addProtocol registers a handler through the registry and converts its
// sentinel errors to the fixed wire messages.
func (e *Extension) addProtocol(kind, name, initData string) string {
	err := e.registry.Add(kind, name, initData)
	switch {
	case err == nil:
		log.Info().Str("kind", kind).Str("name", name).Msg("protocol registered")
		return codec.OK()
	case errors.Is(err, protocol.ErrUnknownKind):
		return e.fail(codec.MsgUnknownProtocol)
	case errors.Is(err, protocol.ErrInitFailed):
		return e.fail(codec.MsgFailedToLoad)
	default:
		log.Error().Err(err).Str("kind", kind).Str("name", name).Msg("protocol registration failed")
		return e.fail(codec.MsgInvalidMessage)
	}
}

// connectDatabase opens the session pool described by the named config
// section and installs it as the extension's database. A maxSessions at or
// below zero defaults to the worker-pool size.
func (e *Extension) connectDatabase(section string) string {
	raw, err := e.cfg.SectionStrings(section)
	if err != nil {
		return e.fail(codec.MsgNoConfigOption)
	}

	dbCfg := config.DBCfgFromStrings(section, raw)
	kind, err := db.ParseKind(dbCfg.Type)
	if err != nil {
		return e.fail(codec.MsgUnknownDBType)
	}

	maxSessions := dbCfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = e.workers.Size()
	}

	pool, err := db.NewPool(db.PoolConfig{
		Info: db.ConnInfo{
			Kind:     kind,
			Name:     dbCfg.Name,
			Username: dbCfg.Username,
			Password: dbCfg.Password,
			IP:       dbCfg.IP,
			Port:     dbCfg.Port,
			Compress: dbCfg.Compress,
			BaseDir:  e.dir,
		},
		MinSessions: dbCfg.MinSessions,
		MaxSessions: maxSessions,
		IdleTime:    dbCfg.IdleTime,
	})
	if err != nil {
		log.Error().Err(err).Str("section", section).Msg("session pool startup failed")
		return e.fail(codec.MsgSessionPoolFailed)
	}

	if old := e.pool.Swap(pool); old != nil {
		if err := old.Close(); err != nil {
			log.Warn().Err(err).Msg("previous session pool close failed")
		}
	}
	log.Info().Str("section", section).Str("type", string(kind)).Msg("database connected")
	return codec.OK()
}
