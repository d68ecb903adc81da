// Package protocol defines the named handlers the dispatcher routes host
// calls to: the closed kind set, the handler interface, construction, and
// the registry consulted on every non-admin call.
package protocol

import (
	"context"
	"errors"
	"strings"

	"github.com/lcx/extdb/db"
	"github.com/lcx/extdb/log"
)

// Kind identifies one variant of the closed handler set. The spelling is
// wire-observable through the admin ADD command; matching is case-insensitive.
type Kind string

const (
	KindMisc                 Kind = "MISC"
	KindLog                  Kind = "LOG"
	KindDBBasic              Kind = "DB_BASIC"
	KindDBBasicV2            Kind = "DB_BASIC_V2"
	KindDBProcedure          Kind = "DB_PROCEDURE"
	KindDBProcedureV2        Kind = "DB_PROCEDURE_V2"
	KindDBRaw                Kind = "DB_RAW"
	KindDBRawV2              Kind = "DB_RAW_V2"
	KindDBRawNoExtraQuotes   Kind = "DB_RAW_NO_EXTRA_QUOTES"
	KindDBRawNoExtraQuotesV2 Kind = "DB_RAW_NO_EXTRA_QUOTES_V2"
	KindDBCustomV2           Kind = "DB_CUSTOM_V2"
)

var (
	// ErrUnknownKind indicates an ADD with a kind outside the closed set.
	ErrUnknownKind = errors.New("unknown protocol kind")
	// ErrInitFailed indicates a handler whose Init rejected its init data.
	ErrInitFailed = errors.New("protocol init failed")
)

// Host exposes the extension services a handler may use. The extension root
// implements it; tests substitute a stub.
type Host interface {
	// Pool returns the live database session pool, or nil when no DATABASE
	// admin command has run yet. DB_* handlers refuse to initialize without
	// a pool.
	Pool() *db.Pool

	// APIKey returns Main.Steam_WEB_API_KEY from the loaded configuration.
	APIKey() string

	// Logger returns the extension's main logger.
	Logger() log.Logger

	// NamedLogger returns a logger whose lines land in a dedicated file
	// named after its argument under extDB/logs.
	NamedLogger(name string) log.Logger

	// SectionStrings returns the raw key/value pairs of a config section.
	SectionStrings(section string) (map[string]string, error)
}

// Protocol converts a request string into a response payload. Init runs once
// at registration; a false return discards the handler. Call may run on the
// host thread (mode 0) or a worker (modes 1 and 2); implementations must be
// safe for concurrent calls.
type Protocol interface {
	Init(host Host, initData string) bool
	Call(ctx context.Context, data string) (string, error)
}

// _kindMap is the closed construction table. New kinds are added here and
// nowhere else.
var _kindMap = map[Kind]func() Protocol{
	KindMisc:                 func() Protocol { return &miscProtocol{} },
	KindLog:                  func() Protocol { return &logProtocol{} },
	KindDBBasic:              func() Protocol { return &basicProtocol{} },
	KindDBBasicV2:            func() Protocol { return &basicProtocol{} },
	KindDBProcedure:          func() Protocol { return &procedureProtocol{} },
	KindDBProcedureV2:        func() Protocol { return &procedureProtocol{} },
	KindDBRaw:                func() Protocol { return &rawProtocol{quoted: true} },
	KindDBRawV2:              func() Protocol { return &rawProtocol{quoted: true} },
	KindDBRawNoExtraQuotes:   func() Protocol { return &rawProtocol{} },
	KindDBRawNoExtraQuotesV2: func() Protocol { return &rawProtocol{} },
	KindDBCustomV2:           func() Protocol { return &customProtocol{} },
}

// _deprecatedTo maps each deprecated kind to the variant operators should
// migrate to. Registration of a key logs the migration warning.
var _deprecatedTo = map[Kind]Kind{
	KindDBBasic:            KindDBBasicV2,
	KindDBProcedure:        KindDBProcedureV2,
	KindDBRaw:              KindDBRawV2,
	KindDBRawNoExtraQuotes: KindDBRawNoExtraQuotesV2,
}

// ParseKind resolves an operator-supplied kind name against the closed set.
func ParseKind(s string) (Kind, bool) {
	for kind := range _kindMap {
		if strings.EqualFold(s, string(kind)) {
			return kind, true
		}
	}
	return "", false
}

func newProtocol(kind Kind) Protocol {
	return _kindMap[kind]()
}
