// Package db implements the bounded database session pool behind the DB_*
// protocols. One pool of a single engine kind is live at a time; sessions are
// checked out per statement and returned when the holder releases them.
package db

import (
	"errors"
	"strings"
	"sync"
)

// Kind identifies a supported database engine.
type Kind string

const (
	KindMySQL  Kind = "MySQL"
	KindODBC   Kind = "ODBC"
	KindSQLite Kind = "SQLite"
)

var ( //nolint:gochecknoglobals // exported error values are shared across packages.
	// ErrUnknownKind indicates a database type outside the supported set.
	ErrUnknownKind = errors.New("unknown database type")
	// ErrNoConnector indicates the connector for a kind was never registered
	// or has been unregistered at shutdown.
	ErrNoConnector = errors.New("connector not registered")
	// ErrNotSupported indicates a session property the engine does not accept.
	ErrNotSupported = errors.New("property not supported")
	// ErrPoolClosed indicates an acquire on a pool that has been shut down.
	ErrPoolClosed = errors.New("session pool closed")
)

// ParseKind maps an operator-supplied type name onto a Kind. Matching is
// case-insensitive; the returned Kind carries canonical spelling.
func ParseKind(s string) (Kind, error) {
	switch {
	case strings.EqualFold(s, string(KindMySQL)):
		return KindMySQL, nil
	case strings.EqualFold(s, string(KindODBC)):
		return KindODBC, nil
	case strings.EqualFold(s, string(KindSQLite)):
		return KindSQLite, nil
	default:
		return "", ErrUnknownKind
	}
}

// Connector adapts one engine to the pool: it names the database/sql driver
// and renders the driver's data source string from the shared ConnInfo. The
// engine subpackages register themselves in their init functions.
type Connector interface {
	// Kind returns the engine this connector serves.
	Kind() Kind

	// DriverName returns the database/sql driver identifier to open with.
	DriverName() string

	// DataSourceName renders the driver-specific DSN for info. SQLite
	// implementations create the database directory here.
	DataSourceName(info ConnInfo) (string, error)

	// SupportsProperty reports whether SetProperty accepts name on sessions
	// of this engine.
	SupportsProperty(name string) bool
}

var (
	_connectorMap  = make(map[Kind]Connector)
	_connectorLock sync.RWMutex
)

// RegisterConnector makes a connector available to pools of its kind.
// Called from the engine subpackages' init functions.
func RegisterConnector(c Connector) {
	_connectorLock.Lock()
	defer _connectorLock.Unlock()
	_connectorMap[c.Kind()] = c
}

// UnregisterConnector removes the connector for kind. The extension calls
// this at shutdown for whichever engine was in use.
func UnregisterConnector(kind Kind) {
	_connectorLock.Lock()
	defer _connectorLock.Unlock()
	delete(_connectorMap, kind)
}

func getConnector(kind Kind) (Connector, error) {
	_connectorLock.RLock()
	defer _connectorLock.RUnlock()
	c, ok := _connectorMap[kind]
	if !ok {
		return nil, ErrNoConnector
	}
	return c, nil
}
