// Package sqlite provides the SQLite connector for the session pool, backed
// by the pure-Go modernc driver.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/lcx/extdb/db"
)

func init() {
	db.RegisterConnector(connector{})
}

type connector struct{}

// Kind returns the engine kind this connector serves.
func (connector) Kind() db.Kind { return db.KindSQLite }

// DriverName returns the database/sql driver identifier.
func (connector) DriverName() string { return "sqlite" }

// DataSourceName returns the database file path extDB/sqlite/<name>, creating
// the directory when it does not exist yet.
func (connector) DataSourceName(info db.ConnInfo) (string, error) {
	path := info.SQLitePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("sqlite: create %s: %w", filepath.Dir(path), err)
	}
	return path, nil
}

// SupportsProperty reports the session tunables SQLite sessions accept.
func (connector) SupportsProperty(string) bool { return false }
