// Package mysql provides the MySQL connector for the session pool.
package mysql

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql" // registers the "mysql" database/sql driver

	"github.com/lcx/extdb/db"
)

func init() {
	db.RegisterConnector(connector{})
}

type connector struct{}

// Kind returns the engine kind this connector serves.
func (connector) Kind() db.Kind { return db.KindMySQL }

// DriverName returns the database/sql driver identifier.
func (connector) DriverName() string { return "mysql" }

// DataSourceName renders the go-sql-driver DSN from the shared connection
// settings.
func (connector) DataSourceName(info db.ConnInfo) (string, error) {
	if info.IP == "" || info.Port == "" {
		return "", fmt.Errorf("mysql: missing host or port for %s", info.Name)
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", info.Username, info.Password, info.IP, info.Port, info.Name)
	if info.Compress {
		dsn += "?compress=true"
	}
	return dsn, nil
}

// SupportsProperty reports the session tunables MySQL sessions accept.
func (connector) SupportsProperty(name string) bool {
	return name == "maxRetryAttempts"
}
