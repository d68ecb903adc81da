// Package odbc provides the ODBC connector for the session pool.
package odbc

import (
	"fmt"

	_ "github.com/alexbrainman/odbc" // registers the "odbc" database/sql driver

	"github.com/lcx/extdb/db"
)

func init() {
	db.RegisterConnector(connector{})
}

type connector struct{}

// Kind returns the engine kind this connector serves.
func (connector) Kind() db.Kind { return db.KindODBC }

// DriverName returns the database/sql driver identifier.
func (connector) DriverName() string { return "odbc" }

// DataSourceName renders an ODBC connection string. The section's Name is
// the data source name registered with the host's ODBC manager; Server and
// Port are passed through when the operator configured them.
func (connector) DataSourceName(info db.ConnInfo) (string, error) {
	if info.Name == "" {
		return "", fmt.Errorf("odbc: missing data source name")
	}
	dsn := fmt.Sprintf("DSN=%s;UID=%s;PWD=%s", info.Name, info.Username, info.Password)
	if info.IP != "" {
		dsn += ";Server=" + info.IP
	}
	if info.Port != "" {
		dsn += ";Port=" + info.Port
	}
	return dsn, nil
}

// SupportsProperty reports the session tunables ODBC sessions accept.
func (connector) SupportsProperty(string) bool { return false }
