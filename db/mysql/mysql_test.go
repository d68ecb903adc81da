package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcx/extdb/db"
)

func TestDataSourceName(t *testing.T) {
	dsn, err := connector{}.DataSourceName(db.ConnInfo{
		Kind:     db.KindMySQL,
		Name:     "altis",
		Username: "arma",
		Password: "secret",
		IP:       "127.0.0.1",
		Port:     "3306",
	})
	require.NoError(t, err)
	assert.Equal(t, "arma:secret@tcp(127.0.0.1:3306)/altis", dsn)
}

func TestDataSourceNameCompress(t *testing.T) {
	dsn, err := connector{}.DataSourceName(db.ConnInfo{
		Kind:     db.KindMySQL,
		Name:     "altis",
		Username: "arma",
		Password: "secret",
		IP:       "127.0.0.1",
		Port:     "3306",
		Compress: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "arma:secret@tcp(127.0.0.1:3306)/altis?compress=true", dsn)
}

func TestDataSourceNameMissingHost(t *testing.T) {
	_, err := connector{}.DataSourceName(db.ConnInfo{Kind: db.KindMySQL, Name: "altis"})
	assert.Error(t, err)
}

func TestSupportsProperty(t *testing.T) {
	assert.True(t, connector{}.SupportsProperty("maxRetryAttempts"))
	assert.False(t, connector{}.SupportsProperty("compress"))
}
