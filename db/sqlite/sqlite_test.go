package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcx/extdb/db"
)

func TestDataSourceNameCreatesDirectory(t *testing.T) {
	base := t.TempDir()
	dsn, err := connector{}.DataSourceName(db.ConnInfo{
		Kind:    db.KindSQLite,
		Name:    "altis.db",
		BaseDir: base,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "extDB", "sqlite", "altis.db"), dsn)

	fi, err := os.Stat(filepath.Join(base, "extDB", "sqlite"))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}
