package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConf = `[Main]
Threads = 4
Steam_WEB_API_KEY = ABCDEF
Randomize Config File = false

[Logging]
Level = trace

[Database]
Type = MySQL
Name = altis
Username = svr
Password = hunter2
IP = 127.0.0.1
Port = 3306
Compress = true
minSessions = 2
maxSessions = 8
idleTime = 60
`

func writeConf(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMainSection(t *testing.T) {
	cm, err := NewConfigManager(writeConf(t, testConf))
	require.NoError(t, err)
	defer cm.Close()

	var main MainCfg
	require.NoError(t, cm.LoadSection("Main", &main))
	assert.Equal(t, 4, main.Threads)
	assert.Equal(t, "ABCDEF", main.SteamAPIKey)
	assert.False(t, main.RandomizeConf)

	got, err := cm.GetSection("Main")
	require.NoError(t, err)
	assert.Same(t, &main, got)
}

func TestLoadLoggingSection(t *testing.T) {
	cm, err := NewConfigManager(writeConf(t, testConf))
	require.NoError(t, err)
	defer cm.Close()

	var logging LoggingCfg
	require.NoError(t, cm.LoadSection("Logging", &logging))
	assert.Equal(t, "trace", logging.Level)
}

func TestMissingSection(t *testing.T) {
	cm, err := NewConfigManager(writeConf(t, testConf))
	require.NoError(t, err)
	defer cm.Close()

	var main MainCfg
	assert.Error(t, cm.LoadSection("NoSuch", &main))

	_, err = cm.GetSection("NoSuch")
	assert.Error(t, err)
}

func TestHasSection(t *testing.T) {
	cm, err := NewConfigManager(writeConf(t, testConf))
	require.NoError(t, err)
	defer cm.Close()

	assert.True(t, cm.HasSection("Database", "Type"))
	assert.False(t, cm.HasSection("Backup", "Type"))
}

func TestSectionStringsAndDBCfg(t *testing.T) {
	cm, err := NewConfigManager(writeConf(t, testConf))
	require.NoError(t, err)
	defer cm.Close()

	raw, err := cm.SectionStrings("Database")
	require.NoError(t, err)

	cfg := DBCfgFromStrings("Database", raw)
	assert.Equal(t, "MySQL", cfg.Type)
	assert.Equal(t, "altis", cfg.Name)
	assert.Equal(t, "svr", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, "127.0.0.1", cfg.IP)
	assert.Equal(t, "3306", cfg.Port)
	assert.True(t, cfg.Compress)
	assert.Equal(t, 2, cfg.MinSessions)
	assert.Equal(t, 8, cfg.MaxSessions)
	assert.Equal(t, 60, cfg.IdleTime)
	require.NoError(t, cfg.Validate())
}

func TestValidatorRejects(t *testing.T) {
	cm, err := NewConfigManager(writeConf(t, testConf))
	require.NoError(t, err)
	defer cm.Close()

	cm.RegisterValidator("Main", func(c Config) error {
		return assert.AnError
	})

	var main MainCfg
	assert.Error(t, cm.LoadSection("Main", &main))
}

func TestDBCfgValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DBCfg
		wantErr bool
	}{
		{"mysql", DBCfg{Section: "D", Type: "MySQL", Name: "x"}, false},
		{"case insensitive", DBCfg{Section: "D", Type: "sqlite", Name: "x"}, false},
		{"unknown engine", DBCfg{Section: "D", Type: "Postgres", Name: "x"}, true},
		{"missing name", DBCfg{Section: "D", Type: "ODBC"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMainCfgValidate(t *testing.T) {
	ok := MainCfg{Threads: 0, RecvRateLimit: 100, RecvRateMode: "funnel"}
	assert.NoError(t, ok.Validate())

	bad := MainCfg{RecvRateLimit: -1}
	assert.Error(t, bad.Validate())

	badMode := MainCfg{RecvRateMode: "bucket"}
	assert.Error(t, badMode.Validate())
}
