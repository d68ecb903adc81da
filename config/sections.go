package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// MainCfg mirrors the [Main] section.
type MainCfg struct {
	Threads       int    `mapstructure:"threads"`
	SteamAPIKey   string `mapstructure:"steam_web_api_key"`
	RandomizeConf bool   `mapstructure:"randomize config file"`
	RecvRateLimit int    `mapstructure:"recvratelimit"`
	RecvRateMode  string `mapstructure:"recvratemode"`
}

// GetName implements the Config interface.
func (c *MainCfg) GetName() string { return "Main" }

// Validate implements the Config interface. A zero or negative thread count
// is legal and means "use hardware concurrency".
func (c *MainCfg) Validate() error {
	if c.RecvRateLimit < 0 {
		return fmt.Errorf("RecvRateLimit must not be negative, got %d", c.RecvRateLimit)
	}
	switch strings.ToLower(c.RecvRateMode) {
	case "", "token", "funnel":
	default:
		return fmt.Errorf("RecvRateMode must be token or funnel, got %q", c.RecvRateMode)
	}
	return nil
}

// LoggingCfg mirrors the [Logging] section.
type LoggingCfg struct {
	Level string `mapstructure:"level"`
}

// GetName implements the Config interface.
func (c *LoggingCfg) GetName() string { return "Logging" }

// Validate implements the Config interface. Unknown level names are not an
// error; the logger falls back to information with a warning.
func (c *LoggingCfg) Validate() error { return nil }

// DBCfg mirrors a named database section. The section name is chosen by the
// operator and referenced by the 9:DATABASE admin command.
type DBCfg struct {
	Section     string
	Type        string
	Name        string
	Username    string
	Password    string
	IP          string
	Port        string
	Compress    bool
	MinSessions int
	MaxSessions int
	IdleTime    int
}

// GetName implements the Config interface.
func (c *DBCfg) GetName() string { return c.Section }

var _knownDBTypes = map[string]struct{}{
	"mysql":  {},
	"odbc":   {},
	"sqlite": {},
}

// ErrUnknownDBType reports a Type value outside the supported engine set.
var ErrUnknownDBType = errors.New("unknown database type")

// Validate implements the Config interface.
func (c *DBCfg) Validate() error {
	if _, ok := _knownDBTypes[strings.ToLower(c.Type)]; !ok {
		return fmt.Errorf("%w: %q in section %s", ErrUnknownDBType, c.Type, c.Section)
	}
	if c.Name == "" {
		return fmt.Errorf("section %s has no Name", c.Section)
	}
	return nil
}

// DBCfgFromStrings builds a DBCfg out of the raw key/value pairs of an INI
// section. INI values arrive as text; cast tolerates the usual operator
// spellings ("1"/"true"/"TRUE") for the numeric and boolean knobs.
func DBCfgFromStrings(section string, raw map[string]string) *DBCfg {
	get := func(key string) string { return raw[strings.ToLower(key)] }
	return &DBCfg{
		Section:     section,
		Type:        get("Type"),
		Name:        get("Name"),
		Username:    get("Username"),
		Password:    get("Password"),
		IP:          get("IP"),
		Port:        get("Port"),
		Compress:    cast.ToBool(get("Compress")),
		MinSessions: cast.ToInt(get("minSessions")),
		MaxSessions: cast.ToInt(get("maxSessions")),
		IdleTime:    cast.ToInt(get("idleTime")),
	}
}
