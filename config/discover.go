package config

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
)

// ConfFileName is the canonical configuration file the extension looks for.
const ConfFileName = "extdb-conf.ini"

// Legacy installs hide the config behind a randomized name; the discovery
// pattern accepts any of them.
var _confPattern = regexp.MustCompile(`extdb-conf.*ini`)

// ErrConfigNotFound means no configuration file exists in the search
// directory. There is no degraded mode; the caller must abort startup.
var ErrConfigNotFound = errors.New("unable to find " + ConfFileName)

// FindConfigFile locates the configuration file in dir. The literal name wins;
// otherwise the first regular file matching the randomized pattern is used and
// randomized reports that the file already carries a randomized name.
func FindConfigFile(dir string) (path string, randomized bool, err error) {
	literal := filepath.Join(dir, ConfFileName)
	if st, serr := os.Stat(literal); serr == nil && st.Mode().IsRegular() {
		return literal, false, nil
	}

	searchDir := dir
	if searchDir == "" {
		searchDir = "."
	}
	entries, rerr := os.ReadDir(searchDir)
	if rerr != nil {
		return "", false, rerr
	}
	for _, ent := range entries {
		if !ent.Type().IsRegular() {
			continue
		}
		if _confPattern.MatchString(ent.Name()) {
			return filepath.Join(dir, ent.Name()), true, nil
		}
	}
	return "", false, ErrConfigNotFound
}

// Uppercase only: the rename exists for game servers whose tooling is
// case-insensitive about filenames.
const _randomChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// RandomizeConfigFile renames dir/extdb-conf.ini to extdb-conf-XXXXXXXX.ini
// with eight random characters, returning the new path. Operators enable this
// once via Main.Randomize Config File; an already-randomized file is never
// renamed again.
func RandomizeConfigFile(dir string) (string, error) {
	name := []byte("extdb-conf-")
	for i := 0; i < 8; i++ {
		name = append(name, _randomChars[rand.IntN(len(_randomChars))])
	}
	name = append(name, ".ini"...)

	target := filepath.Join(dir, string(name))
	if err := os.Rename(filepath.Join(dir, ConfFileName), target); err != nil {
		return "", err
	}
	return target, nil
}
