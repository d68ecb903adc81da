package log

// LevelChangeEntry overrides the effective log level for one file, or for one
// line of one file when Line is non-zero. Entries let operators raise the
// verbosity of a single component in production without touching the global
// level.
type LevelChangeEntry struct {
	File  string `mapstructure:"file"`
	Line  int    `mapstructure:"line"`
	Level Level  `mapstructure:"level"`
}

// levelChange indexes override entries for O(1) lookup on the logging path.
type levelChange struct {
	byFile map[string]Level
	byLine map[string]map[int]Level
}

func newLevelChange(entries []LevelChangeEntry) *levelChange {
	lc := &levelChange{
		byFile: make(map[string]Level),
		byLine: make(map[string]map[int]Level),
	}
	for _, e := range entries {
		if e.Line == 0 {
			lc.byFile[e.File] = e.Level
			continue
		}
		if lc.byLine[e.File] == nil {
			lc.byLine[e.File] = make(map[int]Level)
		}
		lc.byLine[e.File][e.Line] = e.Level
	}
	return lc
}

// Empty reports whether no overrides are configured, letting the logger skip
// the caller lookup on the fast path.
func (lc *levelChange) Empty() bool {
	return len(lc.byFile) == 0 && len(lc.byLine) == 0
}

// GetLevel returns the override level for file/line, or def when no entry
// matches. Line entries take precedence over whole-file entries.
func (lc *levelChange) GetLevel(file string, line int, def Level) Level {
	if lines, ok := lc.byLine[file]; ok {
		if lv, ok := lines[line]; ok {
			return lv
		}
	}
	if lv, ok := lc.byFile[file]; ok {
		return lv
	}
	return def
}
