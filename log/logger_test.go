package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureAppender collects written lines for assertions.
type captureAppender struct {
	mu    sync.Mutex
	lines []string
}

func (a *captureAppender) Write(line []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = append(a.lines, string(line))
}

func (a *captureAppender) Refresh() {}

func (a *captureAppender) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.lines...)
}

func newCaptureLogger(level Level) (*GameLogger, *captureAppender) {
	logger := NewLogger(&LogCfg{LogLevel: level})
	cap := &captureAppender{}
	logger.AddAppender(cap)
	return logger, cap
}

func TestLevelFiltering(t *testing.T) {
	logger, cap := newCaptureLogger(WarnLevel)

	assert.Nil(t, logger.Debug())
	assert.Nil(t, logger.Info())
	assert.Nil(t, logger.Notice())

	logger.Warn().Msg("kept")
	logger.Error().Msg("kept too")

	lines := cap.all()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "level=warning")
	assert.Contains(t, lines[1], "level=error")
}

func TestSetLevelRuntime(t *testing.T) {
	logger, cap := newCaptureLogger(ErrorLevel)

	assert.Nil(t, logger.Info())
	logger.SetLevel(TraceLevel)
	logger.Trace().Msg("visible now")

	require.Len(t, cap.all(), 1)
	assert.Contains(t, cap.all()[0], "level=trace")
}

func TestNoneLevelSilences(t *testing.T) {
	logger, cap := newCaptureLogger(NoneLevel)
	assert.Nil(t, logger.Fatal())
	assert.Empty(t, cap.all())
}

func TestEventFields(t *testing.T) {
	logger, cap := newCaptureLogger(DebugLevel)

	logger.Info().
		Str("protocol", "misc").
		Int("id", 7).
		Uint64("seq", 42).
		Bool("ok", true).
		Err(errors.New("boom")).
		Msg("call finished")

	lines := cap.all()
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Contains(t, line, "protocol=misc")
	assert.Contains(t, line, "id=7")
	assert.Contains(t, line, "seq=42")
	assert.Contains(t, line, "ok=true")
	assert.Contains(t, line, `error="boom"`)
	assert.Contains(t, line, `msg="call finished"`)
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestNilEventIsSafe(t *testing.T) {
	logger, _ := newCaptureLogger(NoneLevel)
	// All chained calls on a filtered event must be no-ops.
	logger.Debug().Str("k", "v").Int("n", 1).Err(errors.New("x")).Msg("dropped")
}

func TestFatalPanics(t *testing.T) {
	logger, _ := newCaptureLogger(TraceLevel)
	assert.Panics(t, func() {
		logger.Fatal().Msg("going down")
	})
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in    string
		level Level
		ok    bool
	}{
		{"none", NoneLevel, true},
		{"FATAL", FatalLevel, true},
		{"Critical", CriticalLevel, true},
		{"error", ErrorLevel, true},
		{"warning", WarnLevel, true},
		{"notice", NoticeLevel, true},
		{"information", InfoLevel, true},
		{"debug", DebugLevel, true},
		{"trace", TraceLevel, true},
		{"verbose", InfoLevel, false},
		{"", InfoLevel, false},
	}
	for _, c := range cases {
		level, ok := ParseLevel(c.in)
		assert.Equal(t, c.level, level, c.in)
		assert.Equal(t, c.ok, ok, c.in)
	}
}

func TestLevelChangeOverride(t *testing.T) {
	logger := NewLogger(&LogCfg{
		LogLevel: ErrorLevel,
		LevelChange: []LevelChangeEntry{
			{File: "log/logger_test.go", Level: TraceLevel},
		},
	})
	cap := &captureAppender{}
	logger.AddAppender(cap)

	// Debug is below the global minimum but this file is overridden.
	logger.Debug().Msg("override wins")
	require.Len(t, cap.all(), 1)
}

func TestFileAppenderWritesAndRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ext.log")

	a := NewFileAppender(&LogCfg{LogPath: path, FileSplitMB: 1}, nil)
	// Force rotation by shrinking the threshold after construction.
	a.maxSize = 64

	big := strings.Repeat("x", 60) + "\n"
	a.Write([]byte(big))
	a.Write([]byte(big))
	a.Close()

	_, err := os.Stat(path + ".1")
	require.NoError(t, err, "rotated sibling should exist")
}

func TestFileAppenderAsyncFlush(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "async.log")

	a := NewFileAppender(&LogCfg{
		LogPath:           path,
		IsAsync:           true,
		AsyncCacheSize:    16,
		AsyncWriteMillSec: 50,
	}, nil)
	a.Write([]byte("queued line\n"))
	a.Refresh()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "queued line")
	a.Close()
}

func TestTimestampedLogPath(t *testing.T) {
	now := time.Date(2026, 8, 6, 9, 5, 3, 0, time.UTC)
	got := TimestampedLogPath("base", now)
	assert.Equal(t, filepath.Join("base", "extDB", "logs", "2026", "08", "06", "09-05-03.log"), got)
}

func TestNamedLoggerWritesOwnFile(t *testing.T) {
	dir := t.TempDir()
	logger := NewNamedLogger(&LogCfg{LogLevel: ErrorLevel}, dir, "deaths")

	// Named loggers bypass level filtering.
	logger.Info().Str("player", "p1").Msg("died")
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, "extDB", "logs", "deaths.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "log=deaths")
	assert.Contains(t, string(data), "player=p1")
}

func BenchmarkInfoFiltered(b *testing.B) {
	logger := NewLogger(&LogCfg{LogLevel: ErrorLevel})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Info().Str("k", "v").Msg("dropped")
	}
}

func BenchmarkInfoDelivered(b *testing.B) {
	logger := NewLogger(&LogCfg{LogLevel: TraceLevel})
	logger.AddAppender(&captureAppender{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		logger.Info().Str("k", "v").Int("n", i).Msg("kept")
	}
}
