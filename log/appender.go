package log

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// LogAppender receives finished log lines and delivers them to a destination.
// Write may be called concurrently; implementations must copy the byte slice
// if they keep it past the call, because events return to a pool.
type LogAppender interface {
	Write(line []byte)
	Refresh()
}

// ConsoleAppender writes log lines to stdout.
type ConsoleAppender struct {
	mu sync.Mutex
}

// NewConsoleAppender returns an appender writing to standard output.
func NewConsoleAppender() *ConsoleAppender {
	return &ConsoleAppender{}
}

// Write emits one line to stdout.
func (a *ConsoleAppender) Write(line []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	os.Stdout.Write(line)
}

// Refresh is a no-op for the console.
func (a *ConsoleAppender) Refresh() {}

// TimestampedLogPath builds the dated log file path used by the extension:
// extDB/logs/<yyyy>/<mm>/<dd>/<HH-MM-SS>.log relative to dir.
func TimestampedLogPath(dir string, now time.Time) string {
	return filepath.Join(dir, "extDB", "logs",
		now.Format("2006"), now.Format("01"), now.Format("02"),
		now.Format("15-04-05")+".log")
}

// FileAppender writes log lines to a single file, rotating it into numbered
// siblings once it exceeds the configured size. Writes are asynchronous when
// the configuration asks for it: lines are queued on a channel and drained by
// a background goroutine so the logging path never blocks on disk.
type FileAppender struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	written int64
	maxSize int64
	rotated int

	async  chan []byte
	flush  chan chan struct{}
	done   chan struct{}
	closed sync.Once
}

// NewFileAppender opens (creating directories as needed) the configured log
// file and starts the async writer when cfg.IsAsync is set. Open failures are
// reported on stderr and produce an appender that drops lines; a logger that
// cannot log must not take the process down with it.
func NewFileAppender(cfg *LogCfg, _ Logger) *FileAppender {
	a := &FileAppender{
		path:    cfg.LogPath,
		maxSize: int64(cfg.FileSplitMB) * 1024 * 1024,
	}
	if a.maxSize <= 0 {
		a.maxSize = 10 * 1024 * 1024
	}
	a.open()

	if cfg.IsAsync {
		size := cfg.AsyncCacheSize
		if size <= 0 {
			size = 1024
		}
		a.async = make(chan []byte, size)
		a.flush = make(chan chan struct{})
		a.done = make(chan struct{})
		interval := cfg.AsyncWriteMillSec
		if interval <= 0 {
			interval = 200
		}
		go a.drain(time.Duration(interval) * time.Millisecond)
	}
	return a
}

func (a *FileAppender) open() {
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		os.Stderr.WriteString("log: mkdir " + filepath.Dir(a.path) + ": " + err.Error() + "\n")
		return
	}
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		os.Stderr.WriteString("log: open " + a.path + ": " + err.Error() + "\n")
		return
	}
	if st, err := f.Stat(); err == nil {
		a.written = st.Size()
	}
	a.file = f
}

// Write queues (async) or persists (sync) one log line.
func (a *FileAppender) Write(line []byte) {
	if a.async != nil {
		cp := make([]byte, len(line))
		copy(cp, line)
		select {
		case a.async <- cp:
		default:
			// Queue full: drop rather than stall the caller.
		}
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.write(line)
}

func (a *FileAppender) write(line []byte) {
	if a.file == nil {
		return
	}
	n, _ := a.file.Write(line)
	a.written += int64(n)
	if a.written >= a.maxSize {
		a.rotate()
	}
}

// rotate moves the live file aside under a numeric suffix and reopens a fresh
// one at the original path.
func (a *FileAppender) rotate() {
	a.file.Close()
	a.file = nil
	a.rotated++
	os.Rename(a.path, a.path+"."+strconv.Itoa(a.rotated))
	a.written = 0
	a.open()
}

func (a *FileAppender) drain(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case line := <-a.async:
			a.mu.Lock()
			a.write(line)
			a.mu.Unlock()
		case ack := <-a.flush:
			a.drainQueued()
			close(ack)
		case <-ticker.C:
			a.drainQueued()
		case <-a.done:
			a.drainQueued()
			return
		}
	}
}

func (a *FileAppender) drainQueued() {
	for {
		select {
		case line := <-a.async:
			a.mu.Lock()
			a.write(line)
			a.mu.Unlock()
		default:
			return
		}
	}
}

// Refresh forces queued lines to disk and reopens the file. Used after
// configuration changes and at shutdown.
func (a *FileAppender) Refresh() {
	if a.async != nil {
		ack := make(chan struct{})
		select {
		case a.flush <- ack:
			<-ack
		case <-time.After(time.Second):
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file != nil {
		a.file.Sync()
	}
}

// Close flushes and stops the async writer, then closes the file.
func (a *FileAppender) Close() {
	a.Refresh()
	a.closed.Do(func() {
		if a.done != nil {
			close(a.done)
		}
	})
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file != nil {
		a.file.Close()
		a.file = nil
	}
}
