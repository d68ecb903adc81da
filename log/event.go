package log

import (
	"bytes"
	"strconv"
	"time"
)

// _timeFormat is the timestamp layout written into every event.
const _timeFormat = "2006-01-02 15:04:05.000"

// LogEvent is a pooled, append-only buffer that accumulates one log line.
// Field methods return the event itself so calls chain fluently; Msg
// terminates the chain and hands the finished line to the owning logger.
//
// A nil event (returned when the level is filtered out) is safe to call:
// every method short-circuits, so call sites never need a level check.
type LogEvent struct {
	buf    bytes.Buffer
	level  Level
	logger Logger
}

// newEvent creates a fresh event owned by logger. Events are normally
// obtained from the logger's pool rather than constructed directly.
func newEvent(logger Logger) *LogEvent {
	return &LogEvent{logger: logger}
}

// Reset clears the buffer so a pooled event can be reused.
func (e *LogEvent) Reset() {
	e.buf.Reset()
	e.level = TraceLevel
}

// Level returns the severity the event was created with.
func (e *LogEvent) Level() Level {
	return e.level
}

func (e *LogEvent) sep() {
	if e.buf.Len() > 0 {
		e.buf.WriteByte(' ')
	}
}

// Str appends a key=value string field.
func (e *LogEvent) Str(key, val string) *LogEvent {
	if e == nil {
		return nil
	}
	e.sep()
	e.buf.WriteString(key)
	e.buf.WriteByte('=')
	e.buf.WriteString(val)
	return e
}

// Strs appends a key=[a,b,c] field for a string slice.
func (e *LogEvent) Strs(key string, vals []string) *LogEvent {
	if e == nil {
		return nil
	}
	e.sep()
	e.buf.WriteString(key)
	e.buf.WriteString("=[")
	for i, v := range vals {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.buf.WriteString(v)
	}
	e.buf.WriteByte(']')
	return e
}

// Int appends a key=value integer field.
func (e *LogEvent) Int(key string, val int) *LogEvent {
	if e == nil {
		return nil
	}
	e.sep()
	e.buf.WriteString(key)
	e.buf.WriteByte('=')
	e.buf.WriteString(strconv.Itoa(val))
	return e
}

// Int64 appends a key=value 64-bit integer field.
func (e *LogEvent) Int64(key string, val int64) *LogEvent {
	if e == nil {
		return nil
	}
	e.sep()
	e.buf.WriteString(key)
	e.buf.WriteByte('=')
	e.buf.WriteString(strconv.FormatInt(val, 10))
	return e
}

// Uint64 appends a key=value unsigned 64-bit integer field.
func (e *LogEvent) Uint64(key string, val uint64) *LogEvent {
	if e == nil {
		return nil
	}
	e.sep()
	e.buf.WriteString(key)
	e.buf.WriteByte('=')
	e.buf.WriteString(strconv.FormatUint(val, 10))
	return e
}

// Bool appends a key=true|false field.
func (e *LogEvent) Bool(key string, val bool) *LogEvent {
	if e == nil {
		return nil
	}
	e.sep()
	e.buf.WriteString(key)
	e.buf.WriteByte('=')
	e.buf.WriteString(strconv.FormatBool(val))
	return e
}

// Err appends an error=... field. A nil error appends nothing.
func (e *LogEvent) Err(err error) *LogEvent {
	if e == nil || err == nil {
		return e
	}
	e.sep()
	e.buf.WriteString("error=")
	e.buf.WriteString(strconv.Quote(err.Error()))
	return e
}

// Time appends a key=timestamp field in the standard layout.
func (e *LogEvent) Time(key string, t *time.Time) *LogEvent {
	if e == nil {
		return nil
	}
	e.sep()
	e.buf.WriteString(key)
	e.buf.WriteByte('=')
	e.buf.WriteString(t.Format(_timeFormat))
	return e
}

// Msg terminates the event with a human message and submits the line to the
// logger's appenders. The event must not be used after Msg returns.
func (e *LogEvent) Msg(msg string) {
	if e == nil {
		return
	}
	if msg != "" {
		e.sep()
		e.buf.WriteString("msg=")
		e.buf.WriteString(strconv.Quote(msg))
	}
	e.buf.WriteByte('\n')
	e.logger.OnEventEnd(e)
}
