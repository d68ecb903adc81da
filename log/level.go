package log

import "strings"

// Level represents the severity of a log event. Levels are ordered from the
// most verbose (TraceLevel) to the most severe (FatalLevel); NoneLevel sits
// above every real level and silences the logger entirely.
type Level uint32

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	NoticeLevel
	WarnLevel
	ErrorLevel
	CriticalLevel
	FatalLevel
	NoneLevel
)

// String returns the lowercase name of the level as it appears in log output.
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "trace"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case NoticeLevel:
		return "notice"
	case WarnLevel:
		return "warning"
	case ErrorLevel:
		return "error"
	case CriticalLevel:
		return "critical"
	case FatalLevel:
		return "fatal"
	case NoneLevel:
		return "none"
	default:
		return "unknown"
	}
}

// ParseLevel maps a configured level name to a Level. Matching is
// case-insensitive. Unknown names return InfoLevel and ok=false so the caller
// can warn about the fallback.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(name) {
	case "none":
		return NoneLevel, true
	case "fatal":
		return FatalLevel, true
	case "critical":
		return CriticalLevel, true
	case "error":
		return ErrorLevel, true
	case "warning", "warn":
		return WarnLevel, true
	case "notice":
		return NoticeLevel, true
	case "information", "info":
		return InfoLevel, true
	case "debug":
		return DebugLevel, true
	case "trace":
		return TraceLevel, true
	default:
		return InfoLevel, false
	}
}
