// Package n64log provides leveled logging (trace/debug/info/warn/fatal)
// over the standard log package, gated by a process-wide verbosity so hot
// emulation paths can log without formatting cost when silenced.
package n64log

import (
	"log"
	"os"
)

type Level int

const (
	LevelFatal Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var verbosity = LevelInfo

var std = log.New(os.Stderr, "", log.LstdFlags)

// SetVerbosity sets the minimum level that will be printed. Messages above
// this level are dropped cheaply at the call site.
func SetVerbosity(l Level) {
	verbosity = l
}

func Tracef(format string, args ...any) { logAt(LevelTrace, format, args...) }
func Debugf(format string, args ...any) { logAt(LevelDebug, format, args...) }
func Infof(format string, args ...any)  { logAt(LevelInfo, format, args...) }
func Warnf(format string, args ...any)  { logAt(LevelWarn, format, args...) }

// Fatalf logs unconditionally and exits the process. It is reserved for
// host-visible failures: a genuinely illegal instruction should raise a
// ReservedInstruction exception instead of calling Fatalf.
func Fatalf(format string, args ...any) {
	std.Fatalf(format, args...)
}

func logAt(level Level, format string, args ...any) {
	if level > verbosity {
		return
	}
	std.Printf(prefix(level)+format, args...)
}

func prefix(level Level) string {
	switch level {
	case LevelTrace:
		return "[TRACE] "
	case LevelDebug:
		return "[DEBUG] "
	case LevelInfo:
		return "[INFO] "
	case LevelWarn:
		return "[WARN] "
	default:
		return "[FATAL] "
	}
}
