package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the package-wide logger used by the host op engine. Defaults
// to console output at info level; Setup reconfigures it.
var Log zerolog.Logger

func init() {
	Log = console()
}

func console() zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Setup configures the global logger. Level is one of debug/info/warn/
// error; format is "json" or "console".
func Setup(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		Log = console()
	}
}

// Op returns an event annotated with the op name and dtype, the common
// shape of host-op debug lines.
func Op(op, dtype string) *zerolog.Event {
	return Log.Debug().Str("op", op).Str("dtype", dtype)
}
