// pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	Log = newLogger(os.Stdout, "json")
	log.Logger = Log
}

// SetFormat switches between structured JSON lines ("json", the default and
// what the Lambda log stream expects) and colored console output ("console").
func SetFormat(format string) {
	Log = newLogger(os.Stdout, format).Level(Log.GetLevel())
	log.Logger = Log
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
	log.Logger = Log
}

// Configure applies format and level in one call.
func Configure(level, format string) {
	SetFormat(format)
	SetLevel(level)
}

func newLogger(out io.Writer, format string) zerolog.Logger {
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	return zerolog.New(out).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}
