package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger sets up the global zerolog logger: JSON at info level in
// production, colored console output at debug level elsewhere. LOG_LEVEL
// overrides the level in both cases.
func InitLogger(env string) {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.DebugLevel
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if env == "production" {
		level = zerolog.InfoLevel
		out = os.Stderr
	}
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func LogInfo(msg string, fields map[string]interface{}) {
	emit(log.Info(), msg, fields)
}

func LogWarn(msg string, fields map[string]interface{}) {
	emit(log.Warn(), msg, fields)
}

func LogError(msg string, err error, fields map[string]interface{}) {
	emit(log.Error().Err(err), msg, fields)
}

func emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	if len(fields) > 0 {
		event = event.Fields(fields)
	}
	event.Msg(msg)
}
