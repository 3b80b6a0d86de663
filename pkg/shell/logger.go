package shell

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// NewLogger builds a console logger tagged with the app name and a fresh
// session id. An empty level means warn and "off" disables logging.
func NewLogger(w io.Writer, level string) (zerolog.Logger, ksuid.KSUID, error) {
	lvl := zerolog.WarnLevel
	switch level {
	case "":
	case "off":
		lvl = zerolog.Disabled
	default:
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), ksuid.Nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	id := ksuid.New()
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).Level(lvl).With().
		Timestamp().
		Str("app", "classdb").
		Str("session", id.String()).
		Logger()

	return logger, id, nil
}
