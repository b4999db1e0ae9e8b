package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

// Mode selects the output format of the process-wide logger.
type Mode string

const (
	ModePretty Mode = "pretty"
	ModeJSON   Mode = "json"
	ModeTest   Mode = "test"
)

// Init configures the process-wide logger. Call once at startup.
func Init(mode Mode) {
	switch mode {
	case ModeJSON:
		zerolog.TimeFieldFormat = time.RFC3339
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	case ModeTest:
		zerolog.SetGlobalLevel(zerolog.Disabled)
		log = zerolog.Nop()
	default:
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		}
		zerolog.TimeFieldFormat = time.RFC3339
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log = zerolog.New(output).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &log
}

// Get returns the logger instance.
func Get() zerolog.Logger {
	return log
}

// WithComponent returns a sub-logger tagged with the given component name.
func WithComponent(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
