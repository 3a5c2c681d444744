package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide root logger. Packages derive component-scoped
// children from it via the With* helpers rather than logging through it
// directly.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Level names a log level as carried in configuration.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config selects level and output format for the root logger.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Init replaces the root logger according to cfg. Called once at process
// start (cmd/mongoosectl) or by an embedder before building a server;
// the default console root logger above keeps tests and library use working
// without it.
func Init(cfg Config) {
	lvl, err := zerolog.ParseLevel(string(cfg.Level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if !cfg.JSONOutput {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	Logger = zerolog.New(out).With().Timestamp().Logger()
}

// WithComponent derives a child logger carrying a component field.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithAgent derives a child logger scoped to one agent thread.
func WithAgent(agentName string) zerolog.Logger {
	return Logger.With().Str("agent", agentName).Logger()
}

// WithSource derives a child logger scoped to one registered event source.
func WithSource(sourceName string) zerolog.Logger {
	return Logger.With().Str("source", sourceName).Logger()
}

// WithProcessor derives a child logger scoped to one processor within a
// group.
func WithProcessor(group, processor string) zerolog.Logger {
	return Logger.With().Str("group", group).Str("processor", processor).Logger()
}
