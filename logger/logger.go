package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger carrying the crawler's component fields
type Logger struct {
	zl zerolog.Logger
}

// Fields are attached to every event of a derived logger
type Fields map[string]interface{}

// Default is the process-wide logger. It is created on first use when
// Init has not been called.
var Default *Logger

// Init builds the console logger. LOG_LEVEL wins; otherwise
// USEDCAR_ENVIRONMENT=production logs at info and anything else at debug.
func Init() {
	level := levelFromEnv()
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)

	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	Default = &Logger{zl: zerolog.New(out).With().Timestamp().Logger()}
	Default.Info().Str("level", level.String()).Msg("Logger initialized")
}

func levelFromEnv() zerolog.Level {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		if os.Getenv("USEDCAR_ENVIRONMENT") == "production" {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func base() *Logger {
	if Default == nil {
		Init()
	}
	return Default
}

// SetOutput redirects the default logger, keeping its level
func SetOutput(w io.Writer) {
	Default = &Logger{zl: base().zl.Output(w)}
}

// WithFields derives a logger that adds fields to every event
func (l *Logger) WithFields(fields Fields) *Logger {
	ctx := l.zl.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zl: ctx.Logger()}
}

// WithField derives a logger with one extra field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// Fatal logs and exits the process once the event is sent
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Info logs a formatted message on the default logger
func Info(format string, v ...interface{}) {
	base().Info().Msgf(format, v...)
}

// Warn logs a formatted warning on the default logger
func Warn(format string, v ...interface{}) {
	base().Warn().Msgf(format, v...)
}

func component(name string) *Logger {
	return base().WithField("component", name)
}

// ForCrawler tags events with the crawled site
func ForCrawler(site string) *Logger {
	return base().WithField("crawler", site)
}

func ForWorker() *Logger    { return component("worker") }
func ForPublisher() *Logger { return component("publisher") }
func ForCache() *Logger     { return component("cache") }
func ForStore() *Logger     { return component("store") }

// Track logs the start of a labelled operation and returns a function that
// logs its end, or its failure, with the elapsed time.
//
//	done := logger.Track("worker", "save listings")
//	err := save()
//	done(err)
func Track(name, label string) func(error) {
	log := component(name)
	log.Debug().Str("operation", label).Msg("START")
	start := time.Now()

	return func(err error) {
		elapsed := time.Since(start)
		if err != nil {
			log.Error().Err(err).Str("operation", label).Dur("elapsed", elapsed).Msg("ERROR")
			return
		}
		log.Info().Str("operation", label).Dur("elapsed", elapsed).Msg("END")
	}
}
