package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"mugen/internal/domain"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zerolog so the log level can be changed at runtime and sub
// loggers can be handed to packages that only know zerolog.
type Logger interface {
	Log() *zerolog.Event
	Fatal() *zerolog.Event
	Error() *zerolog.Event
	Err(err error) *zerolog.Event
	Warn() *zerolog.Event
	Info() *zerolog.Event
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	With() zerolog.Context
	SetLogLevel(level string)
	Module(name string) zerolog.Logger
}

type DefaultLogger struct {
	mu     sync.RWMutex
	log    zerolog.Logger
	level  zerolog.Level
	writer io.Writer
}

func New(cfg *domain.Config) Logger {
	l := &DefaultLogger{
		writer: zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339},
		level:  zerolog.DebugLevel,
	}

	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogPath != "" {
		l.writer = &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    cfg.LogMaxSize, // megabytes
			MaxBackups: cfg.LogMaxBackups,
		}
	}

	l.log = zerolog.New(l.writer).With().Timestamp().Logger()
	l.SetLogLevel(cfg.LogLevel)

	return l
}

// ParseLevel maps config values to zerolog levels. Unknown values fall back
// to debug.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

func (l *DefaultLogger) SetLogLevel(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = ParseLevel(level)
	l.log = l.log.Level(l.level)
	zerolog.SetGlobalLevel(l.level)
}

// current returns a copy of the logger so events never race a level change.
func (l *DefaultLogger) current() zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.log
}

func (l *DefaultLogger) Log() *zerolog.Event {
	log := l.current()
	return log.Log()
}

func (l *DefaultLogger) Fatal() *zerolog.Event {
	log := l.current()
	return log.Fatal()
}

func (l *DefaultLogger) Error() *zerolog.Event {
	log := l.current()
	return log.Error()
}

func (l *DefaultLogger) Err(err error) *zerolog.Event {
	log := l.current()
	return log.Err(err)
}

func (l *DefaultLogger) Warn() *zerolog.Event {
	log := l.current()
	return log.Warn()
}

func (l *DefaultLogger) Info() *zerolog.Event {
	log := l.current()
	return log.Info()
}

func (l *DefaultLogger) Debug() *zerolog.Event {
	log := l.current()
	return log.Debug()
}

func (l *DefaultLogger) Trace() *zerolog.Event {
	log := l.current()
	return log.Trace()
}

func (l *DefaultLogger) With() zerolog.Context {
	log := l.current()
	return log.With()
}

// Module returns a child logger tagged with the module name.
func (l *DefaultLogger) Module(name string) zerolog.Logger {
	log := l.current()
	return log.With().Str("module", name).Logger()
}
