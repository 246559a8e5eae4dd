package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"scrum-cards/internal/config"
)

// Logger is the root logger; it discards everything until Init is called
var Logger = zerolog.Nop()

// Init builds the root logger from the log configuration: a rotating file,
// plus a human readable stderr stream when console output is enabled
func Init(logConfig config.LogConfig) error {
	level, err := zerolog.ParseLevel(logConfig.Level)
	if err != nil {
		return err
	}
	if logConfig.Level == "" {
		level = zerolog.WarnLevel
	}

	var writers []io.Writer
	if logConfig.File != "" {
		if err := os.MkdirAll(filepath.Dir(logConfig.File), 0755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   logConfig.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	if logConfig.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if len(writers) == 0 {
		Logger = zerolog.Nop()
		return nil
	}

	Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "scrum-cards").
		Logger()
	return nil
}

// NewSessionLogger returns a child of the root logger tagged with a fresh session id
func NewSessionLogger() zerolog.Logger {
	return Logger.With().Str("session", uuid.NewString()).Logger()
}

// For returns a child of base tagged with a component name
func For(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
