// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging wraps a process-wide zerolog logger. Messages take
// alternating key/value pairs so call sites stay short:
//
//	logging.Info("rendered page", "page", 0, "dpi", 200)
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/pagesnap/pkg/types"
)

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(zerolog.WarnLevel)
)

// Init configures the global logger. Console output goes to stderr; when
// cfg.File is set, JSON lines are also appended to a rotating file.
func Init(cfg types.LogConfig, stderr io.Writer) {
	if stderr == nil {
		stderr = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}}

	if cfg.File != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = defaultMaxSizeMB
		}
		backups := cfg.MaxBackups
		if backups <= 0 {
			backups = defaultMaxBackups
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: backups,
			MaxAge:     defaultMaxAgeDays,
		})
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger().Level(parseLevel(cfg.Level))

	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetLevel changes the minimum level. Unknown names fall back to info.
func SetLevel(level string) {
	mu.Lock()
	logger = logger.Level(parseLevel(level))
	mu.Unlock()
}

// SetLoggerForTest replaces the global logger.
func SetLoggerForTest(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Debug logs at debug level.
func Debug(msg string, kv ...any) { emit(zerolog.DebugLevel, msg, kv) }

// Info logs at info level.
func Info(msg string, kv ...any) { emit(zerolog.InfoLevel, msg, kv) }

// Warn logs at warn level.
func Warn(msg string, kv ...any) { emit(zerolog.WarnLevel, msg, kv) }

// Error logs at error level.
func Error(msg string, kv ...any) { emit(zerolog.ErrorLevel, msg, kv) }

func emit(level zerolog.Level, msg string, kv []any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ev := l.WithLevel(level)
	if ev == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			ev = ev.Interface(key, nil)
			break
		}
		if err, ok := kv[i+1].(error); ok {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}
