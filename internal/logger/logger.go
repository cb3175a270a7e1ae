package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Package logger is a small levelled facade over zerolog. The level can be
// flipped at runtime, which the feature-flag watcher in main relies on.

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the logger with the given level. Pretty console output is
// used outside production; pass production=true for plain JSON.
func Init(level string, production bool) {
	mu.Lock()
	defer mu.Unlock()
	if production {
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	}
	log = log.Level(parseLevel(level))
}

// SetLevel changes the minimum logged level at runtime.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(parseLevel(level))
}

// GetLevel returns the current minimum level as a string.
func GetLevel() string {
	mu.RLock()
	defer mu.RUnlock()
	return log.GetLevel().String()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func Debugf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Msgf(format, args...)
}

func Infof(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info().Msgf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error().Msgf(format, args...)
}
