package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	mu     sync.Mutex
)

// InitLogger configures the shared logger with the given level.
// It can be called more than once; the latest level wins.
func InitLogger(level logrus.Level) *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newLogger()
	}
	logger.SetLevel(level)
	return logger
}

// GetLogger returns the shared logger, creating it at Info level if InitLogger
// has not been called yet.
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newLogger()
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// ParseLevel is logrus.ParseLevel with Info as the fallback for an empty string.
func ParseLevel(s string) (logrus.Level, error) {
	if s == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(s)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}
