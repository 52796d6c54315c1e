// Package wblog provides the process-wide structured logger and the
// queue-backed sink that drains LogRecord events into it (spec section
// 4.3/6). It follows the teacher's infrastructure/logging package: a thin
// wrapper embedding *logrus.Logger with a stamped "module" field.
package wblog

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger, stamping every entry with the owning actor's
// name the way infrastructure/logging.Logger stamps "service".
type Logger struct {
	*logrus.Logger
	module string
}

// New creates a Logger for module, with level and format selecting logrus's
// level and formatter exactly as the teacher's New(service, level, format)
// does.
func New(module, level, format string) *Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	logger.SetOutput(os.Stdout)

	return &Logger{Logger: logger, module: module}
}

// NewFromEnv mirrors the teacher's NewFromEnv: LOG_LEVEL/LOG_FORMAT with
// "info"/"json" defaults.
func NewFromEnv(module string) *Logger {
	level := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = "info"
	}
	format := strings.TrimSpace(os.Getenv("LOG_FORMAT"))
	if format == "" {
		format = "json"
	}
	return New(module, level, format)
}

// WithField returns a logrus.Entry stamped with this logger's module.
func (l *Logger) WithField(key string, value any) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields{"module": l.module}).WithField(key, value)
}

// Entry returns a bare entry stamped with this logger's module, for callers
// that want to chain further WithField calls.
func (l *Logger) Entry() *logrus.Entry {
	return l.Logger.WithField("module", l.module)
}
