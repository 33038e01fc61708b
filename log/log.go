// Package log is a thin proxy over a logrus logger. Output is discarded until Setup or Console configures it.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/where"
)

var (
	logger     = newLogger(io.Discard)
	configured bool
)

type Fields = logrus.Fields

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	return l
}

// Setup appends to a daily file under the logs directory when logs.write is on.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		return nil
	}

	path := filepath.Join(where.Logs(), time.Now().Format(time.DateOnly)+".log")
	file, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	configure(file)
	return nil
}

// Console sends logs to stderr unless a file was already set up.
func Console() {
	if !configured {
		configure(os.Stderr)
	}
}

func configure(out io.Writer) {
	configured = true
	logger.SetOutput(out)

	if viper.GetBool(key.LogsJson) {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func WithFields(fields Fields) *logrus.Entry { return logger.WithFields(fields) }

func Error(args ...any)                 { logger.Error(args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Warn(args ...any)                  { logger.Warn(args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Info(args ...any)                  { logger.Info(args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
