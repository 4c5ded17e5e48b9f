package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel returns the configured logrus level.
func (l LogConfig) ParseLevel() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds the host logger. With a file configured, output goes to
// a size-rotated file as JSON; otherwise to stderr as text. The returned
// closer releases the file and is never nil.
func (l LogConfig) NewLogger() (*logrus.Logger, io.Closer) {
	log := logrus.New()
	if lvl, err := l.ParseLevel(); err == nil {
		log.SetLevel(lvl)
	}
	if l.File == "" {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return log, io.NopCloser(nil)
	}
	rot := &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
		Compress:   l.Compress,
	}
	log.SetOutput(rot)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, rot
}
