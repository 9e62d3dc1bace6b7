// Package logging builds the application's zap loggers and adapts them to the
// logger interfaces expected by the storage libraries.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"inkwell/app/config"
)

// New returns a JSON production logger, or a console logger in development
// mode, at the configured level.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zc.Level = level
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// BadgerLogger adapts a zap logger to badger.Logger.
type BadgerLogger struct {
	s *zap.SugaredLogger
}

func NewBadgerLogger(logger *zap.Logger) *BadgerLogger {
	return &BadgerLogger{s: logger.Named("badger").Sugar()}
}

func (l *BadgerLogger) Errorf(format string, args ...interface{}) {
	l.s.Errorf(strings.TrimSpace(format), args...)
}

func (l *BadgerLogger) Warningf(format string, args ...interface{}) {
	l.s.Warnf(strings.TrimSpace(format), args...)
}

func (l *BadgerLogger) Infof(format string, args ...interface{}) {
	l.s.Infof(strings.TrimSpace(format), args...)
}

func (l *BadgerLogger) Debugf(format string, args ...interface{}) {
	l.s.Debugf(strings.TrimSpace(format), args...)
}

// GormWriter adapts a zap logger to the Printf writer used by gorm's logger.
type GormWriter struct {
	s *zap.SugaredLogger
}

func NewGormWriter(logger *zap.Logger) *GormWriter {
	return &GormWriter{s: logger.Named("gorm").Sugar()}
}

func (w *GormWriter) Printf(format string, args ...interface{}) {
	w.s.Debugf(format, args...)
}
