// Package logging builds the zap logger used across the service.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"healthrisk/config"
)

// New returns a JSON logger writing to stdout and, when cfg.File is set, to a
// rotated log file. The returned level can be changed while the logger is in use.
func New(cfg config.LogConfig) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	if err := SetLevel(level, cfg.Level); err != nil {
		return nil, level, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(rotator), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, level, nil
}

// SetLevel parses name and applies it to level. An empty name means info.
func SetLevel(level zap.AtomicLevel, name string) error {
	if name == "" {
		level.SetLevel(zapcore.InfoLevel)
		return nil
	}
	parsed, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(parsed)
	return nil
}
