package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig selects level, encoding and an optional rotated log file.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" default:"info"`
	// Format is json or console.
	Format string `mapstructure:"format" default:"json"`
	// File, when set, receives a copy of every entry written to stdout.
	File       string `mapstructure:"file" default:""`
	MaxSizeMB  int    `mapstructure:"max_size_mb" default:"100"`
	MaxBackups int    `mapstructure:"max_backups" default:"3"`
	MaxAgeDays int    `mapstructure:"max_age_days" default:"28"`
}

// NewLogger builds the process logger. Entries go to stdout and, when a file
// is configured, are teed into a lumberjack-rotated file as JSON.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEnc := zapcore.NewJSONEncoder(encCfg)
	if cfg.Format == "console" {
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(devCfg)
	}
	cores := []zapcore.Core{zapcore.NewCore(consoleEnc, zapcore.AddSync(os.Stdout), lvl)}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), lvl))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// CLILogger is the console logger used by the offline tools before any
// configuration is read.
func CLILogger() *zap.Logger {
	l, err := NewLogger(LogConfig{Level: "info", Format: "console"})
	if err != nil {
		return zap.NewNop()
	}
	return l
}
