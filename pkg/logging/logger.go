// Package logging constructs the service's zap logger. There is no package
// global; the caller owns the logger and passes it to the components that
// need it.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/stayflow/concierge/pkg/config"
)

// serviceName prefixes every logger built here; components derive their own
// with Named.
const serviceName = "concierge"

// New builds a logger from the logging configuration: a console core always,
// plus a JSON core over a rotating file when a path is configured. An
// unparseable level falls back to info rather than failing.
func New(cfg config.LoggingConfig) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	consoleCore := zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(os.Stdout), level)
	cores := []zapcore.Core{consoleCore}

	if cfg.File != "" {
		// lumberjack handles rotation and thread-safe writes; the file side
		// is always JSON so log collectors can parse it.
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(newEncoder("json"), fileWriter, level))
	}

	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named(serviceName)
}

func newEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}
