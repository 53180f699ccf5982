package utils

import (
	"log"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// InitLogger sets up the logging configuration. production selects the JSON
// production encoder at info level; otherwise a colored development config at
// debug level is used.
func InitLogger(production bool) *zap.Logger {
	loggerOnce.Do(func() {
		var cfg zap.Config

		if production {
			cfg = zap.NewProductionConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		var err error
		logger, err = cfg.Build()
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		zap.ReplaceGlobals(logger)
	})
	return logger
}

// GetLogger retrieves the process logger, initializing a development logger if
// InitLogger has not run yet (tests).
func GetLogger() *zap.Logger {
	if logger == nil {
		return InitLogger(false)
	}
	return logger
}
