package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"catalog/internal/config"
)

// New builds the process logger. Development uses a colored console encoder at debug level,
// every other environment logs JSON at the configured level.
func New(env, level string) (*zap.Logger, error) {
	var zcfg zap.Config
	if env == config.EnvDevelopment {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "time"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		if env != config.EnvDevelopment {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	log, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log.With(zap.String("service", "catalog")), nil
}
