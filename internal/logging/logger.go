// Package logging builds the zap logger shared by allowlist runs.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sgtrust/trusted-sites-allowlist/internal/config"
)

// loggerName tags every entry so allowlist output is attributable when the
// binary runs under a shared log collector.
const loggerName = "allowlist"

// New builds the run logger from configuration. Development mode selects the
// console encoder with colored levels; production mode emits JSON with
// stacktraces kept on. The configured level gates both.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.DisableStacktrace = false
	}
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named(loggerName), nil
}
