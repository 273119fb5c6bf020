package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/vi-scene/config"
)

// newLogger builds the process logger, the terminal belongs to tcell so output goes to cfg.File
// An empty file disables logging unless debug is set, which falls back to vi-scene.log
func newLogger(cfg config.LoggingConfig, debug bool) (*zap.Logger, error) {
	file := cfg.File
	if file == "" {
		if !debug {
			return zap.NewNop(), nil
		}
		file = "vi-scene.log"
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	if debug {
		level = zapcore.DebugLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{file}
	zapCfg.ErrorOutputPaths = []string{file}

	return zapCfg.Build()
}
