// Package config provides configuration management and environment variable handling for the application
package config

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging points the standard logger at the configured destination.
// File output goes through lumberjack so log files are rotated and pruned
// without an external logrotate setup. The returned func flushes and closes
// the rotator and is safe to call even for plain stdout logging.
func SetupLogging(cfg LoggingConfig) func() error {
	var rotator *lumberjack.Logger

	switch cfg.Output {
	case "file":
		rotator = newRotator(cfg)
		log.SetOutput(rotator)
	case "both":
		rotator = newRotator(cfg)
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	default:
		log.SetOutput(os.Stdout)
	}

	log.SetFlags(log.LstdFlags | log.LUTC)

	if rotator == nil {
		return func() error { return nil }
	}
	return rotator.Close
}

func newRotator(cfg LoggingConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}
