// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// SchedulerConfig returns the pacing configuration for the program options.
func SchedulerConfig(opts options.Program) scheduler.Config {
	cfg := scheduler.DefaultConfig()
	cfg.InstructionsPerTick = opts.InstructionsPerTick
	cfg.ClockHz = opts.ClockHz
	return cfg
}
