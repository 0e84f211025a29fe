// Package config handles command line options and logger setup.
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger for the requested verbosity.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
