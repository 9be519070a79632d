// Package logging constructs the zap logger shared by the server and
// executors. The vector-index core itself never logs -- it has no
// interior locking or suspension points to report on, and its errors are
// typed values the caller decides how to handle.
package logging

import "go.uber.org/zap"

// New builds a zap logger for the given level name ("debug", "info",
// "warn", "error"), defaulting to info on an unrecognized or empty level.
// Development mode (human-readable, colorized) is used for "debug";
// production mode (JSON) otherwise.
func New(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}
