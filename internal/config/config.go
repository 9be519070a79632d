// Package config loads server configuration from the environment,
// optionally pre-populated from a .env file -- the same envconfig +
// godotenv pairing the dependency pack's other services use.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is every knob the server reads at startup.
type Config struct {
	GRPCAddr    string `envconfig:"GRPC_ADDR" default:":50051"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
	WALPath     string `envconfig:"WAL_PATH" default:"coraldb.wal"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads a .env file if present (missing is not an error) then
// populates Config from the process environment under the "CORALDB"
// prefix, e.g. CORALDB_GRPC_ADDR.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("coraldb", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
