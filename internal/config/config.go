// Package config holds runtime configuration for the bunmem binaries.
// The engine itself takes no configuration; everything here drives the
// shell and the load generator.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string // DEBUG, INFO, WARN, ERROR

	Metrics MetricsConfig
	Load    LoadConfig
}

type MetricsConfig struct {
	Enabled    bool
	ListenAddr string // Address for the /metrics endpoint
}

type LoadConfig struct {
	Collections int // Number of collections to spread documents across
	Documents   int // Total documents to seed
	Operations  int // Mixed operations to drive after seeding
	Workers     int // Worker pool size (0 = NumCPU)
	BatchSize   int // Documents per InsertMany during seeding
	Seed        int64
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "INFO",
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9920",
		},
		Load: LoadConfig{
			Collections: 4,
			Documents:   10000,
			Operations:  50000,
			Workers:     runtime.NumCPU(),
			BatchSize:   100,
			Seed:        1,
		},
	}
}

// Load reads configuration into target from an optional config file and from
// BUNMEM_-prefixed environment variables (BUNMEM_LOAD_WORKERS -> load.workers).
// Missing files are not an error; every field keeps its default.
func Load(path string, target *Config) error {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	const prefix = "BUNMEM_"
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, value := pair[0], pair[1]

		if strings.HasPrefix(key, prefix) {
			propKey := strings.TrimPrefix(key, prefix)
			propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
			propKey = strings.TrimPrefix(propKey, ".")
			v.Set(propKey, value)
		}
	}

	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}
