// Package config loads the bundlestat configuration file.
package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the measurement run configuration. Every field can also
// be set through BUNDLESTAT_* environment variables.
type Config struct {
	// Backend selects the bundler: esbuild, rollup, or webpack.
	Backend string `mapstructure:"backend"`
	// FixtureDir is the default root searched for fixtures.
	FixtureDir string `mapstructure:"fixture_dir"`
	// NodePath overrides lookup of npx for the external backends.
	NodePath string `mapstructure:"node_path"`
	// Debug builds the unminified debug artifact alongside every release
	// artifact.
	Debug bool `mapstructure:"debug"`
	// SingleBuild forces one backend run per fixture even on backends
	// that support batching.
	SingleBuild bool `mapstructure:"single_build"`
}

// Load reads the config file at path, or .bundlestat.yaml in the working
// directory when path is empty. A missing file is not an error; defaults
// and environment variables still apply.
func Load(path string) (*Config, error) {
	// Pick up a local .env first so BUNDLESTAT_* vars set there are seen.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("backend", "esbuild")
	v.SetDefault("fixture_dir", ".")

	v.SetEnvPrefix("BUNDLESTAT")
	v.AutomaticEnv()
	_ = v.BindEnv("backend")      // BUNDLESTAT_BACKEND
	_ = v.BindEnv("fixture_dir")  // BUNDLESTAT_FIXTURE_DIR
	_ = v.BindEnv("node_path")    // BUNDLESTAT_NODE_PATH
	_ = v.BindEnv("debug")        // BUNDLESTAT_DEBUG
	_ = v.BindEnv("single_build") // BUNDLESTAT_SINGLE_BUILD

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".bundlestat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
