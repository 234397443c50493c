// Package config loads vfxlint configuration from rc files, environment
// variables, and bound command-line flags via viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the vfxlint configuration.
type Config struct {
	Format      string          `mapstructure:"format"`
	Output      string          `mapstructure:"output"`
	FailOn      string          `mapstructure:"fail_on"`
	Quiet       bool            `mapstructure:"quiet"`
	Verbose     bool            `mapstructure:"verbose"`
	Concurrency int             `mapstructure:"concurrency"`
	Parallel    bool            `mapstructure:"parallel"`
	Sequences   SequencesConfig `mapstructure:"sequences"`
}

// SequencesConfig holds the switches for the sequence consistency checks.
// A disabled check does not run at all.
type SequencesConfig struct {
	CheckResolution bool `mapstructure:"check_resolution"`
	CheckBitDepth   bool `mapstructure:"check_bit_depth"`
}

// configFiles are the rc file names searched in the working directory, in
// priority order.
var configFiles = []string{".vfxlintrc.json", ".vfxlintrc.yaml", ".vfxlintrc.yml"}

// setDefaults registers the default values on viper.
func setDefaults() {
	viper.SetDefault("format", "console")
	viper.SetDefault("fail_on", "error")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", 10)
	viper.SetDefault("parallel", true)
	viper.SetDefault("sequences.check_resolution", true)
	viper.SetDefault("sequences.check_bit_depth", true)
}

// Default returns the built-in configuration without consulting rc files or
// the environment.
func Default() *Config {
	return &Config{
		Format:      "console",
		FailOn:      "error",
		Concurrency: 10,
		Parallel:    true,
		Sequences: SequencesConfig{
			CheckResolution: true,
			CheckBitDepth:   true,
		},
	}
}

// LoadConfig loads configuration from rc files, VFXLINT_* environment
// variables, and any flags previously bound to viper.
func LoadConfig() (*Config, error) {
	setDefaults()

	for _, path := range configFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		break
	}

	viper.SetEnvPrefix("VFXLINT")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "json", "yaml", "markdown":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', 'yaml', or 'markdown'", config.Format)
	}

	switch config.FailOn {
	case "error", "warning":
	default:
		return fmt.Errorf("invalid fail-on level: %s. Must be 'error' or 'warning'", config.FailOn)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	return nil
}
