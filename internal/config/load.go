package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var (
	// ErrConfigFailedToSetDefaults wraps a mapstructure.Decode failure
	// while flattening the default config into viper defaults.
	ErrConfigFailedToSetDefaults = errors.New("config: failed to set defaults")
	// ErrConfigFile wraps a config file that was named but could not be
	// read.
	ErrConfigFile = errors.New("config: file error")
)

// Load builds a Config from, in increasing precedence: the built-in
// defaults, an optional YAML file at configFile, then TXFLOW_-prefixed
// environment variables (e.g. TXFLOW_ENGINE_WORKERS).
func Load(configFile string) (*Config, error) {
	cfg := defaultConfig()

	if err := setDefaults(cfg); err != nil {
		return nil, err
	}

	if err := overrideWithFile(configFile); err != nil {
		return nil, err
	}

	viper.SetEnvPrefix("TXFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:  "INFO",
		LogFormat: "tint",
		Engine: &EngineConfig{
			ChunkSize:            500,
			Workers:              0,
			SizeWarningThreshold: 5_000_000,
		},
		Node: &NodeConfig{
			Kind: "rest",
			Host: "127.0.0.1",
			Port: 8332,
		},
		Output: &OutputConfig{
			PartitionMappingFile: "valid_mappings.csv",
			SubsetPairsFile:      "valid_combinations.csv",
			PreviewRows:          10,
		},
	}
}

func setDefaults(defaults *Config) error {
	flat := make(map[string]interface{})

	if err := mapstructure.Decode(defaults, &flat); err != nil {
		return errors.Join(ErrConfigFailedToSetDefaults, err)
	}

	for key, value := range flat {
		viper.SetDefault(key, value)
	}

	return nil
}

func overrideWithFile(configFile string) error {
	if configFile == "" {
		return nil
	}

	if _, err := os.Stat(configFile); err != nil {
		if os.IsNotExist(err) {
			return errors.Join(ErrConfigFile, fmt.Errorf("path: %s does not exist", configFile))
		}
		return err
	}

	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return errors.Join(ErrConfigFile, err)
	}

	return nil
}
