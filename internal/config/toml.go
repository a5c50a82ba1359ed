// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data  DataConfig  `toml:"data"`
	Train TrainConfig `toml:"train"`
}

// DataConfig maps dataset-related settings.
type DataConfig struct {
	Path *string `toml:"path"`
}

// TrainConfig maps selection tuning settings.
type TrainConfig struct {
	VeryRecentHours *int `toml:"very-recent-hours"`
	RecentHours     *int `toml:"recent-hours"`
	WeakTop         *int `toml:"weak-top"`
	ComboCount      *int `toml:"combo-count"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
