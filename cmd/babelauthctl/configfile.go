package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/coreswitch/babeld-hmac/config"
)

// loadConfig reads path, returning a validated default config if the
// file does not exist yet.
func loadConfig(path string) (config.Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return config.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func saveConfig(path string, cfg config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	enc, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, enc, 0o600)
}

func findInterface(cfg *config.Config, name string) *config.InterfaceConfig {
	for i := range cfg.Interfaces {
		if cfg.Interfaces[i].Name == name {
			return &cfg.Interfaces[i]
		}
	}
	return nil
}
