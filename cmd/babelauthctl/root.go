package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coreswitch/babeld-hmac/bboltchain"
	"github.com/coreswitch/babeld-hmac/config"
)

var (
	version = "0.1.0"

	configPath string
	dbPath     string
	jsonOut    bool
)

var rootCmd = &cobra.Command{
	Use:   "babelauthctl",
	Short: "Configure and inspect Babel HMAC authentication",
	Long: `babelauthctl v` + version + `
Configure per-interface Babel HMAC authentication (RFC draft
draft-ovsienko-babel-hmac-authentication) and inspect its runtime
counters and replay-protection memory.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "babelauthd.json",
		"path to the authentication configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "keychain-db", "babelauthd.db",
		"path to the key-chain and runtime-state database")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
}

// openApp loads the configuration file (creating a default one on first
// use) and opens the key-chain/runtime-state database. Callers must
// close the returned store when done.
func openApp() (config.Config, *bboltchain.Store, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	store, err := bboltchain.Open(dbPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("open keychain db: %w", err)
	}
	return cfg, store, nil
}

func logger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
