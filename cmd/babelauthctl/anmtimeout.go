package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coreswitch/babeld-hmac/config"
)

var anmTimeoutCmd = &cobra.Command{
	Use:   "anm-timeout <seconds>",
	Short: "Set the Authentic Neighbor Memory eviction timeout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid seconds %q: %w", args[0], err)
		}
		cfg, store, err := openApp()
		if err != nil {
			return err
		}
		defer store.Close()

		cfg.ANMTimeoutSeconds = uint32(seconds)
		if err := config.Validate(cfg); err != nil {
			return err
		}
		if err := saveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "anm_timeout set to %ds\n", cfg.ANMTimeoutSeconds)
		return nil
	},
}

var tsBaseCmd = &cobra.Command{
	Use:   "ts-base <zero|unixtime>",
	Short: "Set the TS/PC bumper's timestamp base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base := config.TSBaseName(args[0])
		cfg, store, err := openApp()
		if err != nil {
			return err
		}
		defer store.Close()

		cfg.TSBase = base
		if err := config.Validate(cfg); err != nil {
			return err
		}
		if err := saveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ts_base set to %s\n", cfg.TSBase)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(anmTimeoutCmd, tsBaseCmd)
}
