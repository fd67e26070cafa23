package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coreswitch/babeld-hmac/config"
)

var interfaceCmd = &cobra.Command{
	Use:   "interface",
	Short: "Configure authentication for a Babel interface",
}

var (
	authModeIface    string
	authModeHash     string
	authModeKeyChain string
)

var authModeCmd = &cobra.Command{
	Use:   "auth-mode",
	Short: "Append an authentication mode (hash algorithm + key chain) to an interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openApp()
		if err != nil {
			return err
		}
		defer store.Close()

		ifc := findInterface(&cfg, authModeIface)
		if ifc == nil {
			cfg.Interfaces = append(cfg.Interfaces, config.InterfaceConfig{Name: authModeIface})
			ifc = &cfg.Interfaces[len(cfg.Interfaces)-1]
		}
		ifc.Modes = append(ifc.Modes, config.AuthModeConfig{HashAlgo: authModeHash, KeyChainName: authModeKeyChain})

		if err := saveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "interface %s: added mode %s/%s\n", authModeIface, authModeHash, authModeKeyChain)
		return nil
	},
}

var (
	rxRequiredIface string
	rxRequiredValue bool
)

var rxRequiredCmd = &cobra.Command{
	Use:   "rx-required",
	Short: "Require authenticated reception on an interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openApp()
		if err != nil {
			return err
		}
		defer store.Close()

		ifc := findInterface(&cfg, rxRequiredIface)
		if ifc == nil {
			cfg.Interfaces = append(cfg.Interfaces, config.InterfaceConfig{Name: rxRequiredIface})
			ifc = &cfg.Interfaces[len(cfg.Interfaces)-1]
		}
		ifc.RxAuthRequired = rxRequiredValue

		if err := saveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "interface %s: rx_auth_required=%v\n", rxRequiredIface, rxRequiredValue)
		return nil
	},
}

func init() {
	authModeCmd.Flags().StringVar(&authModeIface, "name", "", "interface name (required)")
	authModeCmd.Flags().StringVar(&authModeHash, "hash-algo", "", "hash algorithm: ripemd160|sha1|sha256|sha384|sha512|whirlpool (required)")
	authModeCmd.Flags().StringVar(&authModeKeyChain, "key-chain", "", "key-chain name (required)")
	_ = authModeCmd.MarkFlagRequired("name")
	_ = authModeCmd.MarkFlagRequired("hash-algo")
	_ = authModeCmd.MarkFlagRequired("key-chain")

	rxRequiredCmd.Flags().StringVar(&rxRequiredIface, "name", "", "interface name (required)")
	rxRequiredCmd.Flags().BoolVar(&rxRequiredValue, "required", true, "whether authenticated reception is required")
	_ = rxRequiredCmd.MarkFlagRequired("name")

	interfaceCmd.AddCommand(authModeCmd, rxRequiredCmd)
	rootCmd.AddCommand(interfaceCmd)
}
