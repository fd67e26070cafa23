package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset authentication state",
}

var clearBabelCmd = &cobra.Command{
	Use: "babel",
}

var clearAuthCmd = &cobra.Command{
	Use:     "authentication",
	Aliases: []string{"auth"},
}

var clearFilterIface string

var clearStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Clear authentication statistics counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openApp()
		if err != nil {
			return err
		}
		defer store.Close()

		if clearFilterIface != "" {
			if err := store.ClearCounters("iface:" + clearFilterIface); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared stats for interface %s\n", clearFilterIface)
			return nil
		}

		if err := store.ClearCounters("process"); err != nil {
			return err
		}
		for _, ifc := range cfg.Interfaces {
			if err := store.ClearCounters("iface:" + ifc.Name); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cleared all authentication stats")
		return nil
	},
}

// clearMemoryCmd exists to complete the show/clear command pairing,
// but ANM is in-process state owned by a running daemon's Context and
// is never written to the key-chain database, so there is nothing for
// a standalone CLI invocation to clear.
var clearMemoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Report that Authentic Neighbor Memory has no on-disk state to clear",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Authentic Neighbor Memory is in-process state held by the running")
		fmt.Fprintln(cmd.OutOrStdout(), "authentication daemon and is never persisted to disk; there is nothing")
		fmt.Fprintln(cmd.OutOrStdout(), "for this standalone invocation to clear.")
		return nil
	},
}

func init() {
	clearStatsCmd.Flags().StringVar(&clearFilterIface, "interface", "", "clear only this interface's counters")

	clearAuthCmd.AddCommand(clearStatsCmd, clearMemoryCmd)
	clearBabelCmd.AddCommand(clearAuthCmd)
	clearCmd.AddCommand(clearBabelCmd)
	rootCmd.AddCommand(clearCmd)
}
