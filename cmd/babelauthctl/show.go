package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/coreswitch/babeld-hmac/stats"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Inspect authentication state",
}

var showBabelCmd = &cobra.Command{
	Use: "babel",
}

var showAuthCmd = &cobra.Command{
	Use:     "authentication",
	Aliases: []string{"auth"},
}

var showFilterIface string

var showStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show authentication statistics counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openApp()
		if err != nil {
			return err
		}
		defer store.Close()

		var process stats.Counters
		if err := store.LoadCounters("process", &process); err != nil {
			return err
		}

		var ifaceCounters stats.Counters
		if showFilterIface != "" {
			if err := store.LoadCounters("iface:"+showFilterIface, &ifaceCounters); err != nil {
				return err
			}
		}

		if jsonOut {
			if err := printStatsJSON(cmd, "process", process); err != nil {
				return err
			}
			if showFilterIface != "" {
				return printStatsJSON(cmd, showFilterIface, ifaceCounters)
			}
			return nil
		}
		printStatsTable(cmd, "process", process)
		if showFilterIface != "" {
			printStatsTable(cmd, showFilterIface, ifaceCounters)
		}
		return nil
	},
}

// showMemoryCmd reports Authentic Neighbor Memory. ANM lives only in
// the memory of a running babel authentication daemon's Context — it
// is never written to the key-chain database — so a standalone
// invocation of this CLI has no records to show. It prints an empty
// result and says so, rather than silently faking persistence.
var showMemoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Report that Authentic Neighbor Memory has no on-disk records to show",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOut {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode([]struct{}{})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Authentic Neighbor Memory is in-process state held by the running")
		fmt.Fprintln(cmd.OutOrStdout(), "authentication daemon and is never persisted to disk; this standalone")
		fmt.Fprintln(cmd.OutOrStdout(), "invocation has no records to show.")
		return nil
	},
}

func printStatsTable(cmd *cobra.Command, scope string, c stats.Counters) {
	t := newResultTable()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle("AUTHENTICATION STATISTICS: " + scope)
	t.AppendHeader(table2Row("Counter", "Value"))
	for _, name := range stats.All() {
		t.AppendRow(table2Row(name.String(), c.Get(name)))
	}
	t.Render()
}

func printStatsJSON(cmd *cobra.Command, scope string, c stats.Counters) error {
	out := map[string]uint64{}
	for _, name := range stats.All() {
		out[name.String()] = c.Get(name)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"scope": scope, "counters": out})
}

func newResultTable() table.Writer {
	t := table.NewWriter()
	style := table.StyleRounded
	style.Color.Header = text.Colors{text.FgCyan, text.Bold}
	t.SetStyle(style)
	return t
}

func table2Row(cells ...any) table.Row {
	return table.Row(cells)
}

func init() {
	showStatsCmd.Flags().StringVar(&showFilterIface, "interface", "", "also show this interface's counters")

	showAuthCmd.AddCommand(showStatsCmd, showMemoryCmd)
	showBabelCmd.AddCommand(showAuthCmd)
	showCmd.AddCommand(showBabelCmd)
	rootCmd.AddCommand(showCmd)
}
