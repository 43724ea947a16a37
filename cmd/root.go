package cmd

import (
	"fmt"
	"os"

	"github.com/ckampfe/kvqlite/cmd/kv"
	"github.com/ckampfe/kvqlite/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "kvqlite",
		Short: "embedded key-value store on SQLite",
		Long: fmt.Sprintf(`kvqlite (v%s)

An embedded key-value store written in Go, persisting data
in a local SQLite database with pluggable storage strategies.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kvqlite",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kvqlite v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "codec"
	RootCmd.PersistentFlags().String(key, "raw", util.WrapString("codec to use for stored values (raw, json, gob)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
