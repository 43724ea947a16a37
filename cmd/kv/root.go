package kv

import (
	"github.com/ckampfe/kvqlite/cmd/util"
	"github.com/ckampfe/kvqlite/lib/logger"
	"github.com/ckampfe/kvqlite/lib/store"
	"github.com/ckampfe/kvqlite/lib/store/sqlstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	kvStore store.IStore

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform key-value store operations",
		PersistentPreRunE:  setupKVStore,
		PersistentPostRunE: teardownKVStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common store flags to the KV command
	util.SetupStoreFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(keysCountCmd)
	KeyValueCommands.AddCommand(entriesCountCmd)
	KeyValueCommands.AddCommand(gcCmd)
	KeyValueCommands.AddCommand(infoCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVStore opens the store configured by flags and environment
func setupKVStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Apply the configured log level to all package loggers
	level, err := logger.ParseLogLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	logger.SetGlobalLevel(level)

	// Get the engine factory
	factory, err := util.GetEngineFactory()
	if err != nil {
		return err
	}

	// Create the KV store
	kvStore, err = sqlstore.NewSQLStore(factory)

	return err
}

// teardownKVStore closes the store after the subcommand finished
func teardownKVStore(_ *cobra.Command, _ []string) error {
	if kvStore == nil {
		return nil
	}
	return kvStore.Close()
}
