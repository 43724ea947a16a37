package util

import (
	"fmt"
	"strings"

	"github.com/ckampfe/kvqlite/lib/codec"
	"github.com/ckampfe/kvqlite/lib/db"
	"github.com/ckampfe/kvqlite/lib/db/engines/sqlite"
	"github.com/ckampfe/kvqlite/lib/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the common store configuration flags to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "path"
	cmd.PersistentFlags().String(key, "kvqlite.db", WrapString("Path of the SQLite database file"))

	key = "memory"
	cmd.PersistentFlags().Bool(key, false, WrapString("Use a private in-memory database instead of a file (data is lost on exit)"))

	key = "strategy"
	cmd.PersistentFlags().String(key, "inplace", WrapString("Storage strategy to use (inplace, append)"))

	key = "slow-op-threshold"
	cmd.PersistentFlags().Duration(key, 0, WrapString("Warn about statements that held the database connection longer than this (0 disables)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("kvqlite")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetCodec creates a codec based on configuration
func GetCodec() (codec.ICodec, error) {
	switch viper.GetString("codec") {
	case "raw":
		return codec.NewRawCodec(), nil
	case "json":
		return codec.NewJSONCodec(), nil
	case "gob":
		return codec.NewGOBCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s", viper.GetString("codec"))
	}
}

// GetStoreOptions reads the engine options from viper
func GetStoreOptions() (*sqlite.Options, error) {
	c, err := GetCodec()
	if err != nil {
		return nil, err
	}

	return &sqlite.Options{
		Path:            viper.GetString("path"),
		InMemory:        viper.GetBool("memory"),
		Codec:           c,
		SlowOpThreshold: viper.GetDuration("slow-op-threshold"),
	}, nil
}

// GetEngineFactory creates an engine factory based on configuration
func GetEngineFactory() (store.EngineFactory, error) {
	opts, err := GetStoreOptions()
	if err != nil {
		return nil, err
	}

	switch strategy := viper.GetString("strategy"); db.Strategy(strategy) {
	case db.StrategyUpdateInPlace:
		return func() (db.Engine, error) { return sqlite.NewUpdateInPlace(opts) }, nil
	case db.StrategyAppend:
		return func() (db.Engine, error) { return sqlite.NewAppend(opts) }, nil
	default:
		return nil, fmt.Errorf("invalid strategy %s", strategy)
	}
}

// DescribeStoreConfig renders the active store configuration for display
func DescribeStoreConfig() string {
	location := viper.GetString("path")
	if viper.GetBool("memory") {
		location = "in-memory"
	}
	return fmt.Sprintf("strategy=%s codec=%s database=%s",
		viper.GetString("strategy"), viper.GetString("codec"), location)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
