package kv

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]
			if err := kvStore.Set(cmd.Context(), key, []byte(value)); err != nil {
				return err
			} else {
				fmt.Println("set successfully")
			}
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if resp, ok, err := kvStore.Get(cmd.Context(), key); err != nil {
				return err
			} else {
				fmt.Printf("key=%s, found=%v, resp=%s\n", key, ok, resp)
			}
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair (all versions for append stores)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := kvStore.Delete(cmd.Context(), key); err != nil {
				return err
			} else {
				fmt.Println("delete successfully")
			}
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := kvStore.Keys(cmd.Context())
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Println(key)
			}
			return nil
		},
	}
	keysCountCmd = &cobra.Command{
		Use:   "keys-count",
		Short: "Prints the number of distinct keys in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := kvStore.KeysCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("keys=%d\n", count)
			return nil
		},
	}
	entriesCountCmd = &cobra.Command{
		Use:   "entries-count",
		Short: "Prints the number of stored rows (versions included for append stores)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := kvStore.EntriesCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("entries=%d\n", count)
			return nil
		},
	}
	gcCmd = &cobra.Command{
		Use:   "gc",
		Short: "Removes all non-current versions from an append store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kvStore.CollectGarbage(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("garbage collected successfully")
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints metadata about the underlying engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := kvStore.GetEngineInfo(cmd.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
)
