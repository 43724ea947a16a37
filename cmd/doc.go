// Package cmd implements the command-line interface for the kvqlite embedded
// key-value store. It provides a hierarchical command structure for working
// with a local SQLite-backed store.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value store operations (get, set, delete, gc, etc.)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See kvqlite -help for a list of all commands.
package cmd
