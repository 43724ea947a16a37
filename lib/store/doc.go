// Package store provides a high-level interface for key-value storage
// operations with unified error handling. It serves as an abstraction layer
// over the lower-level db.Engine implementations, adding feature detection
// and standardized error reporting.
//
// The package focuses on:
//   - A unified interface (IStore) for key-value operations across different backends
//   - Pluggable storage backend architecture through the EngineFactory pattern
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining operations for interacting with
//     a key-value store. All implementations share this common interface, allowing
//     applications to switch between different storage strategies without code changes.
//     The interface methods return custom Error types that provide detailed information
//     about operation results.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     and descriptive messages. This system allows applications to make informed
//     decisions based on specific error conditions rather than generic errors.
//
//   - EngineFactory: A function type that abstracts the creation of underlying
//     db.Engine instances, providing dependency injection and flexible
//     configuration of storage backends.
//
// Implementations:
//
//	The package includes one implementation of the IStore interface:
//
//	- SQL Store (sqlstore): A single-node implementation that wraps a
//	  db.Engine backed by an embedded SQLite database. It translates engine
//	  errors into typed store errors and checks feature support before
//	  dispatching strategy-specific operations such as garbage collection.
//	  Available in the "github.com/ckampfe/kvqlite/lib/store/sqlstore" package.
//
// This interface-driven approach allows applications to:
//   - Switch between storage strategies depending on deployment requirements
//   - Handle errors in a consistent and type-safe manner across implementations
//   - Abstract storage implementation details from application logic
package store
