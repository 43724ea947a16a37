// Package sqlstore implements a single-node key-value store based on the
// store.IStore interface. It provides a thin wrapper around any db.Engine
// implementation with feature detection and typed error translation. The
// intended backend is the sqlite engine package, which persists data in an
// embedded SQLite database (or in memory).
//
// Key Features:
//   - Direct integration with db.Engine implementations
//   - Feature detection to handle unsupported operations gracefully
//   - Translation of engine errors into typed store.Error values
//   - Thread-safe operations for concurrent access
//
// Implementation Details:
//
//   - Feature Detection: Before executing operations, the store checks if the
//     underlying db.Engine implementation supports the requested feature
//     through the SupportsFeature method. Unsupported operations return
//     appropriate error codes rather than failing silently or producing
//     undefined behavior. In particular, CollectGarbage on an update-in-place
//     engine fails with RetCUnsupportedOperation without touching the engine.
//
//   - Error Translation: Engine errors are mapped onto store.RetCode values:
//     codec failures become RetCCodecError, unsupported operations become
//     RetCUnsupportedOperation, use-after-close becomes RetCInvalidOperation,
//     and everything else becomes RetCInternalError. Callers branch on the
//     code instead of matching error strings.
//
//   - Composition Architecture: The store follows a composition pattern where
//     the store.EngineFactory factory function injects the underlying
//     db.Engine implementation. This allows the store to work with any
//     db.Engine-compatible backend without modification.
//
// Thread Safety:
//
//	All operations in the store are thread-safe. The underlying engine
//	serializes access to the database through its coordinator, so concurrent
//	callers never observe partial writes.
//
// Usage Example:
//
//	// Create a store with an append-strategy in-memory engine
//	factory := func() (db.Engine, error) {
//		return sqlite.NewAppend(&sqlite.Options{InMemory: true})
//	}
//	st, err := sqlstore.NewSQLStore(factory)
//
//	// Store and retrieve a value
//	err = st.Set(ctx, "session:123", sessionData)
//	value, exists, err := st.Get(ctx, "session:123")
package sqlstore
