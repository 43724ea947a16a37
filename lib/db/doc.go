// Package db provides a standardized interface for storage-strategy engines.
// It defines the Engine interface that allows consistent interaction with
// the two storage semantics the system supports while abstracting the
// persistence details.
//
// The package focuses on:
//   - A unified interface for key-value operations across both strategies
//   - Feature discovery through capability flags
//   - A shared error taxonomy (backing-engine failure vs. codec failure)
//   - Standardized metadata reporting
//
// Key Components:
//
//   - Engine Interface: The core interface both strategy implementations must
//     satisfy. It provides write operations (Write, Delete, CollectGarbage),
//     query operations (Read, Keys, KeysCount, EntriesCount), capability
//     discovery (SupportsFeature) and metadata retrieval (GetInfo).
//
//   - Strategy Identifiers: StrategyUpdateInPlace keeps exactly one row per
//     key and overwrites it on every write, so EntriesCount always equals
//     KeysCount. StrategyAppend inserts a new immutable row per write; the
//     row with the greatest timestamp (insertion order as tie-break) is the
//     key's current value, and EntriesCount grows with every write until
//     garbage collection.
//
//   - Feature Flags: The Feature type defines capability flags that engines
//     advertise through SupportsFeature. Only append engines advertise
//     FeatureVersioned and FeatureGarbageCollect; callers use the flags to
//     avoid invoking operations a strategy cannot serve.
//
//   - Error Sentinels: ErrCodec marks encode/decode failures, ErrUnsupported
//     marks operations outside an engine's feature set and ErrEngineClosed
//     marks use after Close. Everything else an engine returns is a
//     backing-engine failure. An absent key is never an error: Read reports
//     it through its found return value and Delete treats it as a no-op.
//
// Note on Concurrency:
//
// Engines are safe for concurrent use by any number of goroutines. The
// backing SQLite handle cannot execute two statements concurrently, so every
// engine funnels its statements through a serialized-access coordinator
// (github.com/ckampfe/kvqlite/lib/db/coordinator). Effects are applied in
// the order operations are accepted; two writes to the same key resolve
// deterministically by that order.
//
// Related Packages:
//
// The engines/sqlite package (github.com/ckampfe/kvqlite/lib/db/engines/sqlite)
// implements both strategies on a single SQLite database file (or an
// in-memory database) using the modernc.org/sqlite driver.
//
// The testing package (github.com/ckampfe/kvqlite/lib/db/testing) provides
// standardized tests and benchmarks for Engine implementations:
//   - RunEngineTests: Runs a standardized test suite to validate implementations
//   - RunEngineBenchmarks: Provides performance benchmarks for comparing implementations
package db
