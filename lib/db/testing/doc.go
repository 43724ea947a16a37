// Package testing provides standardized tests and benchmarks for engine
// implementations that satisfy the db.Engine interface.
//
//   - RunEngineTests: Runs a test suite covering the shared strategy
//     contract (write/read round-trips, idempotent deletes, counts, empty
//     keys and values, concurrent writers) plus the strategy-specific
//     behaviors (version history and garbage collection), gated on the
//     engine's advertised feature flags.
//   - RunEngineBenchmarks: Provides performance benchmarks for comparing
//     implementations.
//
// Both strategies run the identical suite; the suite branches on
// SupportsFeature exactly where the strategies differ
// (the entry count after an overwrite).
package testing
