// Package coordinator serializes access to the single SQLite connection.
//
// SQLite exposes one logical handle that cannot safely execute two
// statements concurrently, while the store must accept operations from
// arbitrarily many goroutines. The coordinator closes that gap: it owns the
// sole *sql.Conn, accepts operations through a lock-free multi-producer
// single-consumer queue and executes them one at a time on a single worker
// goroutine.
//
// Guarantees:
//
//   - Total order: effects are applied in the order operations are accepted
//     into the queue (FIFO). Two writes to the same key resolve
//     deterministically by that order.
//   - Isolation: each operation is atomic with respect to the others; no
//     operation observes a partially-applied effect.
//   - Failure isolation: a failing operation reports its error only to its
//     submitter. The queue and the worker continue unaffected, so the store
//     stays usable after any storage-engine failure.
//   - Cancellation: a context cancelled before the operation is accepted
//     prevents execution entirely. Once accepted, the operation runs to
//     completion and its result is delivered through a buffered channel to
//     whichever caller is still listening; the worker never blocks on an
//     abandoned submitter.
//   - No timeouts: the coordinator imposes none, callers may wrap contexts.
//
// Callers submit typed operations through the generic Do function. The
// package also records operation counters (VictoriaMetrics metrics), tracks
// the in-flight depth and warn-logs operations that hold the connection
// past a configurable threshold.
package coordinator
