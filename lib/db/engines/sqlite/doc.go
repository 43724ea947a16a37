// Package sqlite implements both storage strategies of the db.Engine
// interface on a single SQLite database, using the pure-Go
// modernc.org/sqlite driver.
//
// Strategies:
//
//   - NewUpdateInPlace: one table (kvs) with exactly one row per key. A
//     write upserts the row, replacing the value and refreshing the
//     updated_at timestamp. The entry count always equals the key count.
//
//   - NewAppend: two tables. keys holds one row per distinct key; vvalues
//     holds one immutable row per write, referencing its key with an
//     ON DELETE CASCADE foreign key. A read resolves the current value with
//     "order by inserted_at desc, id desc limit 1": the greatest timestamp
//     wins and, within one timestamp tick, the last inserted row wins. The
//     same ordering drives CollectGarbage, which drops every non-current
//     version. Deleting a key removes its keys row and the cascade removes
//     all of its versions.
//
// Timestamps use SQLite's STRFTIME('%Y-%m-%d %H:%M:%f','NOW') default,
// giving millisecond resolution. The rowid tie-break makes two writes
// inside the same millisecond resolve deterministically in insertion order.
//
// Concurrency: SQLite cannot execute two statements concurrently on one
// handle, so each engine holds a single dedicated connection
// (SetMaxOpenConns(1)) owned by a coordinator that serializes all
// statements in acceptance order. Multi-statement operations (the append
// write) additionally run inside a BEGIN IMMEDIATE transaction.
//
// Both constructors ensure their schema idempotently on open, so an
// existing database file is resumed rather than recreated. One file holds
// exactly one schema variant; strategies never share a file.
package sqlite
