package db

import (
	"context"
	"errors"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Strategy identifies the storage semantics an engine implements.
// A store instance is bound to exactly one strategy for its whole lifetime.
type Strategy string

const (
	// StrategyUpdateInPlace keeps exactly one row per key and overwrites it on write
	StrategyUpdateInPlace Strategy = "inplace"
	// StrategyAppend inserts a new row on every write, forming a version history per key
	StrategyAppend Strategy = "append"
)

// Feature represents engine capabilities as bit flags
type Feature uint64

const (
	FeatureWrite          Feature = 1 << iota // Support for Write operations
	FeatureRead                               // Support for Read operations
	FeatureDelete                             // Support for Delete operations
	FeatureKeys                               // Support for Keys listing
	FeatureKeysCount                          // Support for KeysCount operations
	FeatureEntriesCount                       // Support for EntriesCount operations
	FeatureVersioned                          // Writes keep prior versions of a key
	FeatureGarbageCollect                     // Support for CollectGarbage operations
)

func (f Feature) String() string {
	switch f {
	case FeatureWrite:
		return "Write"
	case FeatureRead:
		return "Read"
	case FeatureDelete:
		return "Delete"
	case FeatureKeys:
		return "Keys"
	case FeatureKeysCount:
		return "KeysCount"
	case FeatureEntriesCount:
		return "EntriesCount"
	case FeatureVersioned:
		return "Versioned"
	case FeatureGarbageCollect:
		return "GarbageCollect"
	default:
		return "Unknown"
	}
}

// ValueSizeStats reports the distribution of value sizes written since the
// engine was opened. All numbers are estimates derived from a histogram.
type ValueSizeStats struct {
	Count   int64 `json:"count"`
	Average int   `json:"average_bytes"`
	Median  int   `json:"median_bytes"`
	P99     int   `json:"p99_bytes"`
}

// EngineInfo describes a running engine instance
type EngineInfo struct {
	Strategy          Strategy       `json:"strategy"`
	Path              string         `json:"path,omitempty"`
	InMemory          bool           `json:"in_memory"`
	Codec             string         `json:"codec"`
	SupportedFeatures []Feature      `json:"supported_features"`
	ValueSizes        ValueSizeStats `json:"value_sizes"`
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrEngineClosed is returned for operations on a closed engine
	ErrEngineClosed = errors.New("engine closed")
	// ErrCodec wraps encode/decode failures so callers can distinguish them
	// from backing-engine failures
	ErrCodec = errors.New("codec failure")
	// ErrUnsupported is returned when an engine does not implement an operation
	ErrUnsupported = errors.New("operation not supported by engine")
)

// --------------------------------------------------------------------------
// Engine Interface
// --------------------------------------------------------------------------

// Engine defines the storage-strategy contract. The two implementations
// (update-in-place and append) must behave identically from the caller's
// point of view for every operation below; only the persistence semantics
// of Write and the meaning of EntriesCount differ.
//
// All data operations take a context. A context cancelled before the
// operation is accepted by the engine's coordinator prevents execution;
// once accepted, the operation runs to completion and the context only
// stops the caller from waiting on the result.
type Engine interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Write persists a key/value pair.
	// Update-in-place: upserts the single row for the key, replacing its value
	// and refreshing its timestamp.
	// Append: inserts a new version row and never touches prior rows.
	// Empty keys and empty values are valid and stored verbatim.
	Write(ctx context.Context, key string, value []byte) error

	// Delete removes a key and is idempotent: deleting an absent key is a
	// normal no-op, not an error.
	// Update-in-place: removes the single row.
	// Append: removes every version of the key.
	Delete(ctx context.Context, key string) error

	// CollectGarbage removes all non-current versions of every key.
	// Engines without FeatureGarbageCollect return ErrUnsupported.
	CollectGarbage(ctx context.Context) error

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Read retrieves the current value for an exact key.
	// Append engines resolve "current" as the version with the greatest
	// timestamp, insertion order breaking ties.
	// The boolean return value indicates whether a value for the key was
	// found; an absent key is not an error.
	Read(ctx context.Context, key string) (value []byte, found bool, err error)

	// Keys returns all distinct keys with at least one live entry
	Keys(ctx context.Context) ([]string, error)

	// KeysCount returns the number of distinct keys with at least one live entry
	KeysCount(ctx context.Context) (count int64, err error)

	// EntriesCount returns the total number of stored rows across all keys.
	// Update-in-place: always equals KeysCount.
	// Append: greater than or equal to KeysCount.
	EntriesCount(ctx context.Context) (count int64, err error)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the engine supports the specified feature.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the engine instance
	GetInfo(ctx context.Context) (info EngineInfo, err error)

	// Close shuts down the engine and releases the backing database handle
	Close() (err error)
}
