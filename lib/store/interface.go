package store

import (
	"context"
	"fmt"

	"github.com/ckampfe/kvqlite/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// EngineFactory is a function type that creates the engine used by the store.
// This is used to abstract the creation of the engine from the store implementation.
type EngineFactory func() (db.Engine, error)

// IStore is the generic interface for interacting with a key-value store.
// All write operations return only a *Error (nil on success),
// while read operations return the requested data along with a *Error (nil on success).
//
// A missing key is not an error: Get reports it through the loaded return
// value, and Delete of an absent key succeeds.
type IStore interface {
	// Set inserts or updates a key-value pair. Whether an update replaces
	// the previous value or appends a new version depends on the engine
	// strategy the store was created with.
	Set(ctx context.Context, key string, value []byte) (err error)
	// Get returns the value for a key. The boolean return value indicates
	// whether a value for the key was found.
	Get(ctx context.Context, key string) (value []byte, loaded bool, err error)
	// Delete deletes a key-value pair. For versioned engines this removes
	// every stored version of the key.
	Delete(ctx context.Context, key string) (err error)
	// Keys returns all distinct keys currently in the store.
	Keys(ctx context.Context) (keys []string, err error)
	// KeysCount returns the number of distinct keys in the store.
	KeysCount(ctx context.Context) (count int64, err error)
	// EntriesCount returns the number of stored rows. For versioned engines
	// this counts every version; otherwise it equals KeysCount.
	EntriesCount(ctx context.Context) (count int64, err error)
	// CollectGarbage removes all non-current versions from a versioned
	// engine. Engines without version history report an unsupported
	// operation error.
	CollectGarbage(ctx context.Context) (err error)
	// GetEngineInfo returns metadata about the engine underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetEngineInfo(ctx context.Context) (info db.EngineInfo, err error)
	// Close releases the underlying engine. The store must not be used
	// afterwards.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "RetCInternalError"
	case RetCCodecError:
		errorCode = "RetCCodecError"
	case RetCUnsupportedOperation:
		errorCode = "RetCUnsupportedOperation"
	case RetCInvalidOperation:
		errorCode = "RetCInvalidOperation"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("KVStoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCCodecError                          // 2: A stored value could not be decoded with the configured codec.
	RetCUnsupportedOperation                // 3: Operation is not supported by the underlying engine.
	RetCInvalidOperation                    // 4: Invalid operation (e.g. store already closed).
)
