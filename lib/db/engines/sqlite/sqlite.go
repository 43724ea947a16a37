package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ckampfe/kvqlite/lib/codec"
	"github.com/ckampfe/kvqlite/lib/db"
	"github.com/ckampfe/kvqlite/lib/db/coordinator"
	"github.com/ckampfe/kvqlite/lib/db/util"
	"github.com/ckampfe/kvqlite/lib/logger"
	_ "modernc.org/sqlite"
)

var log = logger.GetLogger("engines/sqlite")

// driverName is the name modernc.org/sqlite registers with database/sql
const driverName = "sqlite"

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures an engine during initialization
type Options struct {
	// Path is the SQLite database file used when InMemory is false.
	// A file holds exactly one schema variant; an engine opened with a
	// different strategy on the same file will fail on first use.
	Path string
	// InMemory selects a private in-memory database instead of a file
	InMemory bool
	// Codec translates values to/from their stored representation
	Codec codec.ICodec
	// SlowOpThreshold enables warn-logging for statements that held the
	// connection longer than the threshold (0 disables the check)
	SlowOpThreshold time.Duration
}

// DefaultOptions returns the default engine options
func DefaultOptions() *Options {
	return &Options{
		Path:  "kvqlite.db",
		Codec: codec.NewRawCodec(),
	}
}

// --------------------------------------------------------------------------
// Shared engine plumbing
// --------------------------------------------------------------------------

// engine carries everything both strategy implementations share: the
// database handle, the coordinator owning its sole connection, the codec
// and the bookkeeping for info reporting.
type engine struct {
	sqldb    *sql.DB
	coord    *coordinator.Coordinator
	codec    codec.ICodec
	strategy db.Strategy
	features db.Feature
	path     string
	inMemory bool
	sizes    *util.SizeHistogram
	closed   atomic.Bool
}

// open connects to the database, ensures the strategy's schema exists and
// hands the sole connection to a new coordinator.
func open(opts *Options, strategy db.Strategy, features db.Feature, ddl []string) (*engine, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Codec == nil {
		opts.Codec = codec.NewRawCodec()
	}

	dsn := opts.Path
	if opts.InMemory {
		dsn = ":memory:"
	}

	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// the coordinator's connection is the only one that may ever exist
	sqldb.SetMaxOpenConns(1)

	ctx := context.Background()

	conn, err := sqldb.Conn(ctx)
	if err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		_ = sqldb.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// schema creation is idempotent and safe to run on every open
	if err := immediate(ctx, conn, func(ctx context.Context) error {
		for _, stmt := range ddl {
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = conn.Close()
		_ = sqldb.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	log.Debugf("opened %s engine (in-memory=%v, path=%s, codec=%s)",
		strategy, opts.InMemory, opts.Path, opts.Codec.Name())

	return &engine{
		sqldb:    sqldb,
		coord:    coordinator.New(conn, opts.SlowOpThreshold),
		codec:    opts.Codec,
		strategy: strategy,
		features: features,
		path:     opts.Path,
		inMemory: opts.InMemory,
		sizes:    util.NewSizeHistogram(),
	}, nil
}

// immediate runs fn inside a BEGIN IMMEDIATE transaction on conn, taking
// the write lock up front so a multi-statement operation can never deadlock
// against a later lock upgrade.
func immediate(ctx context.Context, conn *sql.Conn, fn func(ctx context.Context) error) error {
	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return err
	}

	if err := fn(ctx); err != nil {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		return err
	}

	return nil
}

// --------------------------------------------------------------------------
// Codec helpers
// --------------------------------------------------------------------------

// encodeValue encodes a value for storage, marking failures as codec errors
func (e *engine) encodeValue(value []byte) ([]byte, error) {
	enc, err := e.codec.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", db.ErrCodec, err)
	}
	if enc == nil {
		// value columns are NOT NULL, empty values are stored as empty blobs
		enc = []byte{}
	}
	return enc, nil
}

// decodeValue decodes a stored value, marking failures as codec errors
func (e *engine) decodeValue(data []byte) ([]byte, error) {
	dec, err := e.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", db.ErrCodec, err)
	}
	return dec, nil
}

// --------------------------------------------------------------------------
// Shared statement helpers
// --------------------------------------------------------------------------

// execStmt runs a single statement through the coordinator
func (e *engine) execStmt(ctx context.Context, query string, args ...interface{}) error {
	if e.closed.Load() {
		return db.ErrEngineClosed
	}

	_, err := coordinator.Do(e.coord, ctx, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		_, err := conn.ExecContext(ctx, query, args...)
		return struct{}{}, err
	})
	return err
}

// queryCount runs a single-row count query through the coordinator
func (e *engine) queryCount(ctx context.Context, query string) (int64, error) {
	if e.closed.Load() {
		return 0, db.ErrEngineClosed
	}

	return coordinator.Do(e.coord, ctx, func(ctx context.Context, conn *sql.Conn) (int64, error) {
		var n int64
		err := conn.QueryRowContext(ctx, query).Scan(&n)
		return n, err
	})
}

// queryKeys runs a key-listing query through the coordinator
func (e *engine) queryKeys(ctx context.Context, query string) ([]string, error) {
	if e.closed.Load() {
		return nil, db.ErrEngineClosed
	}

	return coordinator.Do(e.coord, ctx, func(ctx context.Context, conn *sql.Conn) ([]string, error) {
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var keys []string
		for rows.Next() {
			var key []byte
			if err := rows.Scan(&key); err != nil {
				return nil, err
			}
			keys = append(keys, string(key))
		}

		return keys, rows.Err()
	})
}

// --------------------------------------------------------------------------
// Shared Interface Methods (docu see db.Engine)
// --------------------------------------------------------------------------

func (e *engine) SupportsFeature(feature db.Feature) bool {
	return e.features&feature == feature
}

func (e *engine) GetInfo(ctx context.Context) (db.EngineInfo, error) {
	if e.closed.Load() {
		return db.EngineInfo{}, db.ErrEngineClosed
	}

	var features []db.Feature
	for f := db.FeatureWrite; f <= db.FeatureGarbageCollect; f <<= 1 {
		if e.SupportsFeature(f) {
			features = append(features, f)
		}
	}

	info := db.EngineInfo{
		Strategy:          e.strategy,
		InMemory:          e.inMemory,
		Codec:             e.codec.Name(),
		SupportedFeatures: features,
		ValueSizes: db.ValueSizeStats{
			Count:   e.sizes.Count(),
			Average: e.sizes.AverageSize(),
			Median:  e.sizes.MedianEstimate(),
			P99:     e.sizes.PercentileEstimate(99),
		},
	}
	if !e.inMemory {
		info.Path = e.path
	}

	return info, nil
}

func (e *engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}

	// the coordinator drains its queue and releases the connection first
	if err := e.coord.Close(); err != nil {
		_ = e.sqldb.Close()
		return err
	}

	return e.sqldb.Close()
}
