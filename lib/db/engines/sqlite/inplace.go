package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ckampfe/kvqlite/lib/db"
	"github.com/ckampfe/kvqlite/lib/db/coordinator"
)

const featuresUpdateInPlace = db.FeatureWrite | db.FeatureRead | db.FeatureDelete |
	db.FeatureKeys | db.FeatureKeysCount | db.FeatureEntriesCount

// updateInPlaceImpl keeps exactly one row per key and overwrites it on
// every write, so the entry count always equals the key count.
type updateInPlaceImpl struct {
	*engine
}

// NewUpdateInPlace creates an engine with update-in-place semantics.
// Opening the same database again with this constructor resumes the
// existing data; the schema is created on first use.
func NewUpdateInPlace(opts *Options) (db.Engine, error) {
	e, err := open(opts, db.StrategyUpdateInPlace, featuresUpdateInPlace, schemaUpdateInPlace)
	if err != nil {
		return nil, err
	}
	return &updateInPlaceImpl{engine: e}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db.Engine)
// --------------------------------------------------------------------------

func (e *updateInPlaceImpl) Write(ctx context.Context, key string, value []byte) error {
	if e.closed.Load() {
		return db.ErrEngineClosed
	}

	enc, err := e.encodeValue(value)
	if err != nil {
		return err
	}

	err = e.execStmt(ctx, `
		insert into kvs (key, value)
		values (?, ?)
		on conflict(key) do update set
			value = excluded.value,
			updated_at = STRFTIME('%Y-%m-%d %H:%M:%f', 'NOW')
	`, []byte(key), enc)
	if err != nil {
		return err
	}

	e.sizes.AddSample(len(enc))
	return nil
}

func (e *updateInPlaceImpl) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if e.closed.Load() {
		return nil, false, db.ErrEngineClosed
	}

	stored, err := coordinator.Do(e.coord, ctx, func(ctx context.Context, conn *sql.Conn) ([]byte, error) {
		var v []byte
		err := conn.QueryRowContext(ctx, `
			select value
			from kvs
			where key = ?
		`, []byte(key)).Scan(&v)
		return v, err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	value, err := e.decodeValue(stored)
	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

func (e *updateInPlaceImpl) Delete(ctx context.Context, key string) error {
	return e.execStmt(ctx, `
		delete from kvs
		where key = ?
	`, []byte(key))
}

func (e *updateInPlaceImpl) CollectGarbage(ctx context.Context) error {
	return db.ErrUnsupported
}

func (e *updateInPlaceImpl) Keys(ctx context.Context) ([]string, error) {
	return e.queryKeys(ctx, `select key from kvs`)
}

func (e *updateInPlaceImpl) KeysCount(ctx context.Context) (int64, error) {
	return e.queryCount(ctx, `select count(*) from kvs`)
}

// EntriesCount equals KeysCount under this strategy: the row is the entry
func (e *updateInPlaceImpl) EntriesCount(ctx context.Context) (int64, error) {
	return e.queryCount(ctx, `select count(*) from kvs`)
}
