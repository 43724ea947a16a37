package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ckampfe/kvqlite/lib/db"
	"github.com/ckampfe/kvqlite/lib/db/coordinator"
)

const featuresAppend = featuresUpdateInPlace | db.FeatureVersioned | db.FeatureGarbageCollect

// appendImpl inserts a new row on every write and never mutates prior
// rows. The row with the greatest timestamp is a key's current value;
// rowid order breaks ties within one timestamp tick.
type appendImpl struct {
	*engine
}

// NewAppend creates an engine with append semantics.
// Opening the same database again with this constructor resumes the
// existing history; the schema is created on first use.
func NewAppend(opts *Options) (db.Engine, error) {
	e, err := open(opts, db.StrategyAppend, featuresAppend, schemaAppend)
	if err != nil {
		return nil, err
	}
	return &appendImpl{engine: e}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db.Engine)
// --------------------------------------------------------------------------

func (e *appendImpl) Write(ctx context.Context, key string, value []byte) error {
	if e.closed.Load() {
		return db.ErrEngineClosed
	}

	enc, err := e.encodeValue(value)
	if err != nil {
		return err
	}

	// the key row and the version row must appear atomically
	_, err = coordinator.Do(e.coord, ctx, func(ctx context.Context, conn *sql.Conn) (struct{}, error) {
		return struct{}{}, immediate(ctx, conn, func(ctx context.Context) error {
			var keyID int64
			if err := conn.QueryRowContext(ctx, `
				insert into keys (key) values (?)
				on conflict(key) do update set key = excluded.key
				returning id
			`, []byte(key)).Scan(&keyID); err != nil {
				return err
			}

			_, err := conn.ExecContext(ctx, `
				insert into vvalues (key_id, value) values (?, ?)
			`, keyID, enc)
			return err
		})
	})
	if err != nil {
		return err
	}

	e.sizes.AddSample(len(enc))
	return nil
}

func (e *appendImpl) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if e.closed.Load() {
		return nil, false, db.ErrEngineClosed
	}

	// latest version wins; rowid is the explicit tie-break for writes
	// landing in the same timestamp tick
	stored, err := coordinator.Do(e.coord, ctx, func(ctx context.Context, conn *sql.Conn) ([]byte, error) {
		var v []byte
		err := conn.QueryRowContext(ctx, `
			select vvalues.value
			from keys
			inner join vvalues
				on vvalues.key_id = keys.id
			where keys.key = ?
			order by vvalues.inserted_at desc, vvalues.id desc
			limit 1
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

// Delete removes the key row; the cascade removes every version
func (e *appendImpl) Delete(ctx context.Context, key string) error {
	return e.execStmt(ctx, `
		delete from keys
		where key = ?
	`, []byte(key))
}

// CollectGarbage keeps only the current version of each key, resolved with
// the same ordering Read uses
func (e *appendImpl) CollectGarbage(ctx context.Context) error {
	return e.execStmt(ctx, `
		delete from vvalues
		where id not in (
			select id from (
				select
					id,
					row_number() over (
						partition by key_id
						order by inserted_at desc, id desc
					) as rn
				from vvalues
			)
			where rn = 1
		)
	`)
}

func (e *appendImpl) Keys(ctx context.Context) ([]string, error) {
	return e.queryKeys(ctx, `select key from keys`)
}

func (e *appendImpl) KeysCount(ctx context.Context) (int64, error) {
	return e.queryCount(ctx, `select count(*) from keys`)
}

func (e *appendImpl) EntriesCount(ctx context.Context) (int64, error) {
	return e.queryCount(ctx, `select count(*) from vvalues`)
}
