package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ckampfe/kvqlite/lib/db"
	"github.com/ckampfe/kvqlite/lib/store"
)

type storeImpl struct {
	engine db.Engine
	closed atomic.Bool
}

// NewSQLStore creates a new store instance backed by the engine the factory
// produces. This store implementation is not distributed and only works on a
// single node.
func NewSQLStore(factory store.EngineFactory) (store.IStore, error) {
	engine, err := factory()
	if err != nil {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("failed to create engine: %v", err))
	}
	return &storeImpl{
		engine: engine,
	}, nil
}

// translateErr maps engine errors onto the typed store error codes.
// A nil error passes through unchanged.
func translateErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrCodec):
		return store.NewError(store.RetCCodecError, fmt.Sprintf("%s: %v", op, err))
	case errors.Is(err, db.ErrUnsupported):
		return store.NewError(store.RetCUnsupportedOperation, fmt.Sprintf("%s: %v", op, err))
	case errors.Is(err, db.ErrEngineClosed):
		return store.NewError(store.RetCInvalidOperation, fmt.Sprintf("%s: %v", op, err))
	default:
		return store.NewError(store.RetCInternalError, fmt.Sprintf("%s: %v", op, err))
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(ctx context.Context, key string, value []byte) error {
	if !s.engine.SupportsFeature(db.FeatureWrite) {
		return store.NewError(store.RetCUnsupportedOperation, "Set operation is not supported")
	}
	return translateErr("Set", s.engine.Write(ctx, key, value))
}

func (s *storeImpl) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !s.engine.SupportsFeature(db.FeatureRead) {
		return nil, false, store.NewError(store.RetCUnsupportedOperation, "Get operation is not supported")
	}
	value, loaded, err := s.engine.Read(ctx, key)
	if err != nil {
		return nil, false, translateErr("Get", err)
	}
	return value, loaded, nil
}

func (s *storeImpl) Delete(ctx context.Context, key string) error {
	if !s.engine.SupportsFeature(db.FeatureDelete) {
		return store.NewError(store.RetCUnsupportedOperation, "Delete operation is not supported")
	}
	return translateErr("Delete", s.engine.Delete(ctx, key))
}

func (s *storeImpl) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.engine.Keys(ctx)
	if err != nil {
		return nil, translateErr("Keys", err)
	}
	return keys, nil
}

func (s *storeImpl) KeysCount(ctx context.Context) (int64, error) {
	count, err := s.engine.KeysCount(ctx)
	if err != nil {
		return 0, translateErr("KeysCount", err)
	}
	return count, nil
}

func (s *storeImpl) EntriesCount(ctx context.Context) (int64, error) {
	count, err := s.engine.EntriesCount(ctx)
	if err != nil {
		return 0, translateErr("EntriesCount", err)
	}
	return count, nil
}

func (s *storeImpl) CollectGarbage(ctx context.Context) error {
	if !s.engine.SupportsFeature(db.FeatureGarbageCollect) {
		return store.NewError(store.RetCUnsupportedOperation, "CollectGarbage operation is not supported")
	}
	return translateErr("CollectGarbage", s.engine.CollectGarbage(ctx))
}

func (s *storeImpl) GetEngineInfo(ctx context.Context) (db.EngineInfo, error) {
	info, err := s.engine.GetInfo(ctx)
	if err != nil {
		return db.EngineInfo{}, translateErr("GetEngineInfo", err)
	}
	return info, nil
}

func (s *storeImpl) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return translateErr("Close", s.engine.Close())
}
