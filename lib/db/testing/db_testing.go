package testing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ckampfe/kvqlite/lib/db"
)

// EngineFactory is a function that creates a new instance of an Engine implementation
type EngineFactory func() db.Engine

// RunEngineTests runs a comprehensive test suite for an Engine implementation.
func RunEngineTests(t *testing.T, name string, factory EngineFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Write&Read", func(t *testing.T) {
			testWriteRead(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("DeleteAbsent", func(t *testing.T) {
			testDeleteAbsent(t, factory())
		})

		t.Run("EmptyKeyAndValue", func(t *testing.T) {
			testEmptyKeyAndValue(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("ConcurrentWriters", func(t *testing.T) {
			testConcurrentWriters(t, factory())
		})

		t.Run("VersionHistory", func(t *testing.T) {
			testVersionHistory(t, factory())
		})

		t.Run("GarbageCollect", func(t *testing.T) {
			testGarbageCollect(t, factory())
		})

		t.Run("ClosedEngine", func(t *testing.T) {
			testClosedEngine(t, factory())
		})

		t.Run("GetInfo", func(t *testing.T) {
			testGetInfo(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the engine supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, engine db.Engine, feature db.Feature) {
	if !engine.SupportsFeature(feature) {
		t.Skip()
	}
}

// mustCounts reads both counts or fails the test
func mustCounts(t testing.TB, engine db.Engine) (keys, entries int64) {
	t.Helper()
	ctx := context.Background()

	keys, err := engine.KeysCount(ctx)
	if err != nil {
		t.Fatalf("KeysCount failed: %v", err)
	}

	entries, err = engine.EntriesCount(ctx)
	if err != nil {
		t.Fatalf("EntriesCount failed: %v", err)
	}

	return keys, entries
}

// tick sleeps past one timestamp tick so two writes get distinct timestamps
func tick() {
	time.Sleep(2 * time.Millisecond)
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testWriteRead(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	testKey := "test-key"
	testValue := []byte("test-value")

	if err := engine.Write(ctx, testKey, testValue); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	result, found, err := engine.Read(ctx, testKey)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !found {
		t.Errorf("Expected key %s to exist after Write", testKey)
	}
	if !bytes.Equal(result, testValue) {
		t.Errorf("Expected value %s, got %s", testValue, result)
	}

	_, found, err = engine.Read(ctx, "nonexistent-key")
	if err != nil {
		t.Fatalf("Read of nonexistent key should not error: %v", err)
	}
	if found {
		t.Error("Expected nonexistent key to return found=false")
	}
}

func testOverwrite(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	testKey := "test-key"

	if err := engine.Write(ctx, testKey, []byte("first")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	tick()

	if err := engine.Write(ctx, testKey, []byte("second")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	result, found, err := engine.Read(ctx, testKey)
	if err != nil || !found {
		t.Fatalf("Read after overwrite failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(result, []byte("second")) {
		t.Errorf("Expected latest value %q, got %q", "second", result)
	}

	keys, entries := mustCounts(t, engine)
	if keys != 1 {
		t.Errorf("Expected 1 key, got %d", keys)
	}

	if engine.SupportsFeature(db.FeatureVersioned) {
		// append semantics: every write is a new entry
		if entries != 2 {
			t.Errorf("Expected 2 entries, got %d", entries)
		}
	} else {
		// update-in-place semantics: the row is overwritten
		if entries != 1 {
			t.Errorf("Expected 1 entry, got %d", entries)
		}
	}
}

func testDelete(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	if err := engine.Write(ctx, "a", []byte("b")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := engine.Write(ctx, "hello", []byte("world")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	keys, entries := mustCounts(t, engine)
	if keys != 2 || entries != 2 {
		t.Fatalf("Expected 2 keys and 2 entries, got %d/%d", keys, entries)
	}

	if err := engine.Delete(ctx, "hello"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, found, err := engine.Read(ctx, "hello")
	if err != nil {
		t.Fatalf("Read after delete failed: %v", err)
	}
	if found {
		t.Error("Expected deleted key to return found=false")
	}

	keys, entries = mustCounts(t, engine)
	if keys != 1 || entries != 1 {
		t.Errorf("Expected 1 key and 1 entry after delete, got %d/%d", keys, entries)
	}
}

func testDeleteAbsent(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	if err := engine.Write(ctx, "present", []byte("value")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	keysBefore, entriesBefore := mustCounts(t, engine)

	// deleting an absent key is a no-op, not an error
	if err := engine.Delete(ctx, "never-written"); err != nil {
		t.Errorf("Delete of absent key should succeed, got %v", err)
	}

	keysAfter, entriesAfter := mustCounts(t, engine)
	if keysBefore != keysAfter || entriesBefore != entriesAfter {
		t.Errorf("Counts changed after no-op delete: %d/%d -> %d/%d",
			keysBefore, entriesBefore, keysAfter, entriesAfter)
	}
}

func testEmptyKeyAndValue(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	// both the empty key and empty values are valid and stored verbatim
	if err := engine.Write(ctx, "", []byte("value-for-empty-key")); err != nil {
		t.Fatalf("Write with empty key failed: %v", err)
	}

	result, found, err := engine.Read(ctx, "")
	if err != nil || !found {
		t.Fatalf("Read of empty key failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(result, []byte("value-for-empty-key")) {
		t.Errorf("Unexpected value for empty key: %q", result)
	}

	if err := engine.Write(ctx, "empty-value", []byte{}); err != nil {
		t.Fatalf("Write with empty value failed: %v", err)
	}

	result, found, err = engine.Read(ctx, "empty-value")
	if err != nil || !found {
		t.Fatalf("Read of empty value failed: found=%v err=%v", found, err)
	}
	if len(result) != 0 {
		t.Errorf("Expected empty value, got %q", result)
	}
}

func testKeys(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	requireFeature(t, engine, db.FeatureKeys)

	want := map[string]bool{"alpha": true, "beta": true, "gamma": true}
	for key := range want {
		if err := engine.Write(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	// a second write to an existing key must not produce a duplicate key
	if err := engine.Write(ctx, "alpha", []byte("v2")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	keys, err := engine.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}

	if len(keys) != len(want) {
		t.Errorf("Expected %d keys, got %d (%v)", len(want), len(keys), keys)
	}
	for _, key := range keys {
		if !want[key] {
			t.Errorf("Unexpected key %q", key)
		}
	}
}

func testConcurrentWriters(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	const numWriters = 32

	var wg sync.WaitGroup
	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()

			key := fmt.Sprintf("writer-%d", writer)
			value := []byte(fmt.Sprintf("value-%d", writer))

			if err := engine.Write(ctx, key, value); err != nil {
				t.Errorf("Concurrent write failed: %v", err)
				return
			}

			// every writer observes its own write
			result, found, err := engine.Read(ctx, key)
			if err != nil || !found {
				t.Errorf("Read after concurrent write failed: found=%v err=%v", found, err)
				return
			}
			if !bytes.Equal(result, value) {
				t.Errorf("Writer %d read %q, expected %q", writer, result, value)
			}
		}(i)
	}
	wg.Wait()

	// no write was lost
	keys, _ := mustCounts(t, engine)
	if keys != numWriters {
		t.Errorf("Expected %d keys after concurrent writes, got %d", numWriters, keys)
	}
}

func testVersionHistory(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	requireFeature(t, engine, db.FeatureVersioned)

	values := []string{"world", "joe", "mike", "robert"}
	for i, v := range values {
		if i > 0 {
			tick()
		}

		if err := engine.Write(ctx, "hello", []byte(v)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		result, found, err := engine.Read(ctx, "hello")
		if err != nil || !found {
			t.Fatalf("Read failed: found=%v err=%v", found, err)
		}
		if !bytes.Equal(result, []byte(v)) {
			t.Errorf("Expected latest value %q, got %q", v, result)
		}
	}

	keys, entries := mustCounts(t, engine)
	if keys != 1 {
		t.Errorf("Expected 1 key, got %d", keys)
	}
	if entries != int64(len(values)) {
		t.Errorf("Expected %d entries, got %d", len(values), entries)
	}

	// deleting the key removes the whole history
	if err := engine.Delete(ctx, "hello"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	keys, entries = mustCounts(t, engine)
	if keys != 0 || entries != 0 {
		t.Errorf("Expected empty engine after delete, got %d keys / %d entries", keys, entries)
	}
}

func testGarbageCollect(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	requireFeature(t, engine, db.FeatureGarbageCollect)

	for i, v := range []string{"world", "joe", "mike", "robert"} {
		if i > 0 {
			tick()
		}
		if err := engine.Write(ctx, "hello", []byte(v)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := engine.Write(ctx, "other", []byte("untouched")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if err := engine.CollectGarbage(ctx); err != nil {
		t.Fatalf("CollectGarbage failed: %v", err)
	}

	keys, entries := mustCounts(t, engine)
	if keys != 2 {
		t.Errorf("Expected 2 keys after GC, got %d", keys)
	}
	if entries != 2 {
		t.Errorf("Expected 2 entries after GC, got %d", entries)
	}

	// GC keeps the current value
	result, found, err := engine.Read(ctx, "hello")
	if err != nil || !found {
		t.Fatalf("Read after GC failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(result, []byte("robert")) {
		t.Errorf("Expected latest value to survive GC, got %q", result)
	}
}

func testClosedEngine(t *testing.T, engine db.Engine) {
	ctx := context.Background()

	if err := engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := engine.Write(ctx, "k", []byte("v")); !errors.Is(err, db.ErrEngineClosed) {
		t.Errorf("Expected ErrEngineClosed for Write, got %v", err)
	}

	if _, _, err := engine.Read(ctx, "k"); !errors.Is(err, db.ErrEngineClosed) {
		t.Errorf("Expected ErrEngineClosed for Read, got %v", err)
	}

	// double close is a no-op
	if err := engine.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}
}

func testGetInfo(t *testing.T, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	if err := engine.Write(ctx, "k", []byte("some-value")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	info, err := engine.GetInfo(ctx)
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}

	if info.Strategy != db.StrategyUpdateInPlace && info.Strategy != db.StrategyAppend {
		t.Errorf("Unexpected strategy %q", info.Strategy)
	}
	if len(info.SupportedFeatures) == 0 {
		t.Error("Expected at least one supported feature")
	}
	if info.ValueSizes.Count != 1 {
		t.Errorf("Expected 1 value-size sample, got %d", info.ValueSizes.Count)
	}
}
