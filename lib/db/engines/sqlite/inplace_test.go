package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ckampfe/kvqlite/lib/codec"
	"github.com/ckampfe/kvqlite/lib/db"
)

func TestUpdateInPlaceOverwriteKeepsOneEntry(t *testing.T) {
	engine, err := NewUpdateInPlace(&Options{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()

	if err := engine.Write(ctx, "hello", []byte("world")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	value, found, err := engine.Read(ctx, "hello")
	if err != nil || !found {
		t.Fatalf("Read failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(value, []byte("world")) {
		t.Errorf("Expected %q, got %q", "world", value)
	}

	if err := engine.Write(ctx, "hello", []byte("joe")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	value, found, err = engine.Read(ctx, "hello")
	if err != nil || !found {
		t.Fatalf("Read failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(value, []byte("joe")) {
		t.Errorf("Expected %q, got %q", "joe", value)
	}

	entries, err := engine.EntriesCount(ctx)
	if err != nil {
		t.Fatalf("EntriesCount failed: %v", err)
	}
	if entries != 1 {
		t.Errorf("Expected 1 entry after overwrite, got %d", entries)
	}
}

func TestUpdateInPlaceGarbageCollectUnsupported(t *testing.T) {
	engine, err := NewUpdateInPlace(&Options{InMemory: true})
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}
	defer engine.Close()

	if engine.SupportsFeature(db.FeatureGarbageCollect) {
		t.Error("UpdateInPlace should not advertise FeatureGarbageCollect")
	}

	if err := engine.CollectGarbage(context.Background()); !errors.Is(err, db.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestUpdateInPlacePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvqlite-test.db")
	ctx := context.Background()

	engine, err := NewUpdateInPlace(&Options{Path: path})
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}

	if err := engine.Write(ctx, "persistent", []byte("survives reopen")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewUpdateInPlace(&Options{Path: path})
	if err != nil {
		t.Fatalf("Failed to reopen engine: %v", err)
	}
	defer reopened.Close()

	value, found, err := reopened.Read(ctx, "persistent")
	if err != nil || !found {
		t.Fatalf("Read after reopen failed: found=%v err=%v", found, err)
	}
	if !bytes.Equal(value, []byte("survives reopen")) {
		t.Errorf("Expected value to survive reopen, got %q", value)
	}
}

func TestUpdateInPlaceWithStructuredCodecs(t *testing.T) {
	raw := []byte{'r', 0x00, 'a', 'w', 0xff}

	for name, factory := range map[string]func() codec.ICodec{
		"JSON": codec.NewJSONCodec,
		"GOB":  codec.NewGOBCodec,
	} {
		t.Run(name, func(t *testing.T) {
			engine, err := NewUpdateInPlace(&Options{InMemory: true, Codec: factory()})
			if err != nil {
				t.Fatalf("Failed to open engine: %v", err)
			}
			defer engine.Close()

			ctx := context.Background()

			if err := engine.Write(ctx, "key", raw); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			value, found, err := engine.Read(ctx, "key")
			if err != nil || !found {
				t.Fatalf("Read failed: found=%v err=%v", found, err)
			}
			if !bytes.Equal(value, raw) {
				t.Errorf("Value did not round-trip through codec: %v != %v", value, raw)
			}
		})
	}
}

func TestUpdateInPlaceCodecFailureSurfaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvqlite-test.db")
	ctx := context.Background()

	// write raw bytes that are not a valid JSON envelope
	rawEngine, err := NewUpdateInPlace(&Options{Path: path})
	if err != nil {
		t.Fatalf("Failed to open engine: %v", err)
	}
	if err := rawEngine.Write(ctx, "broken", []byte{0xff, 0xfe}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := rawEngine.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// reopening with the JSON codec must surface a codec failure on read
	jsonEngine, err := NewUpdateInPlace(&Options{Path: path, Codec: codec.NewJSONCodec()})
	if err != nil {
		t.Fatalf("Failed to reopen engine: %v", err)
	}
	defer jsonEngine.Close()

	if _, _, err := jsonEngine.Read(ctx, "broken"); !errors.Is(err, db.ErrCodec) {
		t.Errorf("Expected ErrCodec, got %v", err)
	}

	// the failure does not affect other operations
	if err := jsonEngine.Write(ctx, "fine", []byte("ok")); err != nil {
		t.Errorf("Write after codec failure should succeed, got %v", err)
	}
}
