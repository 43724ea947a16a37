package sqlite

import (
	"testing"

	"github.com/ckampfe/kvqlite/lib/db"
	dbtesting "github.com/ckampfe/kvqlite/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunEngineTests(t, "UpdateInPlace", func() db.Engine {
		engine, err := NewUpdateInPlace(&Options{InMemory: true})
		if err != nil {
			t.Fatalf("Failed to open engine: %v", err)
		}
		return engine
	})

	dbtesting.RunEngineTests(t, "Append", func() db.Engine {
		engine, err := NewAppend(&Options{InMemory: true})
		if err != nil {
			t.Fatalf("Failed to open engine: %v", err)
		}
		return engine
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunEngineBenchmarks(b, "UpdateInPlace", func() db.Engine {
		engine, err := NewUpdateInPlace(&Options{InMemory: true})
		if err != nil {
			b.Fatalf("Failed to open engine: %v", err)
		}
		return engine
	})

	dbtesting.RunEngineBenchmarks(b, "Append", func() db.Engine {
		engine, err := NewAppend(&Options{InMemory: true})
		if err != nil {
			b.Fatalf("Failed to open engine: %v", err)
		}
		return engine
	})
}
