package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/ckampfe/kvqlite/lib/db"
)

// RunEngineBenchmarks runs a standardized benchmark suite for an Engine
// implementation. The factory is invoked once per benchmark.
func RunEngineBenchmarks(b *testing.B, name string, factory EngineFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Write", func(b *testing.B) {
			benchmarkWrite(b, factory())
		})

		b.Run("WriteExisting", func(b *testing.B) {
			benchmarkWriteExisting(b, factory())
		})

		b.Run("Read", func(b *testing.B) {
			benchmarkRead(b, factory())
		})

		b.Run("Delete", func(b *testing.B) {
			benchmarkDelete(b, factory())
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkWrite(b *testing.B, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()
	value := []byte("benchmark-value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Write(ctx, fmt.Sprintf("key-%d", i), value); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}
}

func benchmarkWriteExisting(b *testing.B, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()
	value := []byte("benchmark-value")

	if err := engine.Write(ctx, "key", value); err != nil {
		b.Fatalf("Write failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Write(ctx, "key", value); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}
}

func benchmarkRead(b *testing.B, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	const keySpread = 100
	for i := 0; i < keySpread; i++ {
		if err := engine.Write(ctx, fmt.Sprintf("key-%d", i), []byte("benchmark-value")); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := engine.Read(ctx, fmt.Sprintf("key-%d", i%keySpread)); err != nil {
			b.Fatalf("Read failed: %v", err)
		}
	}
}

func benchmarkDelete(b *testing.B, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		if err := engine.Write(ctx, fmt.Sprintf("key-%d", i), []byte("v")); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := engine.Delete(ctx, fmt.Sprintf("key-%d", i)); err != nil {
			b.Fatalf("Delete failed: %v", err)
		}
	}
}

func benchmarkMixedUsage(b *testing.B, engine db.Engine) {
	defer engine.Close()
	ctx := context.Background()

	const keySpread = 100

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", i%keySpread)

		var err error
		switch i % 4 {
		case 0, 1:
			_, _, err = engine.Read(ctx, key)
		case 2:
			err = engine.Write(ctx, key, []byte("benchmark-value"))
		case 3:
			err = engine.Delete(ctx, key)
		}
		if err != nil {
			b.Fatalf("Mixed usage op failed: %v", err)
		}
	}
}
