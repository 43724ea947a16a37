package codec

import (
	"testing"
)

// benchmarkValues returns a set of values for targeted benchmarking
func benchmarkValues() map[string][]byte {
	return map[string][]byte{
		"Empty":          {},
		"Small":          []byte("v"),
		"Medium":         []byte("medium length value for testing encoding"),
		"Large":          make([]byte, 1024),      // 1KB of data
		"VeryLarge":      make([]byte, 1024*16),   // 16KB of data
		"Huge":           make([]byte, 1024*1024), // 1MB of data
		"BinaryContent":  {0x00, 0xff, 0xfe, 0x01, 0x80, 0x7f},
		"TextualContent": []byte(`{"looks":"like json","but":"is stored as bytes"}`),
	}
}

// BenchmarkEncode benchmarks encoding for all implementations with various value shapes
func BenchmarkEncode(b *testing.B) {
	values := benchmarkValues()

	for name, factory := range testCodecs {
		for valueName, value := range values {
			b.Run(name+"_"+valueName, func(b *testing.B) {
				c := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := c.Encode(value)
					if err != nil {
						b.Fatalf("Failed to encode: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDecode benchmarks decoding for all implementations with various value shapes
func BenchmarkDecode(b *testing.B) {
	values := benchmarkValues()

	for name, factory := range testCodecs {
		for valueName, value := range values {
			b.Run(name+"_"+valueName, func(b *testing.B) {
				c := factory()

				data, err := c.Encode(value)
				if err != nil {
					b.Fatalf("Failed to encode: %v", err)
				}

				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := c.Decode(data)
					if err != nil {
						b.Fatalf("Failed to decode: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkRoundTrip benchmarks a full encode/decode cycle
func BenchmarkRoundTrip(b *testing.B) {
	value := []byte("typical small value for a key-value store")

	for name, factory := range testCodecs {
		b.Run(name, func(b *testing.B) {
			c := factory()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				data, err := c.Encode(value)
				if err != nil {
					b.Fatalf("Failed to encode: %v", err)
				}
				if _, err := c.Decode(data); err != nil {
					b.Fatalf("Failed to decode: %v", err)
				}
			}
		})
	}
}
