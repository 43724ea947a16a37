package codec

import (
	"bytes"
	"math/rand"
	"testing"
)

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() ICodec{
	"Raw":  NewRawCodec,
	"JSON": NewJSONCodec,
	"GOB":  NewGOBCodec,
}

// testValues creates a set of test values covering the supported input space
func testValues() map[string][]byte {
	large := make([]byte, 4*1024*1024)
	rand.New(rand.NewSource(42)).Read(large)

	return map[string][]byte{
		"empty":          {},
		"simple":         []byte("hello world"),
		"embedded-nul":   {'a', 0x00, 'b', 0x00, 0x00, 'c'},
		"quoting-chars":  []byte(`'"; drop table kvs; --`),
		"all-byte-range": allBytes(),
		"large":          large,
	}
}

// allBytes returns a value containing every possible byte
func allBytes() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// TestCodecRoundTrip tests that values survive encode/decode unchanged
func TestCodecRoundTrip(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			for valueName, value := range testValues() {
				t.Run(valueName, func(t *testing.T) {
					data, err := c.Encode(value)
					if err != nil {
						t.Fatalf("Failed to encode value: %v", err)
					}

					result, err := c.Decode(data)
					if err != nil {
						t.Fatalf("Failed to decode value: %v", err)
					}

					if !bytes.Equal(value, result) {
						t.Errorf("Value doesn't match after round trip:\nOriginal: %v\nResult: %v", value, result)
					}
				})
			}
		})
	}
}

// TestCodecDeterministic tests that encoding the same value twice yields the same bytes
func TestCodecDeterministic(t *testing.T) {
	value := []byte("deterministic-check")

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			first, err := c.Encode(value)
			if err != nil {
				t.Fatalf("Failed to encode value: %v", err)
			}

			second, err := c.Encode(value)
			if err != nil {
				t.Fatalf("Failed to encode value: %v", err)
			}

			if !bytes.Equal(first, second) {
				t.Errorf("Codec is not deterministic:\nFirst: %v\nSecond: %v", first, second)
			}
		})
	}
}

// TestCodecDecodeGarbage tests that structured codecs reject undecodable input
func TestCodecDecodeGarbage(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0x00, 0x13, 0x37}

	for _, name := range []string{"JSON", "GOB"} {
		t.Run(name, func(t *testing.T) {
			c := testCodecs[name]()

			if _, err := c.Decode(garbage); err == nil {
				t.Errorf("Expected decode error for garbage input, got none")
			}
		})
	}
}

// TestCodecNames tests the codec identifiers used by config and info reporting
func TestCodecNames(t *testing.T) {
	expected := map[string]string{
		"Raw":  "raw",
		"JSON": "json",
		"GOB":  "gob",
	}

	for name, factory := range testCodecs {
		if got := factory().Name(); got != expected[name] {
			t.Errorf("Expected codec name %q, got %q", expected[name], got)
		}
	}
}
