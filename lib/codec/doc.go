// Package codec provides translation between application values and the
// byte representation persisted in the backing database.
//
// The package focuses on:
//   - A unified interface (ICodec) for all codec implementations
//   - Exact round-trip behavior: Decode(Encode(v)) == v for all inputs,
//     including empty values and values containing arbitrary bytes
//   - Pluggable codec selection at store construction time
//
// Implementations:
//
//   - Raw Codec: stores the value bytes verbatim. This is the default and
//     the fastest option since SQLite BLOB columns hold arbitrary bytes
//     without escaping.
//
//   - JSON Codec: wraps the value in a small JSON envelope (byte values are
//     base64-encoded by encoding/json). Useful when stored values should be
//     inspectable with text tooling.
//
//   - GOB Codec: encodes the value with the stdlib gob format.
//
// All codecs are pure and stateless: the same input always yields the same
// output and no codec keeps state between calls. A decode failure is
// surfaced to the caller of the failing operation only and never corrupts
// other entries.
package codec
