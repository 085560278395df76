// Package snapshot stores a rasterdoc.Document as a single deterministic
// CBOR value.
//
// A snapshot holds the canvas, resolution and layer tree. Each layer's
// pixel payload is compressed independently (none, LZ4 block or zstd)
// and carries a BLAKE3 keyed hash of the uncompressed bytes, which is
// checked when the snapshot is decoded. Encoding the same document twice
// yields identical bytes.
package snapshot
