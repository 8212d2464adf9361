// Package snapshot serializes a meshid.Map so that a worker can persist its
// mapping and restore it without replaying the original segments.
//
// A snapshot is a fixed 36-byte header followed by one payload block. The
// payload holds the forward array as zig-zag varint deltas, which shrinks
// sequential and nearly sorted maps to about one byte per id before
// compression. The block is compressed with LZ4, zstd or snappy and stored
// uncompressed when that does not help.
//
// # Usage
//
//	data, err := snapshot.Encode(m, snapshot.Zstd)
//	...
//	restored, err := snapshot.Decode(data, meshid.WithName("node"))
//
// Decode verifies the CRC32C checksum, rebuilds the map through SetSize and
// SetMap and cross-checks the recorded sequential state.
package snapshot
