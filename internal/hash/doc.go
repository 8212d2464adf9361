// Package hash provides the checksum used by snapshot headers.
//
// Snapshots are protected by CRC32-Castagnoli, which Go computes with
// hardware instructions on x86 (SSE4.2) and ARM64.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For data that arrives in pieces:
//
//	crc := hash.UpdateCRC32C(0, header)
//	crc = hash.UpdateCRC32C(crc, payload)
package hash
