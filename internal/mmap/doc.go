// Package mmap provides read-only memory-mapped file access for the local
// blob store.
//
// # Usage
//
//	f, err := mmap.Open("nodes.midx")
//	if err != nil { ... }
//	defer f.Close()
//
//	f.Advise(mmap.AccessSequential)
//	data := f.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2), with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// Callers must not touch Bytes() after Close returns.
package mmap
