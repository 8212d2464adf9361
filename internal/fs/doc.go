// Package fs abstracts the write side of the local blob store so tests can
// inject I/O failures.
//
// Production code uses [Default], which is [LocalFS]. Tests wrap it in a
// [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: 16})
//
// Reads are not covered: the local store maps blobs with internal/mmap.
package fs
