// Package conv provides checked integer conversions.
//
// Maps store ids as int64 internally; callers exchanging 32-bit buffers go
// through these helpers so a value that does not fit is reported instead of
// silently truncated. The same helpers validate counts read from snapshot
// headers.
package conv
