// Package meshid maps global entity ids to process-local indices for
// parallel mesh I/O.
//
// Every worker of a partitioned mesh owns a contiguous block of local
// indices 1..N but exchanges field data against one global numbering. A Map
// records which global id sits at which local index, built from segments
// that may arrive out of order during parallel reads, and translates field
// buffers between database (local) order and global order.
//
// # Quick Start
//
//	m := meshid.New(meshid.WithName("node"))
//	_ = m.SetSize(128)
//	_ = m.SetMap(ids[64:], 64, true) // second half first
//	_ = m.SetMap(ids[:64], 0, true)
//
//	local, err := m.GlobalToLocal(2600)
//
// # Sequential Maps
//
// The common case is a worker whose ids form one contiguous run
// base+1 .. base+N. SetMap detects this incrementally, independent of the
// order segments arrive in, and such maps translate in O(1) without ever
// building a reverse table. IsSequential(true) re-verifies the whole forward
// array and is meant for tests and diagnostics.
//
// # Non-sequential Maps
//
// Otherwise the first query sorts the local indices by global id once
// (internal/isort) and later lookups binary-search that order.
//
// # Bulk Translation
//
// MapData, ReverseMapData and MapImplicitData translate []int32 or []int64
// buffers described by a field.Field. Fields that do not carry ids pass
// through unchanged.
//
// # Concurrency
//
// The build phase is single-threaded. After it, lookups and translations
// may run concurrently; call Warm before fan-out or rely on the guarded lazy
// build.
package meshid
