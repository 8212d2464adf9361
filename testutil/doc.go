// Package testutil provides testing utilities for meshid.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating id ranges, shuffling them
// reproducibly, and splitting them into segments the way a parallel reader
// delivers them.
//
// # Id Generation
//
//	ids := testutil.Iota(128, 2511)   // 2511 ... 2638
//	rng := testutil.NewRNG(seed)
//	rng.Shuffle(ids)
//
// # Segments
//
//	for _, seg := range testutil.Split(len(ids), 4) {
//	    m.SetMap(ids[seg.Offset:seg.Offset+seg.Count], seg.Offset, true)
//	}
package testutil
