// Package session groups the per-entity maps of one worker and persists
// them through a pluggable storage back-end.
//
// A session is opened from a property set, typically parsed from the
// MESHID_PROPERTIES environment variable:
//
//	props, _ := properties.FromEnv() // e.g. "STORAGE=local:ROOT=/scratch:COMPRESSION=zstd"
//	s, err := session.Open(ctx, registry.Builtin(), props)
//	...
//	nodes, _ := s.Map("node")
//	_ = nodes.SetSize(n)
//	_ = nodes.SetMap(ids, 0, true)
//
//	_ = s.Save(ctx) // <session-id>/node.midx, then <session-id>/MANIFEST.json
//
// Later, possibly in another process:
//
//	restored, _ := session.Open(ctx, registry.Builtin(), props)
//	_ = restored.Load(ctx, savedID)
package session
