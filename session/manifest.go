package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/blobstore"
)

const (
	// ManifestName is the blob written last by Save. A session without one
	// was never completely saved.
	ManifestName = "MANIFEST.json"

	// ManifestVersion is the current manifest format version.
	ManifestVersion = 1
)

// Manifest describes a saved session.
type Manifest struct {
	Version     int          `json:"version"`
	Session     string       `json:"session"`
	Created     time.Time    `json:"created"`
	Compression string       `json:"compression"`
	Entities    []EntityInfo `json:"entities"`
}

// EntityInfo describes the snapshot of one entity type.
type EntityInfo struct {
	Name       string `json:"name"`
	Blob       string `json:"blob"`
	Size       int    `json:"size"`
	Width      string `json:"width"`
	Sequential bool   `json:"sequential"`
	Bytes      int    `json:"bytes"`
}

// Entity returns the entry for name.
func (m *Manifest) Entity(name string) (EntityInfo, bool) {
	i := slices.IndexFunc(m.Entities, func(e EntityInfo) bool { return e.Name == name })
	if i < 0 {
		return EntityInfo{}, false
	}
	return m.Entities[i], true
}

func (m *Manifest) validate(id string) error {
	if m.Version != ManifestVersion {
		return fmt.Errorf("unsupported manifest version: %d (expected %d)", m.Version, ManifestVersion)
	}
	if m.Session != id {
		return fmt.Errorf("manifest belongs to session %q", m.Session)
	}
	for _, e := range m.Entities {
		if err := validName(e.Name); err != nil {
			return err
		}
		// Blobs must stay inside the session prefix.
		if e.Blob != BlobName(id, e.Name) {
			return fmt.Errorf("entity %s: unexpected blob %q", e.Name, e.Blob)
		}
	}
	return nil
}

// ManifestBlobName returns the blob name of a session's manifest.
func ManifestBlobName(id string) string {
	return path.Join(id, ManifestName)
}

func writeManifest(ctx context.Context, store blobstore.BlobStore, m *Manifest) error {
	m.Version = ManifestVersion
	slices.SortFunc(m.Entities, func(a, b EntityInfo) int {
		return strings.Compare(a.Name, b.Name)
	})

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := store.Put(ctx, ManifestBlobName(m.Session), data); err != nil {
		return fmt.Errorf("store manifest: %w", err)
	}
	return nil
}

// ReadManifest reads and validates the manifest of session id. A session
// that was never completely saved yields meshid.ErrNotFound.
func ReadManifest(ctx context.Context, store blobstore.BlobStore, id string) (*Manifest, error) {
	if err := validName(id); err != nil {
		return nil, err
	}

	data, err := blobstore.Get(ctx, store, ManifestBlobName(id))
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: no saved session %q", meshid.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("session %s: bad manifest: %w", id, err)
	}
	if err := m.validate(id); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return &m, nil
}
