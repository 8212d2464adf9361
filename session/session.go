package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/blobstore"
	"github.com/hupe1980/meshid/properties"
	"github.com/hupe1980/meshid/registry"
	"github.com/hupe1980/meshid/resource"
	"github.com/hupe1980/meshid/snapshot"
	"golang.org/x/sync/errgroup"
)

// Extension is appended to entity names to form blob names.
const Extension = ".midx"

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session: closed")

// Session owns one map per entity type.
type Session struct {
	id          string
	store       blobstore.BlobStore
	rc          *resource.Controller
	compression snapshot.Compression
	width       meshid.IDWidth
	logger      *meshid.Logger
	metrics     meshid.MetricsCollector

	mu     sync.Mutex
	maps   map[string]*meshid.Map
	closed bool
}

// Open opens the back-end named by the STORAGE property (default memory)
// and starts an empty session with a fresh id. A nil registry means
// registry.Builtin().
func Open(ctx context.Context, reg *registry.Registry, props properties.Properties, optFns ...Option) (*Session, error) {
	if reg == nil {
		reg = registry.Builtin()
	}
	if props == nil {
		props = make(properties.Properties)
	}

	cfg, err := parseConfig(props)
	if err != nil {
		return nil, err
	}

	opts := options{
		logger:  meshid.NoopLogger(),
		metrics: meshid.NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	id := opts.id
	if id == "" {
		id = uuid.NewString()
	}
	if err := validName(id); err != nil {
		return nil, err
	}

	rc := opts.controller
	if rc == nil {
		rc = resource.NewController(cfg.limits)
	}

	store, err := reg.Open(ctx, cfg.storage, props)
	if err != nil {
		return nil, err
	}
	if cfg.cacheBytes > 0 {
		store = blobstore.NewCachingStore(store, cfg.cacheBytes, rc)
	}

	return &Session{
		id:          id,
		store:       store,
		rc:          rc,
		compression: cfg.compression,
		width:       cfg.width,
		logger:      opts.logger.WithSession(id),
		metrics:     opts.metrics,
		maps:        make(map[string]*meshid.Map),
	}, nil
}

// ID returns the session id. Saved snapshots live below this prefix.
func (s *Session) ID() string { return s.id }

// Store returns the storage back-end.
func (s *Session) Store() blobstore.BlobStore { return s.store }

// Width returns the id width of maps created by the session.
func (s *Session) Width() meshid.IDWidth { return s.width }

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("%w: invalid name %q", meshid.ErrConfiguration, name)
	}
	return nil
}

func (s *Session) mapOptions(entity string) []meshid.Option {
	return []meshid.Option{
		meshid.WithName(entity),
		meshid.WithIDWidth(s.width),
		meshid.WithLogger(s.logger),
		meshid.WithMetrics(s.metrics),
	}
}

// Map returns the map of an entity type, creating an empty one on first
// use.
func (s *Session) Map(entity string) (*meshid.Map, error) {
	if err := validName(entity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if m, ok := s.maps[entity]; ok {
		return m, nil
	}
	m := meshid.New(s.mapOptions(entity)...)
	s.maps[entity] = m
	return m, nil
}

// Entities returns the entity types with a map, sorted.
func (s *Session) Entities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.maps))
	for name := range s.maps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// snapshotMaps copies the entity map under the lock.
func (s *Session) snapshotMaps() (map[string]*meshid.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	out := make(map[string]*meshid.Map, len(s.maps))
	for name, m := range s.maps {
		out[name] = m
	}
	return out, nil
}

// forEach runs fn for every entry of maps on the controller's workers.
func (s *Session) forEach(ctx context.Context, maps map[string]*meshid.Map, fn func(ctx context.Context, entity string, m *meshid.Map) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(int(s.rc.Config().MaxWorkers))

	for entity, m := range maps {
		g.Go(func() error {
			if err := s.rc.AcquireWorker(ctx); err != nil {
				return err
			}
			defer s.rc.ReleaseWorker()

			if err := fn(ctx, entity, m); err != nil {
				return fmt.Errorf("%s: %w", entity, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Warm freezes every map and builds the reverse orders concurrently, so the
// maps can be handed to concurrent readers.
func (s *Session) Warm(ctx context.Context) error {
	maps, err := s.snapshotMaps()
	if err != nil {
		return err
	}

	return s.forEach(ctx, maps, func(_ context.Context, _ string, m *meshid.Map) error {
		return m.Warm()
	})
}

// BlobName returns the blob name of an entity's snapshot in session id.
func BlobName(id, entity string) string {
	return path.Join(id, entity+Extension)
}

// Save encodes every map, stores it as <session-id>/<entity>.midx and
// then writes the manifest. Snapshots of a session whose Save failed are
// ignored by Load.
func (s *Session) Save(ctx context.Context) error {
	maps, err := s.snapshotMaps()
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		manifest = &Manifest{
			Session:     s.id,
			Created:     time.Now().UTC(),
			Compression: s.compression.String(),
		}
	)

	err = s.forEach(ctx, maps, func(ctx context.Context, entity string, m *meshid.Map) error {
		start := time.Now()

		data, err := snapshot.Encode(m, s.compression)
		if err != nil {
			return err
		}

		// Hold the encoded buffer against the memory limit until it is
		// stored.
		size := int64(len(data))
		if err := s.rc.AcquireMemory(ctx, size); err != nil {
			return err
		}
		defer s.rc.ReleaseMemory(size)

		if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
			return err
		}
		name := BlobName(s.id, entity)
		if err := s.store.Put(ctx, name, data); err != nil {
			return fmt.Errorf("store snapshot: %w", err)
		}

		mu.Lock()
		manifest.Entities = append(manifest.Entities, EntityInfo{
			Name:       entity,
			Blob:       name,
			Size:       m.Size(),
			Width:      m.Width().String(),
			Sequential: m.IsSequential(true),
			Bytes:      len(data),
		})
		mu.Unlock()

		s.logger.LogSnapshotSaved(ctx, entity, len(data), time.Since(start))
		return nil
	})
	if err != nil {
		return err
	}

	return writeManifest(ctx, s.store, manifest)
}

// Load restores all maps saved under session id into this session,
// replacing maps of the same entity types.
func (s *Session) Load(ctx context.Context, id string) error {
	manifest, err := ReadManifest(ctx, s.store, id)
	if err != nil {
		return err
	}

	var (
		mu     sync.Mutex
		loaded = make(map[string]*meshid.Map, len(manifest.Entities))
	)

	todo := make(map[string]*meshid.Map, len(manifest.Entities))
	for _, e := range manifest.Entities {
		todo[e.Name] = nil
	}

	err = s.forEach(ctx, todo, func(ctx context.Context, entity string, _ *meshid.Map) error {
		start := time.Now()
		info, _ := manifest.Entity(entity)

		data, err := s.read(ctx, info.Blob)
		if err != nil {
			return err
		}

		m, err := snapshot.Decode(data, s.mapOptions(entity)...)
		if err != nil {
			return err
		}
		if m.Size() != info.Size {
			return fmt.Errorf("%w: manifest records %d ids, snapshot holds %d", snapshot.ErrCorrupt, info.Size, m.Size())
		}
		if m.IsSequential(true) != info.Sequential {
			return fmt.Errorf("%w: manifest records sequential=%t for %s", snapshot.ErrCorrupt, info.Sequential, entity)
		}

		mu.Lock()
		loaded[entity] = m
		mu.Unlock()

		s.logger.LogSnapshotLoaded(ctx, entity, m.Size(), time.Since(start))
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	for entity, m := range loaded {
		s.maps[entity] = m
	}
	return nil
}

// read fetches a blob through the IO limiter.
func (s *Session) read(ctx context.Context, name string) ([]byte, error) {
	b, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	size := b.Size()
	if err := s.rc.AcquireMemory(ctx, size); err != nil {
		return nil, err
	}
	defer s.rc.ReleaseMemory(size)

	r := resource.NewRateLimitedReader(ctx, blobstore.NewReader(ctx, b), s.rc)
	return io.ReadAll(r)
}

// Delete removes every blob stored under session id, including snapshots
// left by an incomplete Save.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := validName(id); err != nil {
		return err
	}

	names, err := s.store.List(ctx, id+"/")
	if err != nil {
		return err
	}
	// The manifest goes first so a failed Delete never leaves a session
	// that looks complete.
	slices.SortStableFunc(names, func(a, b string) int {
		return cmpBool(path.Base(a) != ManifestName, path.Base(b) != ManifestName)
	})
	for _, name := range names {
		if err := s.store.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Close drops all maps. The storage back-end keeps saved snapshots.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.maps = nil
	return nil
}
