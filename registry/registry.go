// Package registry maps storage back-end names to factories.
//
// A Registry is an explicit object passed to whoever opens storage; there
// is no process-wide instance. Names and aliases are case-insensitive.
package registry

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/blobstore"
	"github.com/hupe1980/meshid/properties"
)

// Factory opens a back-end configured by props.
type Factory func(ctx context.Context, props properties.Properties) (blobstore.BlobStore, error)

// Registry holds named back-end factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	aliases   map[string]string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		aliases:   make(map[string]string),
	}
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a factory under name. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	key := canonical(name)
	if key == "" || f == nil {
		return fmt.Errorf("%w: invalid registration %q", meshid.ErrConfiguration, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("%w: storage %q already registered", meshid.ErrConfiguration, name)
	}
	if _, ok := r.aliases[key]; ok {
		return fmt.Errorf("%w: %q is already an alias", meshid.ErrConfiguration, name)
	}
	r.factories[key] = f
	return nil
}

// Alias makes alias resolve to the registered name.
func (r *Registry) Alias(name, alias string) error {
	key, akey := canonical(name), canonical(alias)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[key]; !ok {
		return fmt.Errorf("%w: cannot alias unknown storage %q", meshid.ErrConfiguration, name)
	}
	if _, ok := r.factories[akey]; ok || akey == "" {
		return fmt.Errorf("%w: invalid alias %q", meshid.ErrConfiguration, alias)
	}
	r.aliases[akey] = key
	return nil
}

// Lookup resolves name, following an alias if needed.
func (r *Registry) Lookup(name string) (Factory, error) {
	key := canonical(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[key]; ok {
		key = target
	}
	f, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown storage %q (known: %s)", meshid.ErrConfiguration, name, strings.Join(r.namesLocked(), ", "))
	}
	return f, nil
}

// Open looks up name and calls its factory.
func (r *Registry) Open(ctx context.Context, name string, props properties.Properties) (blobstore.BlobStore, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}

	if props == nil {
		props = make(properties.Properties)
	}
	store, err := f(ctx, props)
	if err != nil {
		return nil, fmt.Errorf("open storage %q: %w", name, err)
	}
	return store, nil
}

// Names returns the registered names, without aliases, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
