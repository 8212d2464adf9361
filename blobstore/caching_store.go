package blobstore

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/meshid/resource"
)

// CachingStore wraps a BlobStore and keeps recently read blobs in memory.
//
// Snapshots are read whole, so the cache works on complete blobs rather
// than blocks. Cached bytes are reserved from the resource controller, if
// one is given; a blob that does not fit is simply not cached.
type CachingStore struct {
	inner BlobStore
	rc    *resource.Controller

	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name  string
	value []byte
}

// NewCachingStore creates a CachingStore holding at most capacity bytes.
func NewCachingStore(inner BlobStore, capacity int64, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		inner:     inner,
		rc:        rc,
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Open serves the blob from the cache, reading it through on a miss.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.get(name); ok {
		s.hits.Add(1)
		return &memoryBlob{data: data}, nil
	}
	s.misses.Add(1)

	data, err := Get(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.set(name, data)
	return &memoryBlob{data: data}, nil
}

// Put invalidates the cached copy and writes through.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete invalidates the cached copy and deletes from the inner store.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is passed through.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns the cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Size returns the number of cached bytes.
func (s *CachingStore) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *CachingStore) get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[name]; ok {
		s.evictList.MoveToFront(e)
		return e.Value.(*cacheEntry).value, true
	}
	return nil, false
}

func (s *CachingStore) set(name string, data []byte) {
	itemSize := int64(len(data))
	if itemSize > s.capacity {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[name]; ok {
		s.removeElement(e)
	}

	// Evict first so that released memory can be reacquired.
	for s.size+itemSize > s.capacity {
		e := s.evictList.Back()
		if e == nil {
			break
		}
		s.removeElement(e)
	}

	if !s.rc.TryAcquireMemory(itemSize) {
		return
	}

	s.items[name] = s.evictList.PushFront(&cacheEntry{name: name, value: data})
	s.size += itemSize
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[name]; ok {
		s.removeElement(e)
	}
}

func (s *CachingStore) removeElement(e *list.Element) {
	s.evictList.Remove(e)
	ent := e.Value.(*cacheEntry)
	delete(s.items, ent.name)

	itemSize := int64(len(ent.value))
	s.size -= itemSize
	s.rc.ReleaseMemory(itemSize)
}
