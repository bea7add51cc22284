package blobstore

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheEntries is the number of blobs a CachingStore keeps when no
// positive size is given.
const DefaultCacheEntries = 64

// maxParallelGets bounds concurrent fetches in GetMany.
const maxParallelGets = 16

// CachingStore wraps a BlobStore and caches whole blobs read through it.
// Grid coordinate blobs shared by many jobs are fetched once.
type CachingStore struct {
	inner BlobStore
	cache *lru.Cache[string, []byte]
}

// NewCachingStore creates a new CachingStore holding up to entries blobs.
func NewCachingStore(inner BlobStore, entries int) (*CachingStore, error) {
	if entries <= 0 {
		entries = DefaultCacheEntries
	}
	c, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, err
	}
	return &CachingStore{inner: inner, cache: c}, nil
}

// Get returns a cached blob or reads it from the inner store.
// Callers must not modify the returned slice.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.cache.Get(name); ok {
		return data, nil
	}
	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Add(name, data)
	return data, nil
}

// GetMany reads several blobs concurrently. The result is in input order.
func (s *CachingStore) GetMany(ctx context.Context, names []string) ([][]byte, error) {
	out := make([][]byte, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelGets)
	for i, name := range names {
		g.Go(func() error {
			data, err := s.Get(ctx, name)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Put writes through to the inner store and invalidates the cached entry.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List passes through to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Len returns the number of cached blobs.
func (s *CachingStore) Len() int { return s.cache.Len() }
