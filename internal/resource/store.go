package resource

import (
	"context"

	"github.com/hupe1980/nngrid/blobstore"
)

// Compile-time check to ensure LimitedStore satisfies blobstore.BlobStore.
var _ blobstore.BlobStore = (*LimitedStore)(nil)

// LimitedStore charges blob transfers against a Controller's IO budget.
type LimitedStore struct {
	inner blobstore.BlobStore
	rc    *Controller
}

// NewLimitedStore wraps inner. A nil controller disables limiting.
func NewLimitedStore(inner blobstore.BlobStore, rc *Controller) *LimitedStore {
	return &LimitedStore{inner: inner, rc: rc}
}

// Get implements blobstore.BlobStore. The read is charged after it completes
// since the size is not known up front.
func (s *LimitedStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

// Put implements blobstore.BlobStore.
func (s *LimitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.rc.AcquireIO(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete implements blobstore.BlobStore.
func (s *LimitedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List implements blobstore.BlobStore.
func (s *LimitedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}
