package catalog

import (
	"context"
	"sync/atomic"

	appErr "github.com/xxxsen/stylerec/internal/pkg/errors"
)

// Loader produces a full snapshot from an offline-built artifact.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Store holds the current catalog snapshot. Reads are lock-free; a reload
// swaps the whole snapshot so in-flight requests keep the view they started
// with.
type Store struct {
	current atomic.Pointer[Snapshot]
	loader  Loader
}

func NewStore(loader Loader) *Store {
	return &Store{loader: loader}
}

// Reload loads a fresh snapshot and swaps it in. On failure the previous
// snapshot (possibly none) stays in place.
func (s *Store) Reload(ctx context.Context) error {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	s.current.Store(snap)
	return nil
}

func (s *Store) Ready() bool {
	snap := s.current.Load()
	return snap != nil && snap.Len() > 0
}

// Snapshot returns the current snapshot, or ErrUnready before the first
// successful load.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil || snap.Len() == 0 {
		return nil, appErr.ErrUnready
	}
	return snap, nil
}
