package handler

import (
	"context"
	"sync"

	"github.com/shopbook/backend/internal/storage"
	"github.com/shopbook/backend/internal/storage/provider"
)

// Stores hands out the active store and performs backend switches. Requests
// in flight keep the store they started with; the old backend is closed once
// the switch succeeds.
type Stores struct {
	mu       sync.RWMutex
	provider *provider.Provider
	store    storage.Store
	kind     provider.Kind
}

// NewStores wraps an already-open store.
func NewStores(p *provider.Provider, store storage.Store, kind provider.Kind) *Stores {
	return &Stores{provider: p, store: store, kind: kind}
}

// Current returns the active store.
func (s *Stores) Current() storage.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Kind returns the active backend kind.
func (s *Stores) Kind() provider.Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kind
}

// Switch moves to the given backend and persists the choice. A no-op when the
// backend is already active.
func (s *Stores) Switch(ctx context.Context, kind provider.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == s.kind {
		return nil
	}
	next, err := s.provider.Switch(ctx, s.store, kind)
	if err != nil {
		return err
	}
	s.store = next
	s.kind = kind
	return nil
}

// Close closes the active store.
func (s *Stores) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}
