// Package memory is an in-process Table used by tests and local runs. Items
// are kept as JSON documents so updates behave like the document stores the
// other drivers talk to.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
)

type document map[string]json.RawMessage

type Store struct {
	mu    sync.Mutex
	items map[string]document
}

func NewStore() *Store {
	return &Store{items: make(map[string]document)}
}

func (s *Store) Get(ctx context.Context, userID string) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.items[userID]
	if !ok {
		return domain.Profile{}, store.ErrNotFound
	}
	return decode(doc)
}

func (s *Store) PutIfAbsent(ctx context.Context, p domain.Profile) error {
	doc, err := encode(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[p.UserID]; ok {
		return store.ErrAlreadyExists
	}
	s.items[p.UserID] = doc
	return nil
}

func (s *Store) UpdateIfExists(ctx context.Context, userID string, u store.Update) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.items[userID]
	if !ok {
		return domain.Profile{}, store.ErrNotFound
	}

	next := make(document, len(doc))
	for k, v := range doc {
		next[k] = v
	}
	for _, f := range u.Fields() {
		raw, err := json.Marshal(domain.StoredValue(f.Value))
		if err != nil {
			return domain.Profile{}, fmt.Errorf("memory: encode %s: %w", f.Name, err)
		}
		next[f.Name] = raw
	}

	p, err := decode(next)
	if err != nil {
		return domain.Profile{}, err
	}
	s.items[userID] = next
	return p, nil
}

func (s *Store) DeleteIfExists(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[userID]; !ok {
		return store.ErrNotFound
	}
	delete(s.items, userID)
	return nil
}

func (s *Store) ApplyMigrations(ctx context.Context) error { return nil }
func (s *Store) Ping(ctx context.Context) error            { return nil }
func (s *Store) Close() error                              { return nil }

func encode(p domain.Profile) (document, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("memory: encode profile: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("memory: encode profile: %w", err)
	}
	return doc, nil
}

func decode(doc document) (domain.Profile, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("memory: decode profile: %w", err)
	}
	var p domain.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("memory: decode profile: %w", err)
	}
	return p, nil
}
