package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store with in-process maps. It is the default
// backend for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	indices map[string]map[string]Document
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{indices: make(map[string]map[string]Document)}
}

// Put writes a document body under (index, id)
func (s *MemoryStore) Put(ctx context.Context, index, id, routing string, body []byte) error {
	bodyCopy := make([]byte, len(body))
	copy(bodyCopy, body)

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.indices[index]
	if !ok {
		docs = make(map[string]Document)
		s.indices[index] = docs
	}
	docs[id] = Document{Index: index, ID: id, Routing: routing, Body: bodyCopy}
	return nil
}

// Get returns the document from the first matching index holding it
func (s *MemoryStore) Get(ctx context.Context, selectors []string, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, index := range s.sortedIndexNames() {
		if !Matches(index, selectors) {
			continue
		}
		if doc, ok := s.indices[index][id]; ok {
			return &doc, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the document from every matching index
func (s *MemoryStore) Delete(ctx context.Context, selectors []string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index, docs := range s.indices {
		if Matches(index, selectors) {
			delete(docs, id)
		}
	}
	return nil
}

// Search returns all documents in the matching indices
func (s *MemoryStore) Search(ctx context.Context, selectors []string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, index := range s.sortedIndexNames() {
		if !Matches(index, selectors) {
			continue
		}

		ids := make([]string, 0, len(s.indices[index]))
		for id := range s.indices[index] {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			out = append(out, s.indices[index][id])
		}
	}
	return out, nil
}

// Indices returns the concrete index names matching the selector tokens
func (s *MemoryStore) Indices(ctx context.Context, selectors []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, index := range s.sortedIndexNames() {
		if Matches(index, selectors) {
			out = append(out, index)
		}
	}
	return out, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}

// sortedIndexNames must be called with the lock held
func (s *MemoryStore) sortedIndexNames() []string {
	names := make([]string, 0, len(s.indices))
	for name := range s.indices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
