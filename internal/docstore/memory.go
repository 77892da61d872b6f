package docstore

import (
	"context"
	"sync"
)

// Memory is an in-memory Store for dev mode and tests. All methods copy
// documents on the way in and out, so callers never share mutable state
// with the store.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

// Get fetches one document, or ErrNotFound.
func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return Clone(doc), nil
}

// Set fully replaces the document at (collection, id), creating it if absent.
func (m *Memory) Set(_ context.Context, collection, id string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]Document)
		m.collections[collection] = coll
	}
	coll[id] = Clone(doc)
	return nil
}

// Delete removes a document. Deleting an absent document is not an error.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
	return nil
}

// List returns every document in the collection, keyed by id.
func (m *Memory) List(_ context.Context, collection string) (map[string]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Document, len(m.collections[collection]))
	for id, doc := range m.collections[collection] {
		out[id] = Clone(doc)
	}
	return out, nil
}

// ReplaceAll swaps the entire collection for docs under one lock.
func (m *Memory) ReplaceAll(_ context.Context, collection string, docs map[string]Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll := make(map[string]Document, len(docs))
	for id, doc := range docs {
		coll[id] = Clone(doc)
	}
	m.collections[collection] = coll
	return nil
}
