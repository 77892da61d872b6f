// Package docstore provides a small document store: named collections of
// JSON documents addressed by string id. The Postgres implementation backs
// production; the memory implementation backs dev mode and tests.
package docstore

import (
	"context"
	"errors"
)

// Document is a schemaless JSON document.
type Document map[string]interface{}

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the interface for document persistence.
type Store interface {
	// Get fetches one document, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set fully replaces the document at (collection, id), creating it if absent.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Delete removes a document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// List returns every document in the collection, keyed by id.
	List(ctx context.Context, collection string) (map[string]Document, error)
}

// ReplaceAller is implemented by stores that can swap the entire contents of
// a collection atomically. Callers should type-assert and fall back to
// delete-then-write when the store does not support it.
type ReplaceAller interface {
	// ReplaceAll deletes every document in the collection and writes docs in
	// their place, with no intermediate state visible to readers.
	ReplaceAll(ctx context.Context, collection string, docs map[string]Document) error
}

// Clone returns a deep copy of doc through nested maps and slices.
func Clone(doc Document) Document {
	if doc == nil {
		return nil
	}
	return cloneMap(doc)
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return cloneMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
