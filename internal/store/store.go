// Package store is the document store client seam the repository writes
// through. Backends persist opaque document bodies under (index, id) and
// expand selector tokens — concrete names, period groups like
// "prefix-2019.06.*", or the degenerate "prefix-*" fallback — into the
// concrete indices they match.
package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no index in the selector holds the document
var ErrNotFound = errors.New("store: document not found")

// Document is a stored payload plus its placement
type Document struct {
	Index   string
	ID      string
	Routing string
	Body    []byte
}

// Store is the document store client interface
type Store interface {
	// Put writes a document body under (index, id). Routing is the shard
	// pinning hint; single-node backends record it without acting on it.
	Put(ctx context.Context, index, id, routing string, body []byte) error

	// Get returns the document with the given id from the indices matching
	// the selector tokens, or ErrNotFound
	Get(ctx context.Context, selectors []string, id string) (*Document, error)

	// Delete removes the document from every matching index. Missing
	// documents are not an error.
	Delete(ctx context.Context, selectors []string, id string) error

	// Search returns all documents in the indices matching the selector
	// tokens, ordered by index name then id
	Search(ctx context.Context, selectors []string) ([]Document, error)

	// Indices returns the concrete index names matching the selector tokens
	Indices(ctx context.Context, selectors []string) ([]string, error)

	// Close releases backend resources
	Close() error
}

// Matches reports whether the concrete index name is selected by any of the
// tokens. A token ending in "*" matches by prefix; anything else matches
// exactly.
func Matches(index string, selectors []string) bool {
	for _, token := range selectors {
		if prefix, ok := strings.CutSuffix(token, "*"); ok {
			if strings.HasPrefix(index, prefix) {
				return true
			}
			continue
		}
		if index == token {
			return true
		}
	}
	return false
}
