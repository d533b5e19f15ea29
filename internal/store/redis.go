package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chronidx/chronidx/internal/compression"
)

// RedisConfig represents Redis store configuration
type RedisConfig struct {
	URL       string // Redis URL (e.g., redis://localhost:6379)
	Password  string // Optional password
	DB        int    // Database number (default: 0)
	KeyPrefix string // Key namespace (default: "chronidx")

	// Codec compresses stored envelopes; nil stores them raw
	Codec compression.Compressor
}

// RedisStore implements Store over Redis, one hash per index. Document
// bodies travel in a small envelope that carries the routing hint, encoded
// and then run through the configured codec.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	codec     compression.Compressor
}

// envelope is the stored representation of one document
type envelope struct {
	Routing string `json:"routing,omitempty"`
	Body    []byte `json:"body"`
}

// NewRedisStore creates a Redis-backed store and verifies the connection
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Fallback to simple options
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "chronidx"
	}

	codec := cfg.Codec
	if codec == nil {
		codec = &compression.NoneCompressor{}
	}

	return &RedisStore{client: client, keyPrefix: cfg.KeyPrefix, codec: codec}, nil
}

// key converts an index name to the Redis hash key holding it
func (s *RedisStore) key(index string) string {
	return s.keyPrefix + ":" + index
}

// index converts a Redis hash key back to the index name
func (s *RedisStore) index(key string) string {
	return strings.TrimPrefix(key, s.keyPrefix+":")
}

// Put writes a document envelope into the index hash
func (s *RedisStore) Put(ctx context.Context, index, id, routing string, body []byte) error {
	raw, err := json.Marshal(envelope{Routing: routing, Body: body})
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	packed, err := s.codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("failed to compress document %s: %w", id, err)
	}

	if err := s.client.HSet(ctx, s.key(index), id, packed).Err(); err != nil {
		return fmt.Errorf("failed to write document %s to index %s: %w", id, index, err)
	}
	return nil
}

// Get returns the document from the first matching index holding it
func (s *RedisStore) Get(ctx context.Context, selectors []string, id string) (*Document, error) {
	indices, err := s.Indices(ctx, selectors)
	if err != nil {
		return nil, err
	}

	for _, index := range indices {
		raw, err := s.client.HGet(ctx, s.key(index), id).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s from index %s: %w", id, index, err)
		}
		return s.decode(index, id, raw)
	}
	return nil, ErrNotFound
}

// Delete removes the document from every matching index
func (s *RedisStore) Delete(ctx context.Context, selectors []string, id string) error {
	indices, err := s.Indices(ctx, selectors)
	if err != nil {
		return err
	}

	for _, index := range indices {
		if err := s.client.HDel(ctx, s.key(index), id).Err(); err != nil {
			return fmt.Errorf("failed to delete document %s from index %s: %w", id, index, err)
		}
	}
	return nil
}

// Search returns all documents in the matching indices
func (s *RedisStore) Search(ctx context.Context, selectors []string) ([]Document, error) {
	indices, err := s.Indices(ctx, selectors)
	if err != nil {
		return nil, err
	}

	var out []Document
	for _, index := range indices {
		entries, err := s.client.HGetAll(ctx, s.key(index)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan index %s: %w", index, err)
		}

		ids := make([]string, 0, len(entries))
		for id := range entries {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			doc, err := s.decode(index, id, []byte(entries[id]))
			if err != nil {
				return nil, err
			}
			out = append(out, *doc)
		}
	}
	return out, nil
}

// Indices enumerates the index hashes and filters them by the selector
func (s *RedisStore) Indices(ctx context.Context, selectors []string) ([]string, error) {
	var names []string

	iter := s.client.Scan(ctx, 0, s.keyPrefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		index := s.index(iter.Val())
		if Matches(index, selectors) {
			names = append(names, index)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to enumerate indices: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) decode(index, id string, packed []byte) (*Document, error) {
	raw, err := s.codec.Decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress document %s in index %s: %w", id, index, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode document %s in index %s: %w", id, index, err)
	}

	return &Document{Index: index, ID: id, Routing: env.Routing, Body: env.Body}, nil
}
