package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/chronidx/chronidx/internal/config"
	"github.com/chronidx/chronidx/internal/events"
	"github.com/chronidx/chronidx/internal/logging"
	"github.com/chronidx/chronidx/internal/repository"
	"github.com/chronidx/chronidx/internal/schema"
	"github.com/chronidx/chronidx/internal/store"
	"github.com/chronidx/chronidx/internal/timeindex"
)

// Handler contains all HTTP handlers. Repositories are created per
// collection on first use and cached for the life of the process.
type Handler struct {
	logger    *logging.Logger
	store     store.Store
	publisher events.Publisher
	cfg       config.Config

	granularity timeindex.Granularity
	location    *time.Location

	registry *schema.Registry
	mu       sync.Mutex
	repos    map[string]*repository.Repository
}

// New creates a handler instance. The index configuration must already be
// validated; granularity and timezone parse errors surface here otherwise.
func New(logger *logging.Logger, st store.Store, pub events.Publisher, cfg config.Config) (*Handler, error) {
	granularity, err := timeindex.ParseGranularity(cfg.Index.Granularity)
	if err != nil {
		return nil, err
	}
	location, err := timeindex.ParseLocation(cfg.Index.Timezone)
	if err != nil {
		return nil, err
	}

	return &Handler{
		logger:      logger,
		store:       st,
		publisher:   pub,
		cfg:         cfg,
		granularity: granularity,
		location:    location,
		registry:    schema.NewRegistry(),
		repos:       make(map[string]*repository.Repository),
	}, nil
}

// repo returns the repository for a collection, creating it on first use
func (h *Handler) repo(collection string) (*repository.Repository, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok := h.repos[collection]; ok {
		return r, nil
	}

	meta, err := h.registry.Resolve(repository.DocumentDescriptor(collection, h.cfg.Schema))
	if err != nil {
		return nil, err
	}

	r := repository.New(meta, h.store, h.publisher, repository.Options{
		Prefix:         h.cfg.Index.Prefix,
		Granularity:    h.granularity,
		Timezone:       h.location,
		GroupSelect:    h.cfg.Index.GroupSelect,
		MaxSelectors:   h.cfg.Index.MaxSelectors,
		Delimiter:      h.cfg.Schema.Delimiter,
		StrictIdentity: h.cfg.Index.StrictIdentity,
	})

	h.repos[collection] = r
	h.logger.Debug("Created collection repository",
		"collection", collection,
		"prefix", r.Prefix(),
		"granularity", string(h.granularity))
	return r, nil
}

// validateCollection restricts collection names to characters that cannot
// collide with selector syntax (wildcards, commas, key separators)
func validateCollection(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return fmt.Errorf("invalid collection name %q: only letters, digits and underscore are allowed", name)
	}
	return nil
}
