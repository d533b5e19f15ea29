// Package repository stores entities of one collection as documents in
// time-bucketed indices. It derives the document identity and routing key
// from the collection's resolved metadata, places the document by its time
// field, and answers range queries through compact index selectors.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chronidx/chronidx/internal/events"
	"github.com/chronidx/chronidx/internal/identity"
	"github.com/chronidx/chronidx/internal/logging"
	"github.com/chronidx/chronidx/internal/schema"
	"github.com/chronidx/chronidx/internal/store"
	"github.com/chronidx/chronidx/internal/timeindex"
	"github.com/chronidx/chronidx/internal/utils"
)

// Options control index naming and key derivation for one repository
type Options struct {
	// Prefix is prepended to the collection name in every index name
	Prefix string

	// Granularity selects the bucket size (daily, monthly, yearly)
	Granularity timeindex.Granularity

	// Timezone aligns bucket boundaries; nil uses the default offset
	Timezone *time.Location

	// GroupSelect collapses fully-covered periods into wildcard selectors
	GroupSelect bool

	// MaxSelectors caps selector enumeration before the wildcard fallback
	MaxSelectors int

	// Delimiter joins composite primary key segments
	Delimiter string

	// StrictIdentity rejects writes whose identity values are all absent
	StrictIdentity bool
}

// SavedDocument describes where a saved entity landed
type SavedDocument struct {
	Index   string `json:"index"`
	ID      string `json:"id"`
	Routing string `json:"routing,omitempty"`

	// Generated is true when the store assigned the identity itself
	Generated bool `json:"generated,omitempty"`
}

// Repository binds one collection's metadata to a document store
type Repository struct {
	meta        *schema.Metadata
	store       store.Store
	publisher   events.Publisher
	resolver    *timeindex.Resolver
	builder     identity.Builder
	prefix      string
	granularity timeindex.Granularity
	groupSelect bool
	logger      *logging.Logger
}

// New creates a repository for the collection described by meta
func New(meta *schema.Metadata, st store.Store, pub events.Publisher, opts Options) *Repository {
	builder := identity.NewBuilder()
	if opts.Delimiter != "" {
		builder.Delimiter = opts.Delimiter
	}
	builder.Strict = opts.StrictIdentity

	granularity := opts.Granularity
	if !granularity.Valid() {
		granularity = timeindex.Daily
	}

	return &Repository{
		meta:        meta,
		store:       st,
		publisher:   pub,
		resolver:    timeindex.NewResolverWithMaxSelectors(opts.Timezone, opts.MaxSelectors),
		builder:     builder,
		prefix:      opts.Prefix + meta.Type + "-",
		granularity: granularity,
		groupSelect: opts.GroupSelect,
		logger:      logging.Global().With("collection", meta.Type),
	}
}

// Collection returns the collection name the repository serves
func (r *Repository) Collection() string {
	return r.meta.Type
}

// Prefix returns the index name prefix, collection included
func (r *Repository) Prefix() string {
	return r.prefix
}

// Save derives the entity's identity and time bucket and writes it. When the
// collection declares no identity fields the store assigns a UUID.
func (r *Repository) Save(ctx context.Context, entity any) (*SavedDocument, error) {
	id, ok, err := r.builder.PrimaryKey(r.meta, entity)
	if err != nil {
		return nil, err
	}

	generated := false
	if !ok {
		id = uuid.New().String()
		generated = true
	}

	routing, _ := r.builder.RoutingKey(r.meta, entity)

	at, err := r.entityTime(entity)
	if err != nil {
		return nil, err
	}
	index := r.prefix + r.resolver.Label(at, r.granularity)

	body, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity for collection %s: %w", r.meta.Type, err)
	}

	if err := r.store.Put(ctx, index, id, routing, body); err != nil {
		return nil, err
	}

	r.publish(events.Event{
		Type:       events.TypeDocumentWritten,
		Collection: r.meta.Type,
		Index:      index,
		ID:         id,
		Routing:    routing,
		At:         at.Unix(),
	})

	return &SavedDocument{Index: index, ID: id, Routing: routing, Generated: generated}, nil
}

// Get returns the document by id, searching every index of the collection
func (r *Repository) Get(ctx context.Context, id string) (*store.Document, error) {
	return r.store.Get(ctx, []string{r.prefix + "*"}, id)
}

// Delete removes the document by id from every index of the collection
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, []string{r.prefix + "*"}, id); err != nil {
		return err
	}

	r.publish(events.Event{
		Type:       events.TypeDocumentDeleted,
		Collection: r.meta.Type,
		ID:         id,
		At:         time.Now().Unix(),
	})
	return nil
}

// QueryRange returns the documents written into buckets overlapping the
// epoch-second range [startAt, endAt]
func (r *Repository) QueryRange(ctx context.Context, startAt, endAt int64) ([]store.Document, error) {
	selectors, err := r.Selectors(startAt, endAt)
	if err != nil {
		return nil, err
	}
	return r.store.Search(ctx, selectors)
}

// Selectors resolves the epoch-second range into index-name selector tokens
// using the configured group-select setting. Exposed for query diagnostics.
func (r *Repository) Selectors(startAt, endAt int64) ([]string, error) {
	return r.SelectorsWithGrouping(startAt, endAt, r.groupSelect)
}

// SelectorsWithGrouping resolves the range with an explicit group-select
// setting, so diagnostics can inspect the uncompressed token set.
func (r *Repository) SelectorsWithGrouping(startAt, endAt int64, groupSelect bool) ([]string, error) {
	return r.resolver.PartitionAndSelect(r.prefix, startAt, endAt, r.granularity, groupSelect)
}

// Indices returns the concrete index names currently holding documents of
// the collection
func (r *Repository) Indices(ctx context.Context) ([]string, error) {
	return r.store.Indices(ctx, []string{r.prefix + "*"})
}

// entityTime reads the entity's time field. Collections without a time field
// bucket by write time.
func (r *Repository) entityTime(entity any) (time.Time, error) {
	if r.meta.Time == nil {
		return time.Now(), nil
	}

	v := r.meta.Time.Get(entity)
	if v == nil {
		return time.Now(), nil
	}
	// A typed-nil pointer passes the interface nil check above
	if t, ok := v.(*time.Time); ok && t == nil {
		return time.Now(), nil
	}

	at, err := toTime(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s value for collection %s: %w", r.meta.Time.Name, r.meta.Type, err)
	}
	return at, nil
}

// publish sends the lifecycle event best-effort; a broker failure never
// fails the write that triggered it
func (r *Repository) publish(event events.Event) {
	if r.publisher == nil {
		return
	}

	data, err := event.Encode()
	if err != nil {
		r.logger.Warn("Failed to encode event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.EventPublishTimeout)
	defer cancel()

	if err := r.publisher.Publish(ctx, events.SubjectWrites, data); err != nil {
		r.logger.Warn("Failed to publish event",
			"type", event.Type,
			"id", event.ID,
			"error", err)
	}
}

// toTime converts a time field value to time.Time. Accepted forms: time.Time,
// RFC3339 strings, and epoch seconds as integer or float.
func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("nil time pointer")
		}
		return *t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("not an RFC3339 timestamp: %q", t)
		}
		return parsed, nil
	case int64:
		return time.Unix(t, 0), nil
	case int:
		return time.Unix(int64(t), 0), nil
	case float64:
		return time.Unix(int64(t), 0), nil
	case json.Number:
		sec, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return time.Time{}, fmt.Errorf("not an epoch timestamp: %q", t.String())
			}
			sec = int64(f)
		}
		return time.Unix(sec, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time value type %T", v)
	}
}
