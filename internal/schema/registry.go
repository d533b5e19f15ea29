package schema

import (
	"fmt"
	"sort"
	"sync"
)

// ConfigurationError reports an ambiguous or invalid descriptor. It surfaces
// at resolution time so a broken descriptor fails at startup, not on the
// first write.
type ConfigurationError struct {
	Type    string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("schema: type %q: %s", e.Type, e.Message)
}

// IdentityField is one resolved identity field, already ordered
type IdentityField struct {
	Name     string
	Sequence int
	Get      Accessor
}

// NamedAccessor is a resolved single-field role (routing or time)
type NamedAccessor struct {
	Name string
	Get  Accessor
}

// Metadata is the resolved, immutable view of one entity type. Identity
// fields are sorted by (sequence, name) ascending. It is never mutated after
// construction and is safe to share across goroutines.
type Metadata struct {
	Type           string
	IdentityFields []IdentityField
	Routing        *NamedAccessor
	Time           *NamedAccessor
}

// HasIdentity reports whether the type declares any identity fields
func (m *Metadata) HasIdentity() bool {
	return len(m.IdentityFields) > 0
}

// Registry resolves descriptors into metadata and memoizes the result per
// type name. Resolution runs under the registry lock, so concurrent first-use
// of the same type produces exactly one metadata value.
type Registry struct {
	mu    sync.Mutex
	types map[string]*Metadata
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Metadata)}
}

// Resolve returns the metadata for the descriptor's type, resolving it on
// first use. Subsequent calls for the same type name return the cached value
// without re-reading the descriptor.
func (r *Registry) Resolve(d *Descriptor) (*Metadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if meta, ok := r.types[d.typeName]; ok {
		return meta, nil
	}

	meta, err := resolve(d)
	if err != nil {
		return nil, err
	}

	r.types[d.typeName] = meta
	return meta, nil
}

// Lookup returns the already-resolved metadata for a type name, if any
func (r *Registry) Lookup(typeName string) (*Metadata, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta, ok := r.types[typeName]
	return meta, ok
}

// resolve validates the descriptor and builds its metadata
func resolve(d *Descriptor) (*Metadata, error) {
	meta := &Metadata{Type: d.typeName}

	for _, f := range d.fields {
		switch f.Role {
		case RoleIdentity:
			meta.IdentityFields = append(meta.IdentityFields, IdentityField{
				Name:     f.Name,
				Sequence: f.Sequence,
				Get:      f.Get,
			})
		case RoleRouting:
			meta.Routing = &NamedAccessor{Name: f.Name, Get: f.Get}
		case RoleTime:
			meta.Time = &NamedAccessor{Name: f.Name, Get: f.Get}
		default:
			return nil, &ConfigurationError{Type: d.typeName, Message: fmt.Sprintf("unknown role %d for field %q", f.Role, f.Name)}
		}
	}

	// Stable sort over the registry's own slice; the descriptor is left as
	// declared.
	sort.SliceStable(meta.IdentityFields, func(i, j int) bool {
		a, b := meta.IdentityFields[i], meta.IdentityFields[j]
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		return a.Name < b.Name
	})

	seen := make(map[string]struct{}, len(meta.IdentityFields))
	for _, f := range meta.IdentityFields {
		key := fmt.Sprintf("%d/%s", f.Sequence, f.Name)
		if _, dup := seen[key]; dup {
			return nil, &ConfigurationError{
				Type:    d.typeName,
				Message: fmt.Sprintf("ambiguous identity ordering: duplicate (sequence=%d, field=%q)", f.Sequence, f.Name),
			}
		}
		seen[key] = struct{}{}
	}

	return meta, nil
}
