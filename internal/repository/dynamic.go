package repository

import (
	"github.com/chronidx/chronidx/internal/config"
	"github.com/chronidx/chronidx/internal/schema"
)

// DocumentDescriptor builds a descriptor for a dynamic collection whose
// entities are decoded request bodies (map[string]any). Field roles come
// from configuration instead of compiled-in accessors.
func DocumentDescriptor(collection string, cfg config.SchemaConfig) *schema.Descriptor {
	d := schema.NewDescriptor(collection)

	for _, f := range cfg.IdentityFields {
		d.Identity(f.Name, f.Sequence, mapAccessor(f.Name))
	}
	if cfg.RoutingField != "" {
		d.Routing(cfg.RoutingField, mapAccessor(cfg.RoutingField))
	}
	if cfg.TimeField != "" {
		d.Time(cfg.TimeField, mapAccessor(cfg.TimeField))
	}
	return d
}

// mapAccessor reads one field from a decoded document. A missing key reads
// as absent; an explicit JSON null does too.
func mapAccessor(field string) schema.Accessor {
	return func(entity any) any {
		doc, ok := entity.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := doc[field]
		if !ok || v == nil {
			return nil
		}
		return v
	}
}
