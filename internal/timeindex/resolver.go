package timeindex

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimezone is the reference offset used to align bucket boundaries.
	// Existing deployments named their indices under +09:00; changing this
	// changes which index a timestamp near midnight lands in.
	DefaultTimezone = "+09:00"

	// DefaultMaxSelectors is the token count above which the resolver gives up
	// enumerating indices and falls back to a single prefix wildcard
	DefaultMaxSelectors = 100
)

// Resolver computes index-name selectors for time ranges. It is immutable
// after construction and safe for concurrent use.
type Resolver struct {
	loc          *time.Location
	maxSelectors int
}

// NewResolver creates a resolver aligned to loc. A nil loc uses the
// DefaultTimezone offset.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc, _ = ParseLocation(DefaultTimezone)
	}
	return &Resolver{loc: loc, maxSelectors: DefaultMaxSelectors}
}

// NewResolverWithMaxSelectors creates a resolver with a custom fallback threshold
func NewResolverWithMaxSelectors(loc *time.Location, maxSelectors int) *Resolver {
	r := NewResolver(loc)
	if maxSelectors > 0 {
		r.maxSelectors = maxSelectors
	}
	return r
}

// Location returns the reference location buckets are aligned to
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Label returns the canonical bucket label containing t
func (r *Resolver) Label(t time.Time, g Granularity) string {
	return t.In(r.loc).Format(g.Layout())
}

// PartitionAndSelect resolves the epoch-second range [startAt, endAt] into the
// minimal ordered set of index-name tokens under prefix. With groupSelect
// enabled, fully-covered coarser periods collapse into wildcard group tokens.
func (r *Resolver) PartitionAndSelect(prefix string, startAt, endAt int64, g Granularity, groupSelect bool) ([]string, error) {
	buckets, err := r.Partition(time.Unix(startAt, 0), time.Unix(endAt, 0), g)
	if err != nil {
		return nil, err
	}
	return r.Compress(prefix, buckets, g, groupSelect)
}

// SelectorString is PartitionAndSelect joined with "," for direct use as a
// store query target.
func (r *Resolver) SelectorString(prefix string, startAt, endAt int64, g Granularity, groupSelect bool) (string, error) {
	tokens, err := r.PartitionAndSelect(prefix, startAt, endAt, g, groupSelect)
	if err != nil {
		return "", err
	}
	return strings.Join(tokens, ","), nil
}

// ParseLocation resolves a timezone setting into a time.Location. It accepts
// fixed offsets like "+09:00" or "-05:30" as well as IANA names like
// "Asia/Tokyo" and "UTC".
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = DefaultTimezone
	}

	if len(tz) == 6 && (tz[0] == '+' || tz[0] == '-') && tz[3] == ':' {
		hours, errH := strconv.Atoi(tz[1:3])
		mins, errM := strconv.Atoi(tz[4:6])
		if errH == nil && errM == nil {
			offset := hours*3600 + mins*60
			if tz[0] == '-' {
				offset = -offset
			}
			return time.FixedZone("UTC"+tz, offset), nil
		}
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}
