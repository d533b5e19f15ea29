package timeindex

import (
	"fmt"
	"time"
)

// Partition maps the time range [startAt, endAt] to the ordered sequence of
// canonical bucket labels whose boundary-aligned periods cover it. Both
// endpoints' containing buckets are included; the result is contiguous,
// non-overlapping and deduplicated. A range fully inside one bucket yields
// exactly one label.
func (r *Resolver) Partition(startAt, endAt time.Time, g Granularity) ([]string, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, g)
	}
	if endAt.Before(startAt) {
		return nil, fmt.Errorf("%w: start=%s end=%s", ErrInvalidRange,
			startAt.In(r.loc).Format(time.RFC3339), endAt.In(r.loc).Format(time.RFC3339))
	}

	cursor := g.truncate(startAt.In(r.loc))
	last := g.truncate(endAt.In(r.loc))

	var labels []string
	seen := make(map[string]struct{})
	for !cursor.After(last) {
		label := cursor.Format(g.Layout())
		if _, dup := seen[label]; !dup {
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
		cursor = g.next(cursor)
	}

	return labels, nil
}
