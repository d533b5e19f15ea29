package timeindex

import (
	"fmt"
	"time"
)

// Compress walks the ordered bucket sequence and emits the selector tokens,
// each prefixed with prefix. When groupSelect is enabled and the cursor sits
// on the first sub-unit of a coarser period whose last sub-unit is still
// inside the range, the whole period collapses into one group token:
//
//	daily   -> "YYYY.*" or "YYYY.MM.*" (year checked first)
//	monthly -> "YYYY.*"
//	yearly  -> never collapses
//
// If the resulting token count exceeds the resolver's selector limit, the
// enumeration is discarded and the single wildcard prefix+"*" is returned.
// That wildcard can match unrelated indices sharing the prefix, so callers
// must choose unambiguous prefixes.
func (r *Resolver) Compress(prefix string, buckets []string, g Granularity, groupSelect bool) ([]string, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, g)
	}

	times := make([]time.Time, len(buckets))
	for i, label := range buckets {
		t, err := time.ParseInLocation(g.Layout(), label, r.loc)
		if err != nil {
			return nil, fmt.Errorf("timeindex: malformed bucket label %q: %w", label, err)
		}
		times[i] = t
	}

	var tokens []string
	switch {
	case groupSelect && g == Daily:
		tokens = r.compressDaily(buckets, times)
	case groupSelect && g == Monthly:
		tokens = r.compressMonthly(buckets, times)
	default:
		tokens = append(tokens, buckets...)
	}

	tokens = dedup(tokens)
	if len(tokens) > r.maxSelectors {
		return []string{prefix + "*"}, nil
	}

	selectors := make([]string, len(tokens))
	for i, token := range tokens {
		selectors[i] = prefix + token
	}
	return selectors, nil
}

// compressDaily collapses fully-covered years and months. The input sequence
// is contiguous by construction (Partition), so coverage reduces to checking
// the label at the jump target.
func (r *Resolver) compressDaily(buckets []string, times []time.Time) []string {
	var tokens []string
	for i := 0; i < len(buckets); {
		day := times[i]

		if day.Month() == time.January && day.Day() == 1 {
			span := daysInYear(day)
			if covers(buckets, times, i, span, time.Date(day.Year(), 12, 31, 0, 0, 0, 0, r.loc), Daily) {
				tokens = append(tokens, fmt.Sprintf("%04d.*", day.Year()))
				i += span
				continue
			}
		}

		if day.Day() == 1 {
			span := daysInMonth(day)
			lastOfMonth := time.Date(day.Year(), day.Month(), span, 0, 0, 0, 0, r.loc)
			if covers(buckets, times, i, span, lastOfMonth, Daily) {
				tokens = append(tokens, fmt.Sprintf("%04d.%02d.*", day.Year(), int(day.Month())))
				i += span
				continue
			}
		}

		tokens = append(tokens, buckets[i])
		i++
	}
	return tokens
}

// compressMonthly collapses fully-covered years
func (r *Resolver) compressMonthly(buckets []string, times []time.Time) []string {
	var tokens []string
	for i := 0; i < len(buckets); {
		month := times[i]

		if month.Month() == time.January {
			lastOfYear := time.Date(month.Year(), 12, 1, 0, 0, 0, 0, r.loc)
			if covers(buckets, times, i, 12, lastOfYear, Monthly) {
				tokens = append(tokens, fmt.Sprintf("%04d.*", month.Year()))
				i += 12
				continue
			}
		}

		tokens = append(tokens, buckets[i])
		i++
	}
	return tokens
}

// covers reports whether the bucket at offset span-1 from i exists and is the
// expected last sub-unit of the candidate period
func covers(buckets []string, times []time.Time, i, span int, last time.Time, g Granularity) bool {
	end := i + span - 1
	return end < len(buckets) && buckets[end] == last.Format(g.Layout())
}

func daysInYear(t time.Time) int {
	return time.Date(t.Year(), 12, 31, 0, 0, 0, 0, t.Location()).YearDay()
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// dedup removes duplicate tokens while preserving order
func dedup(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, token := range tokens {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}
