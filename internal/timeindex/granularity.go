// Package timeindex resolves time ranges into the concrete index names that
// cover them. Partitioning (which buckets a range touches) and selector
// compression (collapsing fully-covered periods into wildcard groups) are
// kept separate so compression can be disabled without touching partitioning.
package timeindex

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Granularity is the time-bucketing unit used to partition indices.
type Granularity string

const (
	// Daily partitions indices per calendar day (label "2006.01.02")
	Daily Granularity = "daily"

	// Monthly partitions indices per calendar month (label "2006.01")
	Monthly Granularity = "monthly"

	// Yearly partitions indices per calendar year (label "2006")
	Yearly Granularity = "yearly"
)

var (
	// ErrInvalidRange is returned when the range end precedes its start
	ErrInvalidRange = errors.New("timeindex: range end is before range start")

	// ErrUnsupportedGranularity is returned for granularities outside daily/monthly/yearly
	ErrUnsupportedGranularity = errors.New("timeindex: unsupported granularity")
)

// ParseGranularity parses a granularity string (case-insensitive)
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q (supported: daily, monthly, yearly)", ErrUnsupportedGranularity, s)
	}
	return g, nil
}

// Valid reports whether g is one of the supported granularities
func (g Granularity) Valid() bool {
	switch g {
	case Daily, Monthly, Yearly:
		return true
	}
	return false
}

// Layout returns the canonical label layout for the granularity
func (g Granularity) Layout() string {
	switch g {
	case Daily:
		return "2006.01.02"
	case Monthly:
		return "2006.01"
	default:
		return "2006"
	}
}

// truncate aligns t to the start of its bucket
func (g Granularity) truncate(t time.Time) time.Time {
	switch g {
	case Daily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	}
}

// next advances t by one bucket
func (g Granularity) next(t time.Time) time.Time {
	switch g {
	case Daily:
		return t.AddDate(0, 0, 1)
	case Monthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}
