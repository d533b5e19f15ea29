package models

import "fmt"

// RangeQuery carries the time-range parameters of a query request. Pointer
// fields distinguish an omitted parameter from epoch second zero.
type RangeQuery struct {
	StartAt *int64 `json:"start_at" query:"start_at"` // Unix seconds, inclusive
	EndAt   *int64 `json:"end_at" query:"end_at"`     // Unix seconds, inclusive
}

// Validate checks the range parameters
func (q *RangeQuery) Validate() error {
	if q.StartAt == nil {
		return fmt.Errorf("start_at is required")
	}
	if q.EndAt == nil {
		return fmt.Errorf("end_at is required")
	}
	if *q.EndAt < *q.StartAt {
		return fmt.Errorf("end_at must not precede start_at")
	}
	return nil
}

// Range returns the validated bounds. Call Validate first.
func (q *RangeQuery) Range() (startAt, endAt int64) {
	return *q.StartAt, *q.EndAt
}
