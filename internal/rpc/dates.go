package rpc

import (
	"fmt"
	"time"
)

// ParseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date (UTC
// midnight). dateOnly reports which form was given.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	if t, err = time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q", s)
}

// DateBounds parses optional range bounds. A date-only end bound covers that whole day.
func DateBounds(start, end *string) (from, to *time.Time, err error) {
	if start != nil && *start != "" {
		t, _, err := ParseDate(*start)
		if err != nil {
			return nil, nil, &ValidationError{Fields: map[string]string{"startDate": err.Error()}}
		}
		from = &t
	}
	if end != nil && *end != "" {
		t, dateOnly, err := ParseDate(*end)
		if err != nil {
			return nil, nil, &ValidationError{Fields: map[string]string{"endDate": err.Error()}}
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, &ValidationError{Fields: map[string]string{"endDate": "must not be before startDate"}}
	}
	return from, to, nil
}
