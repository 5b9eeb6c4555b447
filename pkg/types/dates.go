package types

import "time"

// Seconds encodes an optional timestamp as an optional count of seconds
// since the Unix epoch. Sub-second precision is dropped.
func Seconds(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	s := t.Unix()
	return &s
}

// FromSeconds decodes an optional count of seconds since the Unix epoch.
// The result is in UTC.
func FromSeconds(s *int64) *time.Time {
	if s == nil {
		return nil
	}
	t := time.Unix(*s, 0).UTC()
	return &t
}

// SameSecond reports whether two optional timestamps are both absent or
// fall within the same second.
func SameSecond(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Unix() == b.Unix()
}
