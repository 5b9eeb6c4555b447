package main

import (
	"strconv"
	"strings"
	"time"
)

// parseDate accepts RFC 3339, a calendar date (midnight local time),
// seconds since the epoch, or "now".
func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "now" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, now.Location()); err == nil {
		return t, nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, userErrorf("invalid date %q (want RFC 3339, YYYY-MM-DD, epoch seconds or now)", s)
}
