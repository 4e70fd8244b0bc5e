// Package dates parses the date strings admins type into content forms.
package dates

import (
	"errors"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

var ErrUnparseable = errors.New("unparseable date")

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse accepts ISO 8601 / RFC 3339 timestamps and plain calendar dates, and
// falls back to natural-language parsing ("15 August 2025", "Aug 15 2025 6pm").
// Values without an explicit zone are read as UTC.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrUnparseable
	}

	for _, layout := range layouts {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed.UTC(), nil
		}
	}

	parsed, err := dps.Parse(nil, value)
	if err != nil || parsed.Time.IsZero() {
		return time.Time{}, ErrUnparseable
	}
	t := parsed.Time
	if t.Location() == time.Local {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	}
	return t.UTC(), nil
}
