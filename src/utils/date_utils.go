package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultDateFormat is the wire format for calendar dates.
const DefaultDateFormat = "2006-01-02"

var ErrMissingDate = errors.New("date is missing")

// dateLayouts are tried in order. Only the calendar day of the parsed value is kept.
var dateLayouts = []string{
	DefaultDateFormat,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
}

// ToCalendarDate coerces a raw JSON value into a calendar date at midnight UTC.
// Strings are matched against dateLayouts; numbers are Unix milliseconds.
// The day is taken in the value's own offset, so "2025-01-15T23:00:00-05:00"
// stays on the 15th.
func ToCalendarDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, ErrMissingDate
	case time.Time:
		if v.IsZero() {
			return time.Time{}, ErrMissingDate
		}
		return truncateToDay(v), nil
	case string:
		return parseDateString(v)
	case json.Number:
		ms, err := v.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", v.String(), err)
		}
		return fromUnixMilli(ms)
	case float64:
		return fromUnixMilli(v)
	case int:
		return fromUnixMilli(float64(v))
	case int64:
		return fromUnixMilli(float64(v))
	}
	return time.Time{}, fmt.Errorf("invalid date value of type %T", value)
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: no known format matches", s)
}

func fromUnixMilli(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("invalid date timestamp %v", ms)
	}
	return truncateToDay(time.UnixMilli(int64(ms)).UTC()), nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date in DefaultDateFormat, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DefaultDateFormat)
}
