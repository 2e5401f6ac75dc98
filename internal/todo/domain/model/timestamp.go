package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout matches JavaScript's Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts ISO-8601 strings, date-only strings and epoch
// milliseconds.
func ParseTimestamp(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case float64:
		return time.UnixMilli(int64(val)).UTC(), nil
	case int64:
		return time.UnixMilli(val).UTC(), nil
	case int:
		return time.UnixMilli(int64(val)).UTC(), nil
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range parseLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("invalid date %q", val)
	default:
		return time.Time{}, fmt.Errorf("invalid date %v", v)
	}
}

// NormalizeTimestamp parses v and re-renders it with FormatTimestamp.
func NormalizeTimestamp(v interface{}) (string, error) {
	t, err := ParseTimestamp(v)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(t), nil
}

// DatePart returns the YYYY-MM-DD prefix of an ISO timestamp.
func DatePart(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}

// DateMinute renders an ISO timestamp as "YYYY-MM-DD HH:MM". Unparseable
// input is returned unchanged.
func DateMinute(ts string) string {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04")
}
