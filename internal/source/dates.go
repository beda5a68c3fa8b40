package source

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RelativeDate turns a machine timestamp into "Today", "Yesterday" or
// "N days ago" as seen from now. Anything that is not a recognised
// timestamp comes back trimmed but otherwise untouched.
func RelativeDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ts, ok := parseTimestamp(raw)
	if !ok {
		return raw
	}

	days := int(now.Sub(ts) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}

	// Epoch seconds or milliseconds.
	if len(value) >= 10 && len(value) <= 13 {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			if len(value) == 13 {
				return time.UnixMilli(n), true
			}
			return time.Unix(n, 0), true
		}
	}
	return time.Time{}, false
}
