package match

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	todayPoints     = 15
	yesterdayPoints = 10
	recentWindow    = 7
)

// recencyPoints scores a free-text posted date. Text that is neither
// "today", "yesterday" nor "<N> day(s) ago" with N <= 7 earns nothing, so
// hours, weeks, months and years score zero.
func recencyPoints(posted string) (int, string) {
	lower := strings.ToLower(posted)
	switch {
	case strings.Contains(lower, "today"):
		return todayPoints, fmt.Sprintf("Job posted today: +%d points", todayPoints)
	case strings.Contains(lower, "yesterday"):
		return yesterdayPoints, fmt.Sprintf("Job posted yesterday: +%d points", yesterdayPoints)
	}

	fields := strings.Fields(lower)
	if len(fields) != 3 || !isDigits(fields[0]) || fields[2] != "ago" {
		return 0, ""
	}
	if fields[1] != "day" && fields[1] != "days" {
		return 0, ""
	}
	days, err := strconv.Atoi(fields[0])
	if err != nil || days > recentWindow {
		return 0, ""
	}
	points := max(0, 10-days)
	return points, fmt.Sprintf("Job posted %d days ago: +%d points", days, points)
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}
