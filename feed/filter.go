package feed

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rmcvey/notion-rss/model"
)

// maxAgePattern matches age strings like "7d", "2w", "3m", "1y"
var maxAgePattern = regexp.MustCompile(`^(\d+)([a-z])$`)

// maxAgeUnits maps an age unit to its length. Months and years are
// approximations (30 and 365 days).
var maxAgeUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
	"m": 30 * 24 * time.Hour,
	"y": 365 * 24 * time.Hour,
}

// ParseMaxAge parses an age window string like "7d", "2w", "3m", "1y".
func ParseMaxAge(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("max-age string is empty")
	}

	matches := maxAgePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid max-age format: %s (expected <number><unit>, e.g., 7d, 2w, 3m, 1y)", s)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil || num < 0 {
		return 0, fmt.Errorf("invalid number in max-age: %s", matches[1])
	}

	unit, ok := maxAgeUnits[matches[2]]
	if !ok {
		return 0, fmt.Errorf("invalid max-age unit: %s (expected d, w, m, or y)", matches[2])
	}

	return time.Duration(num) * unit, nil
}

// FilterByAge returns the items created within maxAge of now. Items whose
// creation timestamp is missing or unparseable are kept, so a bad timestamp
// never silently drops an item from the feed.
func FilterByAge(items []model.Item, maxAge time.Duration, now time.Time) []model.Item {
	cutoff := now.Add(-maxAge)

	var kept []model.Item
	for _, item := range items {
		created, err := item.CreatedAt()
		if err != nil || !created.Before(cutoff) {
			kept = append(kept, item)
		}
	}
	return kept
}
