// Package model defines the core data structures for notion-rss.
package model

import (
	"fmt"
	"time"
)

// DefaultTitle is used when a Notion row has no title text.
const DefaultTitle = "No Title"

// createdTimeLayouts are the accepted CreatedTime formats: RFC 3339 (what the
// Notion API returns) and a zone-less variant, which is read as UTC.
var createdTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Item is one normalized reading-list row, destined for one feed entry.
// Items are constructed once per fetched row and never modified afterwards.
type Item struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Comments    string `json:"comments,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedTime string `json:"created_time,omitempty"`
}

// HasURL reports whether the item carries a link. Items without one are
// excluded from feed rendering, since RSS entries require a link and guid.
func (i *Item) HasURL() bool {
	return i.URL != ""
}

// CreatedAt parses the item's creation timestamp.
func (i *Item) CreatedAt() (time.Time, error) {
	if i.CreatedTime == "" {
		return time.Time{}, fmt.Errorf("item has no created time")
	}
	for _, layout := range createdTimeLayouts {
		if t, err := time.Parse(layout, i.CreatedTime); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized created time %q", i.CreatedTime)
}
