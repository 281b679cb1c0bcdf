// Package feed renders reading-list items as an RSS 2.0 document.
package feed

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/rmcvey/notion-rss/model"
)

// Channel-level constants.
const (
	feedID       = "notion-reading-list"
	feedLanguage = "en"

	// placeholderDescription is used when an item carries no extra detail.
	placeholderDescription = "<p>No additional information available.</p>"

	// addedTimeFormat renders the "Added" paragraph timestamp.
	addedTimeFormat = "2006-01-02 15:04:05"
)

// Options describes one feed rendering.
type Options struct {
	Path        string // output file path
	Title       string
	Description string
	Link        string // self-link; empty derives a file:// URI from Path
}

// Generator builds and serializes RSS documents.
type Generator struct {
	log *zap.SugaredLogger
}

// NewGenerator creates a Generator.
func NewGenerator(log *zap.SugaredLogger) *Generator {
	return &Generator{log: log}
}

// Generate renders items into an RSS 2.0 file at opts.Path. Items without a
// URL are dropped; an item that fails entry construction is logged and
// skipped without aborting the render. The document is serialized in memory
// before the file is written, so a failed render never leaves a truncated
// file behind.
func (g *Generator) Generate(items []model.Item, opts Options) error {
	if len(items) == 0 {
		return errors.New("no items provided for feed generation")
	}

	var valid []model.Item
	for _, item := range items {
		if item.HasURL() {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return errors.New("no items with valid URLs found")
	}

	now := time.Now().UTC()
	f := &feeds.Feed{
		Id:          feedID,
		Title:       opts.Title,
		Description: opts.Description,
		Link:        &feeds.Link{Href: g.selfLink(opts)},
		Created:     now,
		Updated:     now, // channel lastBuildDate
		Author:      &feeds.Author{Name: "Notion RSS Generator", Email: "noreply@example.com"},
	}

	g.log.Infof("Processing %d valid items for RSS feed", len(valid))

	for _, item := range valid {
		entry, err := g.buildEntry(item, now)
		if err != nil {
			g.log.Errorw("failed to process item", "title", item.Title, "error", err)
			continue
		}
		f.Items = append(f.Items, entry)
	}
	if len(f.Items) == 0 {
		return errors.New("no entries could be processed successfully")
	}

	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Language = feedLanguage

	var buf bytes.Buffer
	if err := feeds.WriteXML(rss, &buf); err != nil {
		return fmt.Errorf("failed to serialize feed: %w", err)
	}
	if err := os.WriteFile(opts.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write feed file: %w", err)
	}

	g.log.Infof("RSS feed successfully generated: %s", opts.Path)
	return nil
}

// selfLink returns the configured self-link, or a file:// URI derived from
// the output path when none was given.
func (g *Generator) selfLink(opts Options) string {
	if opts.Link != "" {
		return opts.Link
	}
	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		abs = opts.Path
	}
	return "file://" + abs
}

// buildEntry converts one item into a feed entry. now is the fallback
// publication date for items without a parseable creation timestamp.
func (g *Generator) buildEntry(item model.Item, now time.Time) (*feeds.Item, error) {
	if _, err := url.Parse(item.URL); err != nil {
		return nil, fmt.Errorf("invalid item URL %q: %w", item.URL, err)
	}

	title := item.Title
	if title == "" {
		title = "Untitled"
	}

	published := now
	if created, err := item.CreatedAt(); err == nil {
		published = created
	} else if item.CreatedTime != "" {
		g.log.Warnf("Failed to parse publication date: %v", err)
	}

	return &feeds.Item{
		Id:          item.URL,
		Title:       title,
		Link:        &feeds.Link{Href: item.URL},
		Description: g.buildDescription(item),
		Created:     published,
	}, nil
}

// buildDescription assembles the HTML fragment shown in feed readers:
// Comments, Tags, Status and "Added" paragraphs for whichever fields are
// present, or a fixed placeholder when none are.
func (g *Generator) buildDescription(item model.Item) string {
	var parts []string

	if item.Comments != "" {
		parts = append(parts, "<p><strong>Comments:</strong> "+item.Comments+"</p>")
	}
	if item.Tags != "" {
		parts = append(parts, "<p><strong>Tags:</strong> "+item.Tags+"</p>")
	}
	if item.Status != "" {
		parts = append(parts, "<p><strong>Status:</strong> "+item.Status+"</p>")
	}
	if item.CreatedTime != "" {
		if created, err := item.CreatedAt(); err != nil {
			g.log.Warnf("Failed to parse created_time: %v", err)
		} else {
			parts = append(parts,
				"<p><strong>Added:</strong> "+created.UTC().Format(addedTimeFormat)+" UTC</p>")
		}
	}

	if len(parts) == 0 {
		return placeholderDescription
	}
	return strings.Join(parts, "")
}
