// Package notion fetches reading-list rows from a Notion database.
package notion

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/rmcvey/notion-rss/model"
)

// Property names expected in the reading-list database.
const (
	propName     = "Name"
	propURL      = "URL"
	propComments = "Comments"
	propTags     = "Tags"
	propStatus   = "Status"
)

// pageSize is the Notion API maximum per query page.
const pageSize = 100

// databaseQuerier is the slice of the Notion API client this package uses.
type databaseQuerier interface {
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// Client fetches reading-list items from a single Notion database.
type Client struct {
	db   databaseQuerier
	dbID notionapi.DatabaseID
	log  *zap.SugaredLogger
}

// NewClient creates a Client for the given database using the official
// Notion REST API.
func NewClient(apiKey, databaseID string, log *zap.SugaredLogger) *Client {
	api := notionapi.NewClient(notionapi.Token(apiKey))
	return &Client{
		db:   api.Database,
		dbID: notionapi.DatabaseID(databaseID),
		log:  log,
	}
}

// FetchReadingList queries the database for all rows, newest first, and maps
// each row to a model.Item. On any API or transport failure it logs, discards
// any rows already collected, and returns an empty slice plus the error; a
// truncated reading list is never surfaced as a fetch result. The returned
// slice is never nil, so callers that only care about "anything to publish?"
// can treat an empty slice as the answer.
func (c *Client) FetchReadingList(ctx context.Context) ([]model.Item, error) {
	items := []model.Item{}

	req := &notionapi.DatabaseQueryRequest{
		PageSize: pageSize,
		Sorts: []notionapi.SortObject{
			{Timestamp: notionapi.TimestampCreated, Direction: notionapi.SortOrderDESC},
		},
	}

	for {
		resp, err := c.db.Query(ctx, c.dbID, req)
		if err != nil {
			c.log.Errorw("failed to fetch reading list", "error", err)
			return []model.Item{}, err
		}

		for _, page := range resp.Results {
			items = append(items, convertPage(page))
		}

		if !resp.HasMore {
			break
		}
		req.StartCursor = resp.NextCursor
	}

	c.log.Infof("Successfully fetched %d items from reading list", len(items))
	return items, nil
}

// convertPage flattens one database row into an Item, substituting defaults
// for absent properties.
func convertPage(page notionapi.Page) model.Item {
	props := page.Properties

	item := model.Item{
		Title:       model.DefaultTitle,
		CreatedTime: page.CreatedTime.UTC().Format(time.RFC3339),
	}

	if tp, ok := props[propName].(*notionapi.TitleProperty); ok {
		if text := firstPlainText(tp.Title); text != "" {
			item.Title = text
		}
	}
	if up, ok := props[propURL].(*notionapi.URLProperty); ok {
		item.URL = up.URL
	}
	if rt, ok := props[propComments].(*notionapi.RichTextProperty); ok {
		item.Comments = firstPlainText(rt.RichText)
	}
	if rt, ok := props[propTags].(*notionapi.RichTextProperty); ok {
		item.Tags = firstPlainText(rt.RichText)
	}
	if sp, ok := props[propStatus].(*notionapi.StatusProperty); ok {
		item.Status = sp.Status.Name
	}

	return item
}

// firstPlainText returns the plain text of the first rich-text run, or "".
func firstPlainText(runs []notionapi.RichText) string {
	if len(runs) == 0 {
		return ""
	}
	return runs[0].PlainText
}
