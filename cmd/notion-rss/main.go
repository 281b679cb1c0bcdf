// Command notion-rss generates an RSS feed from a Notion reading-list
// database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/rmcvey/notion-rss/config"
	"github.com/rmcvey/notion-rss/feed"
	"github.com/rmcvey/notion-rss/logger"
	"github.com/rmcvey/notion-rss/model"
	"github.com/rmcvey/notion-rss/notion"
)

const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:    "notion-rss",
		Usage:   "Generate RSS feeds from Notion database content",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   cfg.FeedPath,
				Usage:   "Output RSS file path",
			},
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Value:   cfg.FeedTitle,
				Usage:   "RSS feed title",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Value:   cfg.FeedDescription,
				Usage:   "RSS feed description",
			},
			&cli.StringFlag{
				Name:    "link",
				Aliases: []string{"l"},
				Value:   cfg.FeedLink,
				Usage:   "RSS feed self-referencing link URL",
			},
			&cli.BoolFlag{
				Name:  "display-only",
				Usage: "Only display items without generating an RSS feed",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "With --display-only, print items as JSON",
			},
			&cli.StringFlag{
				Name:  "max-age",
				Usage: "Only include items added within this window (e.g., 7d, 2w, 3m, 1y)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose (debug) logging",
			},
		},
		Action: func(c *cli.Context) error {
			return generate(c, cfg)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitFailure)
	}
}

func generate(c *cli.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.LogLevel, c.Bool("verbose"), cfg.LogFile)
	if err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	defer func() { _ = log.Sync() }()

	if errs := cfg.Validate(); len(errs) > 0 {
		log.Error("Configuration validation failed:")
		for _, msg := range errs {
			log.Errorf("  - %s", msg)
		}
		log.Info("Please check your .env file or environment variables")
		return cli.Exit("invalid configuration", ExitFailure)
	}

	output := c.String("output")
	if !c.Bool("display-only") {
		if err := ensureOutputDir(output); err != nil {
			log.Errorf("Cannot create output directory for %s: %v", output, err)
			return cli.Exit("invalid output path", ExitFailure)
		}
	}

	var maxAgeWindow time.Duration
	if maxAge := c.String("max-age"); maxAge != "" {
		maxAgeWindow, err = feed.ParseMaxAge(maxAge)
		if err != nil {
			return cli.Exit(err.Error(), ExitFailure)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting Notion RSS Feed Generator")
	log.Info("Fetching reading list from Notion...")

	client := notion.NewClient(cfg.NotionAPIKey, cfg.NotionDatabaseID, log)
	items, err := client.FetchReadingList(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Operation cancelled by user")
			return cli.Exit("cancelled", ExitInterrupted)
		}
		// The failure itself is logged by the client.
		log.Info("Please check your Notion API configuration and database ID")
		return cli.Exit("fetch failed", ExitFailure)
	}
	if len(items) == 0 {
		log.Error("No reading list items retrieved from Notion")
		log.Info("Please check your Notion API configuration and database ID")
		return cli.Exit("nothing to publish", ExitFailure)
	}
	log.Infof("Retrieved %d items from Notion", len(items))

	if c.Bool("display-only") {
		if c.Bool("json") {
			if err := outputJSON(items); err != nil {
				return cli.Exit(err.Error(), ExitFailure)
			}
		} else {
			displayItems(items)
		}
		log.Info("Display completed successfully")
		return nil
	}

	if maxAgeWindow > 0 {
		before := len(items)
		items = feed.FilterByAge(items, maxAgeWindow, time.Now().UTC())
		log.Infof("Max-age filter kept %d of %d items", len(items), before)
	}

	log.Info("Generating RSS feed...")
	generator := feed.NewGenerator(log)
	opts := feed.Options{
		Path:        output,
		Title:       c.String("title"),
		Description: c.String("description"),
		Link:        c.String("link"),
	}
	if err := generator.Generate(items, opts); err != nil {
		log.Errorf("RSS feed generation failed: %v", err)
		return cli.Exit("generation failed", ExitFailure)
	}

	reportSuccess(output, log)
	return nil
}

// reportSuccess logs where the feed landed and how many entries it holds,
// re-parsing the file as a final sanity check.
func reportSuccess(output string, log *zap.SugaredLogger) {
	abs, err := filepath.Abs(output)
	if err != nil {
		abs = output
	}
	log.Infof("RSS feed generated successfully: %s", abs)

	count, err := feed.Verify(output)
	if err != nil {
		log.Warnf("Generated feed could not be re-parsed: %v", err)
		return
	}
	log.Infof("Feed contains %d items", count)
}

// ensureOutputDir creates the output file's parent directory if needed.
func ensureOutputDir(output string) error {
	dir := filepath.Dir(output)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// displayItems prints each item to stdout in a readable block format.
func displayItems(items []model.Item) {
	for _, item := range items {
		fmt.Printf("Title: %s\n", item.Title)
		fmt.Printf("URL: %s\n", item.URL)
		fmt.Printf("Status: %s\n", item.Status)
		fmt.Printf("Tags: %s\n", item.Tags)
		fmt.Printf("Comments: %s\n", item.Comments)
		fmt.Printf("Created: %s\n", item.CreatedTime)
		fmt.Println(strings.Repeat("-", 50))
	}
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
