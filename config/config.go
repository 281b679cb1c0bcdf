// Package config loads process-wide settings for notion-rss.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Defaults for the optional settings.
const (
	DefaultFeedPath        = "notion_reading_list.xml"
	DefaultFeedTitle       = "Notion Reading List"
	DefaultFeedDescription = "My personal reading list collected in Notion"
	DefaultLogLevel        = "INFO"
	DefaultLogFile         = "logs/app.log"
)

// Config holds the settings for the generator. It is constructed once at
// process start and passed to whatever needs it; nothing reads the
// environment after Load returns.
type Config struct {
	// Notion API access. Both are required.
	NotionAPIKey     string
	NotionDatabaseID string

	// Feed output.
	FeedPath        string
	FeedTitle       string
	FeedDescription string
	FeedLink        string // self-link; empty means derive a file:// URI

	// Logging.
	LogLevel string
	LogFile  string // empty disables the file sink
}

// Load reads configuration from the environment, seeded from a .env file in
// the working directory when one exists. A missing or unreadable .env only
// warns, since the variables may be set directly.
func Load() *Config {
	if msg := loadDotEnv(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	return &Config{
		NotionAPIKey:     os.Getenv("NOTION_API_KEY"),
		NotionDatabaseID: os.Getenv("NOTION_DATABASE_ID"),
		FeedPath:         getenv("RSS_FEED_PATH", DefaultFeedPath),
		FeedTitle:        getenv("RSS_FEED_TITLE", DefaultFeedTitle),
		FeedDescription:  getenv("RSS_FEED_DESCRIPTION", DefaultFeedDescription),
		FeedLink:         os.Getenv("RSS_FEED_LINK"),
		LogLevel:         getenv("LOG_LEVEL", DefaultLogLevel),
		LogFile:          getenv("LOG_FILE", DefaultLogFile),
	}
}

// Validate checks the required settings and returns a human-readable message
// for each one that is missing. An empty slice means the configuration is
// usable.
func (c *Config) Validate() []string {
	var errs []string
	if c.NotionAPIKey == "" {
		errs = append(errs, "NOTION_API_KEY is required")
	}
	if c.NotionDatabaseID == "" {
		errs = append(errs, "NOTION_DATABASE_ID is required")
	}
	return errs
}

// loadDotEnv reads .env from the working directory into the environment and
// returns a warning message when that was not possible, or "" on success.
func loadDotEnv() string {
	err := godotenv.Load()
	switch {
	case err == nil:
		return ""
	case os.IsNotExist(err):
		return "Warning: .env file not found. Environment variables may be missing."
	default:
		return fmt.Sprintf("Warning: could not load .env file: %v", err)
	}
}

// getenv returns the value of key, or def when the variable is unset or
// empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
