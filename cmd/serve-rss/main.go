// Command serve-rss serves the generated RSS feed (and anything else in the
// chosen directory) over plain HTTP for a local feed reader.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/rmcvey/notion-rss/config"
	"github.com/rmcvey/notion-rss/logger"
	"github.com/rmcvey/notion-rss/server"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

func main() {
	app := &cli.App{
		Name:    "serve-rss",
		Usage:   "Serve RSS feeds locally",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   8080,
				Usage:   "Port to serve on",
			},
			&cli.StringFlag{
				Name:    "directory",
				Aliases: []string{"d"},
				Value:   ".",
				Usage:   "Directory to serve files from",
			},
			&cli.StringFlag{
				Name:    "feed-file",
				Aliases: []string{"f"},
				Value:   config.DefaultFeedPath,
				Usage:   "RSS feed filename",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose (debug) logging",
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitFailure)
	}
}

func serve(c *cli.Context) error {
	log, err := logger.New("info", c.Bool("verbose"), "")
	if err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	defer func() { _ = log.Sync() }()

	s, err := server.New(server.Options{
		Port:     c.Int("port"),
		Dir:      c.String("directory"),
		FeedFile: c.String("feed-file"),
	}, log)
	if err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}

	if err := s.Start(); err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	log.Info("Press Ctrl+C to stop the server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Serve(ctx); err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	return nil
}
