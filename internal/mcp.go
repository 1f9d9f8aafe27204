package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/ingest"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/siteservice"
	"github.com/starford/ansuz/internal/storage"
)

// RunMCP ingests the content once and serves the catalog over MCP stdio.
// Stdout belongs to the protocol, so logging goes to stderr.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	store, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	svc := siteservice.NewService(store, db, catalog.NewStore(), ingest.Options{
		Mode:    cfg.Ingest.Mode,
		Workers: cfg.Ingest.Workers,
		Marker:  cfg.Content.Separator,
	}, logger)

	if _, err := svc.Reingest(ctx); err != nil {
		return fmt.Errorf("ingest content: %w", err)
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}
