package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/skald/internal/deckservice"
	"github.com/starford/skald/internal/images"
	"github.com/starford/skald/internal/index"
	"github.com/starford/skald/internal/mcpserver"
	"github.com/starford/skald/internal/storage"
)

// buildService wires storage, index, and the deck service from config
// without starting the HTTP server. Generation is left disabled; the
// offline commands never need it.
func buildService(cfg *Config, logger *slog.Logger) (*deckservice.Service, func(), error) {
	if err := os.MkdirAll(cfg.Library.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create library dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Library.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	fetcherOpts := []images.Option{images.WithLogger(logger)}
	if cfg.Images.BaseURL != "" {
		fetcherOpts = append(fetcherOpts, images.WithBaseURL(cfg.Images.BaseURL))
	}
	svc := deckservice.NewService(store, db, images.NewFetcher(fetcherOpts...), nil, logger)
	return svc, func() { db.Close() }, nil
}

// RunMCP serves the MCP tools over stdio. Logs go to stderr so stdout
// stays clean for the protocol.
func RunMCP(cfg *Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	svc, closeFn, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	return mcpserver.New(svc).ServeStdio()
}

// ExportDeck renders a single deck to a .pptx file in outDir and returns
// the written path.
func ExportDeck(ctx context.Context, cfg *Config, deckID, themeID, outDir string) (string, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, closeFn, err := buildService(cfg, logger)
	if err != nil {
		return "", err
	}
	defer closeFn()

	data, filename, err := svc.ExportPPTX(ctx, deckID, deckservice.ExportOptions{ThemeID: themeID})
	if err != nil {
		return "", err
	}

	target := filepath.Join(outDir, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}
