package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/geappliances/erdgen/internal/codegen/source"
	"github.com/geappliances/erdgen/internal/configpaths"
)

type Fetch struct {
	Remote RemoteConfig `embed:""`
	Dir    string       `help:"Cache directory to populate (defaults to the user cache)" type:"path" env:"ERDGEN_FETCH_DIR"`
}

// Run is called by Kong when the fetch command is executed. Each document is
// downloaded and validated before it replaces the cached copy.
func (f *Fetch) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return f.fetchAll(ctx, logger)
}

func (f *Fetch) fetchAll(ctx context.Context, logger *slog.Logger) error {
	dir := f.Dir
	if dir == "" {
		var err error
		if dir, err = configpaths.DefaultCacheDir(); err != nil {
			return fmt.Errorf("failed to resolve cache dir: %w", err)
		}
	}

	resolver := source.New(f.Remote.sourceConfig(), logger)
	for _, doc := range []source.Document{source.ERDDefinitions, source.ApplianceAPI} {
		data, err := resolver.Fetch(ctx, doc)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", doc, err)
		}
		path, err := source.Store(dir, doc, data)
		if err != nil {
			return fmt.Errorf("store %s: %w", doc, err)
		}
		logger.Info("Cached document", "document", doc.Name, "path", path, "bytes", len(data))
	}
	return nil
}
