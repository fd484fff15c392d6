package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// ErrStale is returned by check when a generated file needs regenerating.
var ErrStale = errors.New("generated files are out of date")

type Check struct {
	Options Options `embed:""`
}

// Run is called by Kong when the check command is executed. It renders in
// memory and compares with the files on disk without writing anything.
func (c *Check) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := c.Options.generator(logger)
	if err != nil {
		return err
	}
	a, err := gen.Render(gen.Scan(ctx))
	if err != nil {
		return err
	}
	stale, err := gen.Stale(a)
	if err != nil {
		return err
	}
	for _, path := range stale {
		logger.Warn("Generated file is stale", "file", path)
	}
	if len(stale) > 0 {
		return ErrStale
	}
	logger.Info("Generated files are up to date", "header", gen.HeaderPath(), "source", gen.SourcePath())
	return nil
}
