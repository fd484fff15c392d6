package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

type Generate struct {
	Options Options `embed:""`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, err := g.Options.generator(logger)
	if err != nil {
		return err
	}
	logger.Info("Starting ERD list generation",
		"output", g.Options.Output,
		"mode", g.Options.Component.Mode,
		"offline", g.Options.Metadata.Offline)
	return gen.Run(ctx)
}
