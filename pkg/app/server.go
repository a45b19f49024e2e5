package app

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/internal/server"
)

// Serve prepares the data directory, starts the background workers and
// listens on APP_PORT until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	if _, err := services.Migrate(ctx, a.Store); err != nil {
		return err
	}
	a.Start(ctx)
	return server.Run(ctx, ":"+config.AppPort(), a.Handler(), config.ShutdownTimeout())
}

// Migrate runs the data directory migration and reports what it did.
func (a *Application) Migrate(ctx context.Context) (string, error) {
	outcome, err := services.Migrate(ctx, a.Store)
	if err != nil {
		return "", fmt.Errorf("app: %w", err)
	}
	return outcome, nil
}
