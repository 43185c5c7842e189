package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/tempus/internal/mcpserver"
)

// RunMCP serves the tracker over MCP on stdin/stdout until the client
// disconnects. Logs must not go to stdout in this mode.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.logOutput == nil {
		return fmt.Errorf("log output is required for stdio transport")
	}

	cfg := app.config
	logger := NewLogger(app.logOutput, cfg.App.LogLevel)
	slog.SetDefault(logger)

	services, err := OpenServices(cfg, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	logger.Info("MCP server starting", slog.String("storage_driver", cfg.Storage.Driver))

	errCh := make(chan error, 1)
	go func() { errCh <- mcpserver.New(services.Tracker).ServeStdio() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
