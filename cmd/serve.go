package main

import (
	"context"

	"github.com/desertthunder/sfx/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until ctx is canceled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	handler := server.NewHandler(r.app, r.engine, r.logger)
	return server.Serve(ctx, cfg.Addr(), handler, r.logger)
}
