package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/setlist/internal/server"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
)

// Serve starts the search proxy and ticket API and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	cache := tasks.NewSearchCache(r.aggregator(), r.config.Catalog.CacheSize, r.config.Catalog.CacheTTL())
	defer cache.Stop()

	logger := shared.WithLogger(r.logger, "component", "server")
	router := server.NewRouter(logger,
		server.NewSearchHandler(cache, logger),
		server.NewTicketHandler(r.tickets, logger),
	)
	srv := server.New(addr, router, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Bool("open") {
		go func() {
			select {
			case bound := <-srv.Ready():
				url := "http://" + bound.String() + "/data"
				if err := shared.OpenBrowser(url); err != nil {
					logger.Warn("could not open browser", "url", url, "error", err)
				}
			case <-ctx.Done():
			}
		}()
	}

	r.logger.Info("starting server", "addr", addr, "cache_ttl", r.config.Catalog.CacheTTL(), "routes", router.Patterns())
	return srv.Run(ctx)
}
