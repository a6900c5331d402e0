package command

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/tessera/internal/app"
	"github.com/stolasapp/tessera/internal/app/devservice"
	"github.com/stolasapp/tessera/internal/server"
	"github.com/stolasapp/tessera/internal/upstream"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve origin pages with their blocks decorated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			grp, ctx := errgroup.WithContext(cmd.Context())

			// In dev mode without an origin, start the fake upstream service
			if cfg.DevMode && cfg.UpstreamURI == "" {
				devAddr, err := serveDevUpstream(ctx, grp, logger)
				if err != nil {
					return err
				}
				cfg.UpstreamURI = "http://" + devAddr + "/"
			}

			fetcher, err := upstream.NewFetcher(cfg.UpstreamURI, cfg.HTTPCacheBytes, logger)
			if err != nil {
				return err
			}
			appServer, err := app.New(cfg, logger, fetcher, newRegistry(cfg, logger))
			if err != nil {
				return err
			}

			if _, err = server.Start(ctx, grp, logger, "app", cfg.WebAddress, appServer,
				slog.String("upstream", cfg.UpstreamURI),
			); err != nil {
				return err
			}
			return grp.Wait()
		},
	}
}

func serveDevUpstream(
	ctx context.Context,
	grp *errgroup.Group,
	logger *slog.Logger,
) (string, error) {
	seed := devservice.Seed()
	addr, err := server.Start(ctx, grp, logger, "dev upstream", "127.0.0.1:0", devservice.New(seed),
		slog.Uint64("seed", seed),
	)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}
