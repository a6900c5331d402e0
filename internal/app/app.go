// Package app contains the web front-end: it serves origin pages with their
// blocks decorated.
package app

import (
	"context"
	"embed"
	"log/slog"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/stolasapp/tessera/internal/blocks"
	"github.com/stolasapp/tessera/internal/config"
	"github.com/stolasapp/tessera/internal/upstream"
)

//go:embed static
var staticFiles embed.FS

// maxBodySize bounds markup posted for decoration.
const maxBodySize = "2M"

// PageSource provides the plain markup of origin pages.
type PageSource interface {
	// Fetch retrieves the page at pagePath, returning an error wrapping
	// [upstream.ErrNotFound] when there is no such page.
	Fetch(ctx context.Context, pagePath string) (*upstream.Page, error)
	// Base returns the origin root, used to resolve media requests.
	Base() *url.URL
}

// New creates a web front-end server.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	pages PageSource,
	registry *blocks.Registry,
) (*echo.Echo, error) {
	h, err := newHandler(pages, registry, logger)
	if err != nil {
		return nil, err
	}

	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)

	if cfg.DevMode {
		srv.Debug = true
		srv.Use(logRequests(logger))
	} else {
		srv.Use(middleware.Recover())
	}

	srv.Use(
		middleware.Decompress(),
		middleware.BodyLimit(maxBodySize),
		middleware.Gzip(),
		middleware.Secure(),
		middleware.RequestID(),
	)

	h.register(srv)
	staticFS := echo.MustSubFS(staticFiles, "static")
	srv.StaticFS("/static/", staticFS)
	srv.FileFS("/robots.txt", "robots.txt", staticFS)
	return srv, nil
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if id := res.Header().Get(echo.HeaderXRequestID); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
