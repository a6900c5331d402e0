// Package uitest provides UI testing utilities using Rod.
package uitest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/tessera/internal/app"
	"github.com/stolasapp/tessera/internal/app/devservice"
	"github.com/stolasapp/tessera/internal/blocks"
	"github.com/stolasapp/tessera/internal/config"
	"github.com/stolasapp/tessera/internal/picture"
	"github.com/stolasapp/tessera/internal/server"
	"github.com/stolasapp/tessera/internal/upstream"
)

// TestSeed is the fixed seed used for reproducible test data.
const TestSeed uint64 = 12345

// Server is a test server that runs the app in dev mode against a generated
// origin.
type Server struct {
	baseURL string
	origin  *devservice.Service
	cancel  context.CancelFunc
	grp     *errgroup.Group
}

// newTestServer creates and starts a new test server.
// It panics on errors since setup failures leave nothing to test.
func newTestServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	grp, ctx := errgroup.WithContext(ctx)

	logger := slog.New(slog.DiscardHandler)
	cfg := testConfig()

	// Start dev upstream service
	origin := devservice.New(TestSeed)
	devAddr, err := server.Start(ctx, grp, logger, "dev upstream", "127.0.0.1:0", origin)
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to start dev upstream: %v", err))
	}
	cfg.UpstreamURI = "http://" + devAddr.String() + "/"

	fetcher, err := upstream.NewFetcher(cfg.UpstreamURI, cfg.HTTPCacheBytes, logger)
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to create fetcher: %v", err))
	}

	// Create and start app server
	resolver := picture.Cached(picture.Optimized{}, picture.NewCache(cfg.ImageCacheBytes))
	appServer, err := app.New(cfg, logger, fetcher, blocks.Default(resolver, blocks.WithConcurrency(cfg.Concurrency)))
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to create app server: %v", err))
	}
	appAddr, err := server.Start(ctx, grp, logger, "app", "127.0.0.1:0", appServer)
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to start app server: %v", err))
	}

	return &Server{
		baseURL: "http://" + appAddr.String(),
		origin:  origin,
		cancel:  cancel,
		grp:     grp,
	}
}

// BaseURL returns the base URL of the test server.
func (s *Server) BaseURL() string {
	return s.baseURL
}

// Paths returns the page paths served by the generated origin.
func (s *Server) Paths() []string {
	return s.origin.Paths()
}

// Close shuts down the test server.
// Errors are ignored since this runs during test cleanup where failures
// are typically unrecoverable and already logged by the errgroup.
func (s *Server) Close() {
	s.cancel()
	_ = s.grp.Wait()
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.LogLevel = config.LogLevelDebug
	cfg.DevMode = true
	return cfg
}

// URL constructs a full URL from the server base URL and a path.
func (s *Server) URL(path string) string {
	return fmt.Sprintf("%s%s", s.baseURL, path)
}
