// Package upstream fetches rendered block markup from the content origin.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/die-net/lrucache"
	"github.com/gocolly/colly/v2"
	"github.com/gregjones/httpcache"
)

const (
	userAgent       = "tessera/1.0"
	maxHTTPCacheAge = 0 // unlimited
	idleConns       = 100
	idleConnTimeout = 90 * time.Second
	httpTimeout     = 10 * time.Second

	// PlainSuffix is appended to a page path to request its plain markup.
	PlainSuffix = ".plain.html"

	// blockSelector matches block containers in plain markup.
	blockSelector = "body > div > div[class]"
)

// ErrNotFound is returned when the origin has no page at the requested path.
var ErrNotFound = errors.New("page not found")

// Page is the plain markup of an origin page.
type Page struct {
	// Path is the requested page path.
	Path string
	// Markup is the response body.
	Markup []byte
	// LastModified is taken from the Last-Modified header, when present.
	LastModified time.Time
	// Blocks lists the block class names in document order.
	Blocks []string
}

// Fetcher retrieves plain page markup from the origin through a shared
// in-memory HTTP cache.
type Fetcher struct {
	base   *url.URL
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher for the origin rooted at rootURI, caching up
// to cacheBytes of responses.
func NewFetcher(rootURI string, cacheBytes int64, logger *slog.Logger) (*Fetcher, error) {
	base, err := url.Parse(rootURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream uri: %w", err)
	} else if !base.IsAbs() {
		return nil, fmt.Errorf("upstream uri must have a scheme: %v", base)
	}

	return &Fetcher{
		base: base,
		client: &http.Client{
			Transport: &httpcache.Transport{
				Cache: lrucache.New(cacheBytes, maxHTTPCacheAge),
				Transport: &http.Transport{
					Proxy:               http.ProxyFromEnvironment,
					ForceAttemptHTTP2:   true,
					MaxIdleConns:        idleConns,
					MaxConnsPerHost:     idleConns,
					MaxIdleConnsPerHost: idleConns,
					IdleConnTimeout:     idleConnTimeout,
					TLSHandshakeTimeout: httpTimeout,
				},
				MarkCachedResponses: true,
			},
			Timeout: httpTimeout,
		},
		logger: logger.With(slog.String("component", "upstream")),
	}, nil
}

// Base returns the origin root.
func (f *Fetcher) Base() *url.URL {
	return f.base
}

// PlainURL returns the address of the plain markup for pagePath. Directory
// paths resolve to their index page.
func (f *Fetcher) PlainURL(pagePath string) string {
	if pagePath == "" || strings.HasSuffix(pagePath, "/") {
		pagePath += "index"
	}
	return f.base.JoinPath(pagePath + PlainSuffix).String()
}

// Fetch retrieves the plain markup of the page at pagePath.
func (f *Fetcher) Fetch(ctx context.Context, pagePath string) (*Page, error) {
	page := &Page{Path: pagePath}
	addr := f.PlainURL(pagePath)

	col := f.newCollector(ctx)
	col.OnResponseHeaders(func(resp *colly.Response) {
		hdr := resp.Headers.Get("Last-Modified")
		if hdr == "" {
			return
		}
		lastModified, err := http.ParseTime(hdr)
		if err != nil {
			f.logger.WarnContext(ctx, "failed to parse last-modified header",
				slog.String("header", hdr),
				slog.Any("error", err),
			)
			return
		}
		page.LastModified = lastModified
	})
	col.OnResponse(func(resp *colly.Response) {
		page.Markup = resp.Body
		if resp.Headers.Get(httpcache.XFromCache) != "" {
			f.logger.DebugContext(ctx, "served from cache", slog.String("url", addr))
		}
	})
	col.OnHTML(blockSelector, func(el *colly.HTMLElement) {
		if fields := strings.Fields(el.Attr("class")); len(fields) > 0 {
			page.Blocks = append(page.Blocks, strings.ToLower(fields[0]))
		}
	})

	var status int
	col.OnError(func(resp *colly.Response, _ error) {
		status = resp.StatusCode
	})

	if err := col.Visit(addr); err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("failed to fetch %s: %w", addr, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", addr, err)
	}
	return page, nil
}

func (f *Fetcher) newCollector(ctx context.Context) *colly.Collector {
	col := colly.NewCollector(
		colly.IgnoreRobotsTxt(),
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	col.SetClient(f.client)
	return col
}
