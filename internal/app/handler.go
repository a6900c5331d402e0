package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/stolasapp/tessera/internal/app/component"
	"github.com/stolasapp/tessera/internal/blocks"
	"github.com/stolasapp/tessera/internal/content"
	"github.com/stolasapp/tessera/internal/upstream"
)

// DecoratePath accepts markup to decorate without fetching it from the origin.
const DecoratePath = "/.decorate"

type handler struct {
	pages    PageSource
	registry *blocks.Registry
	decorate content.TransformerFunc
	logger   *slog.Logger
}

func newHandler(pages PageSource, registry *blocks.Registry, logger *slog.Logger) (handler, error) {
	decorate, err := content.Decorate(content.FormatPlain, registry)
	if err != nil {
		return handler{}, err
	}
	return handler{
		pages:    pages,
		registry: registry,
		decorate: decorate,
		logger:   logger.With(slog.String("component", "app")),
	}, nil
}

func (h handler) register(e *echo.Echo) {
	e.POST(DecoratePath, h.decorateMarkup)
	e.GET("/media/*", h.media)
	e.GET("/*", h.page)
}

func (h handler) page(c echo.Context) error {
	ctx := c.Request().Context()
	pagePath := "/" + c.Param("*")

	page, err := h.pages.Fetch(ctx, pagePath)
	if errors.Is(err, upstream.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
	} else if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway).SetInternal(err)
	}

	body, err := h.decorate(ctx, page.Markup)
	if err != nil {
		return fmt.Errorf("failed to decorate %s: %w", pagePath, err)
	}
	h.logger.DebugContext(ctx, "page decorated",
		slog.String("path", pagePath),
		slog.Any("blocks", page.Blocks),
	)

	if !page.LastModified.IsZero() {
		c.Response().Header().Set(echo.HeaderLastModified, page.LastModified.UTC().Format(http.TimeFormat))
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return render(ctx, component.Page(pageTitle(body), component.Markup(body)), c.Response())
}

func (h handler) decorateMarkup(c echo.Context) error {
	format := content.Format(c.QueryParam("format"))
	if format == "" {
		format = content.FormatPlain
	}
	decorate, err := content.Decorate(format, h.registry)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	out, err := decorate(c.Request().Context(), input)
	if err != nil {
		return fmt.Errorf("failed to decorate markup: %w", err)
	}
	return c.HTMLBlob(http.StatusOK, out)
}

// media redirects image requests, including their optimization parameters,
// to the origin.
func (h handler) media(c echo.Context) error {
	target := h.pages.Base().JoinPath("media", c.Param("*"))
	target.RawQuery = c.QueryString()
	return c.Redirect(http.StatusFound, target.String())
}

// pageTitle is the text of the first heading of the decorated body.
func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

var renderBufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

func render(ctx context.Context, comp templ.Component, w io.Writer) error {
	buf := renderBufferPool.Get().(*bytes.Buffer) //nolint:forcetypeassert // guaranteed by impl
	defer renderBufferPool.Put(buf)
	buf.Reset()

	if err := comp.Render(ctx, buf); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	_, err := io.Copy(w, buf)
	return err
}
