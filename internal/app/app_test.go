package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/tessera/internal/app/devservice"
	"github.com/stolasapp/tessera/internal/blocks"
	"github.com/stolasapp/tessera/internal/config"
	"github.com/stolasapp/tessera/internal/picture"
	"github.com/stolasapp/tessera/internal/upstream"
)

const testSeed = 42

type testEnv struct {
	app    *echo.Echo
	origin *httptest.Server
	dev    *devservice.Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dev := devservice.New(testSeed)
	origin := httptest.NewServer(dev)
	t.Cleanup(origin.Close)

	logger := slog.New(slog.DiscardHandler)
	fetcher, err := upstream.NewFetcher(origin.URL, 1<<20, logger)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.UpstreamURI = origin.URL
	srv, err := New(cfg, logger, fetcher, blocks.Default(picture.Optimized{}))
	require.NoError(t, err)
	return testEnv{app: srv, origin: origin, dev: dev}
}

func serve(t *testing.T, srv *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequestWithContext(t.Context(), method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func TestApp_Index(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := serve(t, env.app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderLastModified))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	doc := parse(t, rec)
	assert.Equal(t, "Blog", doc.Find("head > title").Text())
	cards := doc.Find("main div.cards-teaser")
	assert.Equal(t, blocks.StatusLoaded, cards.AttrOr(blocks.AttrBlockStatus, ""))
	assert.Equal(t, len(env.dev.Paths())-1, cards.Find("ul > li").Length())
	cards.Find("ul > li").Each(func(_ int, card *goquery.Selection) {
		assert.Equal(t, 1, card.Find("."+blocks.ClassCardImage+" picture > source[type=\"image/webp\"]").Length())
		assert.Equal(t, "Read more", card.Find("."+blocks.ClassCardBody+" a."+blocks.ClassButton).Text())
	})
}

func TestApp_Post(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for _, path := range env.dev.Paths()[1:] {
		rec := serve(t, env.app, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		doc := parse(t, rec)

		title := doc.Find("main div.title h1").Text()
		assert.NotEmpty(t, title)
		assert.Equal(t, title, doc.Find("head > title").Text())

		bar := doc.Find("main div.action-bar > ." + blocks.ClassActionBarWrapper)
		assert.Equal(t, 1, bar.Length(), path)
		assert.Contains(t, bar.Find("."+blocks.ClassActionBarMeta).Text(), "By ")
		assert.Positive(t, bar.Find("button."+blocks.ClassActionBarButton).Length())

		assert.Equal(t, 1, doc.Find("main div.image > picture").Length())
		assert.Equal(t, 1, doc.Find("main div.table-data > table").Length())
		assert.Positive(t, doc.Find("main div.table-data tbody > tr").Length())
	}
}

func TestApp_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := serve(t, env.app, http.MethodGet, "/blog/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingSource struct{}

func (failingSource) Fetch(context.Context, string) (*upstream.Page, error) {
	return nil, errors.New("connection refused")
}

func (failingSource) Base() *url.URL {
	return &url.URL{Scheme: "http", Host: "origin.invalid"}
}

func TestApp_UpstreamFailure(t *testing.T) {
	t.Parallel()

	srv, err := New(config.Default(), slog.New(slog.DiscardHandler), failingSource{}, blocks.NewRegistry())
	require.NoError(t, err)
	rec := serve(t, srv, http.MethodGet, "/anything", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestApp_Decorate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	tests := []struct {
		name     string
		query    string
		body     string
		wantCode int
		check    func(t *testing.T, doc *goquery.Document)
	}{
		{
			name:     "plain markup",
			body:     `<div><div class="action-bar"><div><div>Now</div></div><div><div><div>Like</div></div></div></div></div>`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, doc *goquery.Document) {
				t.Helper()
				assert.Equal(t, "like", doc.Find("button").AttrOr(blocks.AttrAction, ""))
			},
		},
		{
			name:     "markdown",
			query:    "?format=markdown",
			body:     "| Table Data |  |\n| --- | --- |\n| a | b |\n| 1 | 2 |\n",
			wantCode: http.StatusOK,
			check: func(t *testing.T, doc *goquery.Document) {
				t.Helper()
				assert.Equal(t, 2, doc.Find("div.table-data thead th").Length())
				assert.Equal(t, 2, doc.Find("div.table-data tbody td").Length())
			},
		},
		{
			name:     "unsupported format",
			query:    "?format=docx",
			body:     "irrelevant",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(t, env.app, http.MethodPost, DecoratePath+test.query, test.body)
			require.Equal(t, test.wantCode, rec.Code)
			if test.check != nil {
				test.check(t, parse(t, rec))
			}
		})
	}
}

func TestApp_Media(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := serve(t, env.app, http.MethodGet, "/media/media_1.png?width=750&format=webply&optimize=medium", "")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t,
		env.origin.URL+"/media/media_1.png?width=750&format=webply&optimize=medium",
		rec.Header().Get(echo.HeaderLocation),
	)
}

func TestApp_Static(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for _, path := range []string{"/robots.txt", "/static/styles.css"} {
		rec := serve(t, env.app, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Body.String(), path)
	}
}
