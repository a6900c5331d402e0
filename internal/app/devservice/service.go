// Package devservice provides a fake content origin for development and
// testing. It serves the plain block markup of a seeded blog, matching what
// the upstream fetcher expects from a real origin.
package devservice

import (
	"fmt"
	"html"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/stolasapp/tessera/internal/blockname"
	"github.com/stolasapp/tessera/internal/upstream"
)

// Corpus generation constants.
const (
	minPosts       = 6
	maxExtraPosts  = 7 // 6-12 posts total
	numImages      = 4
	imageWidth     = 160
	imageHeight    = 90
	minRelated     = 1
	maxExtraRelate = 3 // 1-3 related posts
)

// Seed returns the dev service seed from the DEV_SERVICE_SEED environment
// variable, or a random value if not set.
func Seed() uint64 {
	if env := os.Getenv("DEV_SERVICE_SEED"); env != "" {
		if seed, err := strconv.ParseUint(env, 10, 64); err == nil {
			return seed
		}
	}
	return rand.Uint64() //nolint:gosec // intentionally weak random for test data
}

// post represents a generated blog post.
type post struct {
	slug        string
	title       string
	description string
	author      string
	image       string
	updateTime  time.Time
	actions     []string
	paragraphs  []string
	stats       [][]string
	noHeader    bool
	related     []int
}

// Service is an HTTP server that serves fake origin pages.
type Service struct {
	mux    *http.ServeMux
	posts  []post
	images [][]byte
}

// New creates a new dev service with a seeded random corpus.
func New(seed uint64) *Service {
	faker := gofakeit.New(seed)
	svc := &Service{mux: http.NewServeMux()}
	svc.generateCorpus(faker)
	svc.registerRoutes()
	return svc
}

// ServeHTTP satisfies [http.Handler].
func (s *Service) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.mux.ServeHTTP(writer, request)
}

// Paths returns the page path of every generated page, index first.
func (s *Service) Paths() []string {
	paths := []string{"/"}
	for _, p := range s.posts {
		paths = append(paths, "/blog/"+p.slug)
	}
	return paths
}

func (s *Service) generateCorpus(faker *gofakeit.Faker) {
	s.images = make([][]byte, numImages)
	for i := range s.images {
		s.images[i] = faker.ImagePng(imageWidth, imageHeight)
	}

	numPosts := minPosts + faker.IntN(maxExtraPosts)
	seen := make(map[string]bool, numPosts)
	for len(s.posts) < numPosts {
		p := s.generatePost(faker)
		if seen[p.slug] {
			continue
		}
		seen[p.slug] = true
		s.posts = append(s.posts, p)
	}

	// Newest first, like a blog index
	slices.SortFunc(s.posts, func(a, b post) int {
		return b.updateTime.Compare(a.updateTime)
	})

	order := make([]int, len(s.posts))
	for i := range order {
		order[i] = i
	}
	for i := range s.posts {
		numRelated := minRelated + faker.IntN(maxExtraRelate)
		faker.ShuffleInts(order)
		for _, idx := range order {
			if idx != i && len(s.posts[i].related) < numRelated {
				s.posts[i].related = append(s.posts[i].related, idx)
			}
		}
	}
}

func (s *Service) generatePost(faker *gofakeit.Faker) post {
	title := generateTitle(faker)
	return post{
		slug:        blockname.ToClassName(title),
		title:       title,
		description: faker.Sentence(minWords + faker.IntN(maxExtraWords)),
		author:      faker.Name(),
		image:       fmt.Sprintf("/media/media_%d.png", faker.IntN(numImages)),
		updateTime: faker.DateRange(
			time.Now().AddDate(-1, 0, 0),
			time.Now(),
		).UTC().Truncate(time.Second),
		actions:    generateActions(faker),
		paragraphs: generateParagraphs(faker),
		stats:      generateStats(faker),
		noHeader:   faker.Float64() < noHeaderProbabilty,
	}
}

func (s *Service) registerRoutes() {
	s.mux.HandleFunc("GET /index"+upstream.PlainSuffix, s.handleIndex)
	s.mux.HandleFunc("GET /blog/{page}", s.handlePost)
	s.mux.HandleFunc("GET /media/{file}", s.handleMedia)
}

func (s *Service) handleIndex(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.Header().Set("Cache-Control", "max-age=60")
	if len(s.posts) > 0 {
		writer.Header().Set("Last-Modified", s.posts[0].updateTime.Format(http.TimeFormat))
	}

	writeString(writer, `<div>`)
	writeTitle(writer, "Blog")
	writeString(writer, `</div><div>`)
	all := make([]int, len(s.posts))
	for i := range all {
		all[i] = i
	}
	s.writeCards(writer, all)
	writeString(writer, `</div>`)
}

func (s *Service) handlePost(writer http.ResponseWriter, request *http.Request) {
	slug, ok := strings.CutSuffix(request.PathValue("page"), upstream.PlainSuffix)
	if !ok {
		http.NotFound(writer, request)
		return
	}
	idx := slices.IndexFunc(s.posts, func(p post) bool { return p.slug == slug })
	if idx < 0 {
		http.NotFound(writer, request)
		return
	}
	p := s.posts[idx]

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.Header().Set("Cache-Control", "max-age=60")
	writer.Header().Set("Last-Modified", p.updateTime.Format(http.TimeFormat))

	// header section
	writeString(writer, `<div>`)
	writeTitle(writer, p.title)
	writeString(writer, `<div class="action-bar"><div><div>`)
	writef(writer, `<p>By %s</p><p>%s</p>`, html.EscapeString(p.author), p.updateTime.Format("January 2, 2006"))
	writeString(writer, `</div></div><div><div>`)
	for _, label := range p.actions {
		writef(writer, `<div>%s</div>`, label)
	}
	writeString(writer, `</div></div></div>`)
	writef(writer, `<div class="image"><div><div><picture><img src="%s" alt="%s"></picture></div></div></div>`,
		p.image, html.EscapeString(p.title))
	writef(writer, `<div class="introduction"><div><div><p>%s</p></div></div></div>`,
		html.EscapeString(p.description))
	writeString(writer, `</div>`)

	// body section
	writeString(writer, `<div>`)
	for _, para := range p.paragraphs {
		writef(writer, `<p>%s</p>`, html.EscapeString(para))
	}
	writeString(writer, `</div>`)

	// stats section
	class := "table-data"
	if p.noHeader {
		class += " no-header"
	}
	writef(writer, `<div><div class="%s">`, class)
	for _, row := range p.stats {
		writeString(writer, `<div>`)
		for _, cell := range row {
			writef(writer, `<div>%s</div>`, html.EscapeString(cell))
		}
		writeString(writer, `</div>`)
	}
	writeString(writer, `</div></div>`)

	// related section
	writeString(writer, `<div><h2>Related</h2>`)
	s.writeCards(writer, p.related)
	writeString(writer, `</div>`)
}

func (s *Service) handleMedia(writer http.ResponseWriter, request *http.Request) {
	var idx int
	if _, err := fmt.Sscanf(request.PathValue("file"), "media_%d.png", &idx); err != nil || idx < 0 || idx >= len(s.images) {
		http.NotFound(writer, request)
		return
	}
	// Optimization parameters are accepted and ignored
	writer.Header().Set("Content-Type", "image/png")
	writer.Header().Set("Cache-Control", "max-age=3600")
	_, _ = writer.Write(s.images[idx])
}

func (s *Service) writeCards(writer io.Writer, indexes []int) {
	writeString(writer, `<div class="cards-teaser">`)
	for _, idx := range indexes {
		p := s.posts[idx]
		writef(writer, `<div><div><picture><img src="%s" alt="%s"></picture></div>`,
			p.image, html.EscapeString(p.title))
		writef(writer, `<div><p><strong>%s</strong></p><p>%s</p><p><a href="/blog/%s">Read more</a></p></div></div>`,
			html.EscapeString(p.title), html.EscapeString(p.description), p.slug)
	}
	writeString(writer, `</div>`)
}

func writeTitle(writer io.Writer, title string) {
	writef(writer, `<div class="title"><div><div><h1>%s</h1></div></div></div>`, html.EscapeString(title))
}

// writeString writes a string to the writer, discarding any error.
// Errors are ignored since this is test/dev infrastructure where write failures
// are unrecoverable and will manifest as test failures anyway.
func writeString(writer io.Writer, str string) {
	_, _ = io.WriteString(writer, str)
}

// writef writes a formatted string to the writer, discarding any error.
// See writeString for rationale on discarded errors.
func writef(writer io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(writer, format, args...)
}
