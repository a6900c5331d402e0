package picture

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func render(t *testing.T, node *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, node))
	return buf.String()
}

func TestOptimized_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		resolver    Optimized
		src         string
		alt         string
		eager       bool
		breakpoints []Breakpoint
		want        string
	}{
		{
			name:        "single breakpoint",
			src:         "./media_1a2b.png?width=2000&format=webply",
			alt:         "A card",
			breakpoints: []Breakpoint{{Width: 750}},
			want: `<picture>` +
				`<source type="image/webp" srcset="./media_1a2b.png?width=750&amp;format=webply&amp;optimize=medium"/>` +
				`<img loading="lazy" alt="A card" src="./media_1a2b.png?width=750&amp;format=png&amp;optimize=medium"/>` +
				`</picture>`,
		},
		{
			name:  "default breakpoints with eager loading",
			src:   "/media/hero.jpg",
			eager: true,
			want: `<picture>` +
				`<source media="(min-width: 600px)" type="image/webp" srcset="/media/hero.jpg?width=2000&amp;format=webply&amp;optimize=medium"/>` +
				`<source type="image/webp" srcset="/media/hero.jpg?width=750&amp;format=webply&amp;optimize=medium"/>` +
				`<source media="(min-width: 600px)" srcset="/media/hero.jpg?width=2000&amp;format=jpg&amp;optimize=medium"/>` +
				`<img loading="eager" alt="" src="/media/hero.jpg?width=750&amp;format=jpg&amp;optimize=medium"/>` +
				`</picture>`,
		},
		{
			name:        "relative source resolved against base",
			resolver:    Optimized{Base: &url.URL{Scheme: "https", Host: "example.com", Path: "/blog/post"}},
			src:         "./media_9.jpeg",
			breakpoints: []Breakpoint{{Width: 750}},
			want: `<picture>` +
				`<source type="image/webp" srcset="/blog/media_9.jpeg?width=750&amp;format=webply&amp;optimize=medium"/>` +
				`<img loading="lazy" alt="" src="/blog/media_9.jpeg?width=750&amp;format=jpeg&amp;optimize=medium"/>` +
				`</picture>`,
		},
		{
			name:        "missing source still yields a picture",
			breakpoints: []Breakpoint{{Width: 750}},
			want: `<picture>` +
				`<source type="image/webp" srcset="?width=750&amp;format=webply&amp;optimize=medium"/>` +
				`<img loading="lazy" alt="" src="?width=750&amp;format=&amp;optimize=medium"/>` +
				`</picture>`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := test.resolver.Resolve(test.src, test.alt, test.eager, test.breakpoints)
			require.NotNil(t, got)
			assert.Nil(t, got.Parent)
			assert.Equal(t, test.want, render(t, got))
		})
	}
}

func TestCached(t *testing.T) {
	t.Parallel()

	calls := 0
	inner := ResolverFunc(func(src, alt string, eager bool, breakpoints []Breakpoint) *html.Node {
		calls++
		return Optimized{}.Resolve(src, alt, eager, breakpoints)
	})
	resolver := Cached(inner, NewCache(0))
	breakpoints := []Breakpoint{{Width: 750}}

	first := resolver.Resolve("/a.png", "a", false, breakpoints)
	second := resolver.Resolve("/a.png", "a", false, breakpoints)
	third := resolver.Resolve("/a.png", "other", false, breakpoints)

	assert.Equal(t, 2, calls)
	assert.NotSame(t, first, second)
	assert.Nil(t, second.Parent)
	assert.Equal(t, render(t, first), render(t, second))
	assert.NotEqual(t, render(t, first), render(t, third))
}
