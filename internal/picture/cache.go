package picture

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/die-net/lrucache"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// MaxCacheBytes is the default size bound of a picture cache.
	MaxCacheBytes = 8 * 1024 * 1024 // 8 MiB
	maxCacheAge   = 0               // unlimited
)

// NewCache creates a cache suitable for [Cached]. A non-positive maxBytes
// selects [MaxCacheBytes].
func NewCache(maxBytes int64) *lrucache.LruCache {
	if maxBytes <= 0 {
		maxBytes = MaxCacheBytes
	}
	return lrucache.New(maxBytes, maxCacheAge)
}

// Cached memoizes the rendered output of inner. Every call still returns a
// freshly parsed, detached element, so callers may mutate the result.
func Cached(inner Resolver, cache *lrucache.LruCache) Resolver {
	return ResolverFunc(func(src, alt string, eager bool, breakpoints []Breakpoint) *html.Node {
		key := cacheKey(src, alt, eager, breakpoints)
		if data, ok := cache.Get(key); ok {
			if node := parsePicture(data); node != nil {
				return node
			}
			cache.Delete(key)
		}

		node := inner.Resolve(src, alt, eager, breakpoints)
		var buf bytes.Buffer
		if err := html.Render(&buf, node); err == nil {
			cache.Set(key, buf.Bytes())
		}
		return node
	})
}

func cacheKey(src, alt string, eager bool, breakpoints []Breakpoint) string {
	var key strings.Builder
	fmt.Fprintf(&key, "%q|%q|%t", src, alt, eager)
	for _, br := range breakpoints {
		fmt.Fprintf(&key, "|%q:%d", br.Media, br.Width)
	}
	return key.String()
}

func parsePicture(data []byte) *html.Node {
	nodes, err := html.ParseFragment(bytes.NewReader(data), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
	})
	if err != nil || len(nodes) != 1 {
		return nil
	}
	return nodes[0]
}
