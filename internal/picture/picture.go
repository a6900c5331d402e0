// Package picture builds responsive picture elements for authored images.
package picture

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Breakpoint is one width candidate of a responsive picture. Media is an
// optional media query restricting when the candidate applies.
type Breakpoint struct {
	Media string
	Width int
}

// DefaultBreakpoints is used when a caller passes no breakpoints.
var DefaultBreakpoints = []Breakpoint{
	{Media: "(min-width: 600px)", Width: 2000},
	{Width: 750},
}

// Resolver turns an image source into a replacement picture element with
// multiple resolution candidates.
type Resolver interface {
	// Resolve returns a detached picture element for src. It never returns
	// nil.
	Resolve(src, alt string, eager bool, breakpoints []Breakpoint) *html.Node
}

// ResolverFunc is a [Resolver] that can be represented just by the
// [Resolver.Resolve] method.
type ResolverFunc func(src, alt string, eager bool, breakpoints []Breakpoint) *html.Node

// Resolve satisfies [Resolver].
func (fn ResolverFunc) Resolve(src, alt string, eager bool, breakpoints []Breakpoint) *html.Node {
	return fn(src, alt, eager, breakpoints)
}

// Optimized is the default [Resolver]. It points every candidate at the
// image delivery endpoint of the source path, requesting a webp rendition
// first and the original format as fallback.
type Optimized struct {
	// Base resolves relative sources. Relative paths are kept as-is when nil.
	Base *url.URL
}

// Resolve satisfies [Resolver].
func (o Optimized) Resolve(src, alt string, eager bool, breakpoints []Breakpoint) *html.Node {
	if len(breakpoints) == 0 {
		breakpoints = DefaultBreakpoints
	}
	pathname := o.pathname(src)
	ext := pathname[strings.LastIndex(pathname, ".")+1:]

	pic := element("picture")
	for _, br := range breakpoints {
		source := element("source")
		if br.Media != "" {
			setAttr(source, "media", br.Media)
		}
		setAttr(source, "type", "image/webp")
		setAttr(source, "srcset", candidate(pathname, br.Width, "webply"))
		pic.AppendChild(source)
	}

	last := len(breakpoints) - 1
	for i, br := range breakpoints {
		if i < last {
			source := element("source")
			if br.Media != "" {
				setAttr(source, "media", br.Media)
			}
			setAttr(source, "srcset", candidate(pathname, br.Width, ext))
			pic.AppendChild(source)
			continue
		}
		img := element("img")
		loading := "lazy"
		if eager {
			loading = "eager"
		}
		setAttr(img, "loading", loading)
		setAttr(img, "alt", alt)
		setAttr(img, "src", candidate(pathname, br.Width, ext))
		pic.AppendChild(img)
	}
	return pic
}

func (o Optimized) pathname(src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	if o.Base != nil {
		ref = o.Base.ResolveReference(ref)
	}
	return ref.Path
}

func candidate(pathname string, width int, format string) string {
	return pathname + "?width=" + strconv.Itoa(width) + "&format=" + format + "&optimize=medium"
}

func element(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
}

func setAttr(node *html.Node, key, val string) {
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: val})
}
