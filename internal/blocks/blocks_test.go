package blocks

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/stolasapp/tessera/internal/picture"
)

// parseBlock parses markup and returns its first top-level div.
func parseBlock(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	block := doc.Find("body > div").First()
	require.Equal(t, 1, block.Length(), "markup must contain a top-level div")
	return block
}

func outerHTML(t *testing.T, sel *goquery.Selection) string {
	t.Helper()
	out, err := goquery.OuterHtml(sel)
	require.NoError(t, err)
	return out
}

type resolveCall struct {
	src         string
	alt         string
	eager       bool
	breakpoints []picture.Breakpoint
}

// recordingResolver returns an empty picture tagged with the source and
// records every call.
type recordingResolver struct {
	calls []resolveCall
}

func (r *recordingResolver) Resolve(src, alt string, eager bool, breakpoints []picture.Breakpoint) *html.Node {
	r.calls = append(r.calls, resolveCall{src: src, alt: alt, eager: eager, breakpoints: breakpoints})
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte("picture")),
		Data:     "picture",
		Attr:     []html.Attribute{{Key: "data-src", Val: src}},
	}
}
