package content

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// ExtractHTMLBody extracts just the body content from a full HTML document.
// If no body tag exists, returns the input unchanged.
func ExtractHTMLBody() TransformerFunc {
	return func(_ context.Context, input []byte) ([]byte, error) {
		if !bytes.Contains(bytes.ToLower(input), []byte("<body")) {
			return input, nil
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML document: %w", err)
		}
		innerHTML, err := doc.Find("body").Html()
		if err != nil {
			return nil, fmt.Errorf("failed to extract HTML body: %w", err)
		}
		return []byte(innerHTML), nil
	}
}

var (
	// nbspPattern matches both the HTML entity &nbsp; (case insensitive) and
	// the actual unicode non-breaking space character (U+00A0).
	nbspPattern = regexp.MustCompile("(?i)&nbsp;|\xc2\xa0")

	// blockClass matches the class list of an authored block container:
	// the block name followed by its variants.
	blockClass = regexp.MustCompile(`^[A-Za-z0-9_ -]+$`)

	// srcsetValue matches the candidate list of a picture source.
	srcsetValue = regexp.MustCompile(`^[^"<>]+$`)

	// mediaQuery matches a media query or MIME type on a picture source.
	mediaQuery = regexp.MustCompile(`^[A-Za-z0-9 ():/,.+-]*$`)

	// attrText matches free text attributes such as alt and title.
	attrText = regexp.MustCompile(`^[^"<>]*$`)
)

// NormalizeNBSP replaces non-breaking space entities and characters with
// regular spaces. Operates on raw input before HTML parsing.
func NormalizeNBSP() TransformerFunc {
	return func(_ context.Context, input []byte) ([]byte, error) {
		return nbspPattern.ReplaceAll(input, []byte{' '}), nil
	}
}

// SanitizeHTML applies sanitization rules to authored block markup,
// stripping unsupported tags and attributes while keeping the row and cell
// grid and its classes intact.
func SanitizeHTML() TransformerFunc {
	htmlSanitizer := sanitizer()
	return func(_ context.Context, input []byte) ([]byte, error) {
		return htmlSanitizer.SanitizeBytes(input), nil
	}
}

// sanitizer is a reduction of [bluemonday.UGCPolicy] to the elements the
// authoring pipeline produces. Differences:
//
//   - class is kept on div (block names and variants)
//   - picture/source/img are kept for responsive images
//   - no inline styling, forms or embedded media
//   - links are not marked nofollow
func sanitizer() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()

	policy.AllowStandardURLs()
	policy.RequireNoFollowOnLinks(false)

	policy.AllowElements(
		"a",
		"b",
		"blockquote",
		"br",
		"code",
		"div",
		"em",
		"footer",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"header",
		"hr",
		"i",
		"main",
		"p",
		"picture",
		"pre",
		"s",
		"span",
		"strong",
		"sub",
		"sup",
		"u",
	)

	policy.AllowAttrs("class").
		Matching(blockClass).
		OnElements("div")

	policy.AllowAttrs("href").
		OnElements("a")
	policy.AllowAttrs("title").
		Matching(attrText).
		OnElements("a")

	policy.AllowAttrs("srcset").
		Matching(srcsetValue).
		OnElements("source")
	policy.AllowAttrs("type", "media").
		Matching(mediaQuery).
		OnElements("source")
	policy.AllowAttrs("src").
		OnElements("img", "source")
	policy.AllowAttrs("alt", "loading").
		Matching(attrText).
		OnElements("img")
	policy.AllowAttrs("width", "height").
		Matching(bluemonday.Number).
		OnElements("img")

	policy.AllowLists()
	policy.AllowTables()

	return policy
}
