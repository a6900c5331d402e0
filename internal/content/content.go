// Package content contains transformers that move authored block markup
// between formats and run the block decorators over it.
package content

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/stolasapp/tessera/internal/blocks"
)

// Format names a markup format handled by [Convert].
type Format string

// Supported formats.
const (
	// FormatPlain is rendered block markup: sections of classed div blocks.
	FormatPlain Format = "plain"
	// FormatAuthoring is a full document with one table per block.
	FormatAuthoring Format = "authoring"
	// FormatMarkdown is Markdown with pipe tables per block.
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatPlain, FormatAuthoring, FormatMarkdown}

var (
	// Individual transformers.
	normalizeNBSP    = NormalizeNBSP()
	extractHTMLBody  = ExtractHTMLBody()
	sanitizeHTML     = SanitizeHTML()
	markdownToHTML   = MarkdownToHTML()
	htmlToMarkdown   = HTMLToMarkdown()
	authoringToPlain = AuthoringToPlain()

	// Pre-composed pipelines producing sanitized plain markup.
	plainPipeline     = Chain(normalizeNBSP, extractHTMLBody, sanitizeHTML)
	authoringPipeline = Chain(normalizeNBSP, authoringToPlain, sanitizeHTML)
	markdownPipeline  = Chain(markdownToHTML, normalizeNBSP, authoringToPlain, sanitizeHTML)
)

// ToPlain returns the pipeline turning input of the given format into
// sanitized plain block markup.
func ToPlain(from Format) (TransformerFunc, error) {
	switch from {
	case FormatPlain:
		return plainPipeline, nil
	case FormatAuthoring:
		return authoringPipeline, nil
	case FormatMarkdown:
		return markdownPipeline, nil
	default:
		return nil, fmt.Errorf("unsupported input format %q", from)
	}
}

// Convert converts input from one format to another, passing through plain
// markup. The title is used when producing the authoring format.
func Convert(ctx context.Context, from, to Format, title string, input []byte) ([]byte, error) {
	toPlain, err := ToPlain(from)
	if err != nil {
		return nil, err
	}
	switch to {
	case FormatPlain:
		return toPlain(ctx, input)
	case FormatAuthoring:
		return Chain(toPlain, PlainToAuthoring(title))(ctx, input)
	case FormatMarkdown:
		return Chain(toPlain, PlainToAuthoring(title), extractHTMLBody, htmlToMarkdown)(ctx, input)
	default:
		return nil, fmt.Errorf("unsupported output format %q", to)
	}
}

// Decorate returns a pipeline that converts input of the given format to
// plain markup and runs the registry's decorators over its blocks.
func Decorate(from Format, registry *blocks.Registry) (TransformerFunc, error) {
	toPlain, err := ToPlain(from)
	if err != nil {
		return nil, err
	}
	return Chain(toPlain, DecorateBlocks(registry)), nil
}

// DecorateBlocks runs the registry's decorators over every block of a plain
// markup document and renders the decorated body content.
func DecorateBlocks(registry *blocks.Registry) TransformerFunc {
	return func(ctx context.Context, input []byte) ([]byte, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML document: %w", err)
		}
		if err = registry.DecorateAll(ctx, doc.Selection); err != nil {
			return nil, fmt.Errorf("failed to decorate blocks: %w", err)
		}
		out, err := doc.Find("body").Html()
		if err != nil {
			return nil, fmt.Errorf("failed to render decorated HTML: %w", err)
		}
		return []byte(out), nil
	}
}
