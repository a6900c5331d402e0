// Package blocks contains the decorators that rewrite authored block markup
// into semantic, styleable structures.
//
// A block container's direct children are rows and a row's direct children
// are cells. A decorator reads that grid, assembles its output detached from
// the document and then swaps it in as the container's only content. The
// container node itself keeps its identity and position.
package blocks

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/stolasapp/tessera/internal/picture"
)

// Decorator rewrites the content of one block container in place.
type Decorator interface {
	// Decorate replaces the children of block. It never fails: missing rows
	// or cells are treated as absent optional structure. Calling Decorate
	// twice on the same container is unsupported.
	Decorate(block *goquery.Selection)
}

// DecoratorFunc is a [Decorator] that can be represented just by the
// [Decorator.Decorate] method.
type DecoratorFunc func(block *goquery.Selection)

// Decorate satisfies [Decorator].
func (fn DecoratorFunc) Decorate(block *goquery.Selection) { fn(block) }

// Passthrough is a [Decorator] that leaves the block untouched, for blocks
// styled entirely via CSS.
func Passthrough() DecoratorFunc {
	return func(*goquery.Selection) {}
}

// Title decorates the title block.
func Title() DecoratorFunc { return Passthrough() }

// Introduction decorates the introduction block.
func Introduction() DecoratorFunc { return Passthrough() }

// Default returns a registry with every built-in decorator bound. The
// resolver provides responsive pictures for card images.
func Default(resolver picture.Resolver, opts ...Option) *Registry {
	reg := NewRegistry(opts...)
	reg.Register(NameActionBar, ActionBar())
	reg.Register(NameCardsTeaser, CardsTeaser(resolver))
	reg.Register(NameImage, Image())
	reg.Register(NameIntroduction, Introduction())
	reg.Register(NameTableData, TableData())
	reg.Register(NameTitle, Title())
	return reg
}
