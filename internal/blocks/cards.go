package blocks

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/stolasapp/tessera/internal/picture"
)

// cardImageWidth is the only width requested for card pictures.
const cardImageWidth = 750

// Region classifies a cell of a card.
type Region int

// Card regions.
const (
	// RegionBody is any cell that is not an image region.
	RegionBody Region = iota
	// RegionImage is a cell whose sole element content holds a picture.
	RegionImage
)

// Class returns the CSS class of the region.
func (r Region) Class() string {
	if r == RegionImage {
		return ClassCardImage
	}
	return ClassCardBody
}

// classifyCell inspects the final children of a cell. A row may yield any
// number of image regions.
func classifyCell(cell *html.Node) Region {
	if elementChildren(cell) == 1 && selectionOf(cell).Find("picture").Length() > 0 {
		return RegionImage
	}
	return RegionBody
}

// CardsTeaser converts the rows of a block into a list of cards. Each row
// becomes one list item holding the row's cells, tagged as image or body
// regions. Pictures are replaced with the resolver's output and lone links
// in body paragraphs are promoted to buttons.
func CardsTeaser(resolver picture.Resolver) DecoratorFunc {
	return func(block *goquery.Selection) {
		list := newElement("ul", "")
		block.Children().Each(func(_ int, row *goquery.Selection) {
			item := newElement("li", "")
			appendAll(item, row.Children().Clone().Nodes)
			for cell := item.FirstChild; cell != nil; cell = cell.NextSibling {
				setAttr(cell, "class", classifyCell(cell).Class())
			}
			list.AppendChild(item)
		})

		cards := selectionOf(list)
		optimizePictures(cards, resolver)
		promoteButtons(cards)

		replaceChildren(block, list)
	}
}

// optimizePictures swaps every picture holding an img for a resolved one.
func optimizePictures(root *goquery.Selection, resolver picture.Resolver) {
	root.Find("picture > img").Each(func(_ int, img *goquery.Selection) {
		pic := img.Get(0).Parent
		if pic == nil || pic.Parent == nil {
			return
		}
		src, _ := img.Attr("src")
		alt, _ := img.Attr("alt")
		optimized := resolver.Resolve(src, alt, false, []picture.Breakpoint{{Width: cardImageWidth}})
		pic.Parent.InsertBefore(optimized, pic)
		pic.Parent.RemoveChild(pic)
	})
}

// promoteButtons marks a link as a button when it is the only link of a body
// paragraph and carries all of the paragraph's text.
func promoteButtons(root *goquery.Selection) {
	root.Find("." + ClassCardBody + " p").Each(func(_ int, para *goquery.Selection) {
		links := para.Find("a")
		if links.Length() != 1 {
			return
		}
		if strings.TrimSpace(para.Text()) != strings.TrimSpace(links.Text()) {
			return
		}
		links.AddClass(ClassButton)
		para.AddClass(ClassButtonWrapper)
	})
}
