package content

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/stolasapp/tessera/internal/blockname"
)

// authoringShell is the document skeleton of the authoring format.
const authoringShell = `<html><head><title></title></head>` +
	`<body><header></header><main></main><footer></footer></body></html>`

// PlainToAuthoring converts rendered block markup (sections of classed div
// blocks, each a grid of div rows and cells) into the authoring format: a
// full document whose blocks are tables headed by the block's display name.
func PlainToAuthoring(title string) TransformerFunc {
	return func(_ context.Context, input []byte) ([]byte, error) {
		root, err := parseRoot(input)
		if err != nil {
			return nil, err
		}

		out, err := goquery.NewDocumentFromReader(strings.NewReader(authoringShell))
		if err != nil {
			return nil, fmt.Errorf("failed to parse authoring shell: %w", err)
		}
		out.Find("title").SetText(title)
		main := out.Find("main").Get(0)

		for _, section := range splitSections(root) {
			sectionSel := goquery.NewDocumentFromNode(section).Selection
			var convErr error
			sectionSel.ChildrenFiltered("div[class]").EachWithBreak(func(_ int, block *goquery.Selection) bool {
				var table *html.Node
				if table, convErr = blockToTable(block); convErr != nil {
					return false
				}
				block.ReplaceWithNodes(table)
				return true
			})
			if convErr != nil {
				return nil, convErr
			}
			main.AppendChild(section)
		}

		doc, err := goquery.OuterHtml(out.Find("html"))
		if err != nil {
			return nil, fmt.Errorf("failed to render authoring document: %w", err)
		}
		return []byte(doc), nil
	}
}

// AuthoringToPlain converts the authoring format back into rendered block
// markup. Tables whose first row holds only a block name become blocks;
// other tables are kept. Images outside a picture are wrapped in one.
func AuthoringToPlain() TransformerFunc {
	return func(_ context.Context, input []byte) ([]byte, error) {
		root, err := parseRoot(input)
		if err != nil {
			return nil, err
		}

		var out bytes.Buffer
		for _, section := range splitSections(root) {
			sectionSel := goquery.NewDocumentFromNode(section).Selection
			sectionSel.ChildrenFiltered("table").Each(func(_ int, table *goquery.Selection) {
				if block := tableToBlock(table); block != nil {
					table.ReplaceWithNodes(block)
				}
			})
			sectionSel.Find("img").Each(func(_ int, img *goquery.Selection) {
				if goquery.NodeName(img.Parent()) != "picture" {
					img.WrapHtml("<picture></picture>")
				}
			})
			if err = html.Render(&out, section); err != nil {
				return nil, fmt.Errorf("failed to render section: %w", err)
			}
		}
		return out.Bytes(), nil
	}
}

// parseRoot parses a document or fragment and returns its main element, or
// its body when there is no main.
func parseRoot(input []byte) (*html.Node, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}
	if main := doc.Find("main"); main.Length() > 0 {
		return main.Get(0), nil
	}
	return doc.Find("body").Get(0), nil
}

// splitSections detaches the children of root and groups them into section
// divs. Unclassed divs are sections already; any other content is gathered
// into implicit sections broken at hr elements.
func splitSections(root *html.Node) []*html.Node {
	var (
		sections []*html.Node
		implicit *html.Node
	)
	for child := root.FirstChild; child != nil; child = root.FirstChild {
		root.RemoveChild(child)
		switch {
		case child.Type == html.ElementNode && child.DataAtom == atom.Hr:
			implicit = nil
		case child.Type == html.ElementNode && child.DataAtom == atom.Div && !hasAttr(child, "class"):
			implicit = nil
			sections = append(sections, child)
		case child.Type == html.TextNode && strings.TrimSpace(child.Data) == "":
			// formatting between sections
		case child.Type == html.CommentNode:
		default:
			if implicit == nil {
				implicit = newNode(atom.Div)
				sections = append(sections, implicit)
			}
			implicit.AppendChild(child)
		}
	}
	return sections
}

// blockToTable converts one rendered block into an authoring table.
func blockToTable(block *goquery.Selection) (*html.Node, error) {
	class, _ := block.Attr("class")
	display, err := blockname.ToDisplayName(class)
	if err != nil {
		return nil, fmt.Errorf("failed to name block %q: %w", class, err)
	}

	rows := block.ChildrenFiltered("div")
	colspan := max(rows.First().ChildrenFiltered("div").Length(), 1)

	table := newNode(atom.Table)
	header := newNode(atom.Th)
	header.Attr = []html.Attribute{{Key: "colspan", Val: strconv.Itoa(colspan)}}
	header.AppendChild(&html.Node{Type: html.TextNode, Data: display})
	table.AppendChild(wrap(atom.Tr, header))

	rows.Each(func(_ int, row *goquery.Selection) {
		tr := newNode(atom.Tr)
		cells := row.ChildrenFiltered("div")
		if cells.Length() == 0 {
			tr.AppendChild(wrap(atom.Td, row.Contents().Clone().Nodes...))
		}
		cells.Each(func(_ int, cell *goquery.Selection) {
			tr.AppendChild(wrap(atom.Td, cell.Contents().Clone().Nodes...))
		})
		table.AppendChild(tr)
	})
	return table, nil
}

// tableToBlock converts an authoring table into a rendered block, or returns
// nil when the table is not headed by a block name.
func tableToBlock(table *goquery.Selection) *html.Node {
	rows := table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.Closest("table").IsSelection(table)
	})
	if rows.Length() == 0 {
		return nil
	}

	headerCells := rows.First().ChildrenFiltered("th, td")
	name := strings.TrimSpace(headerCells.First().Text())
	for i := 1; i < headerCells.Length(); i++ {
		if strings.TrimSpace(headerCells.Eq(i).Text()) != "" {
			return nil
		}
	}
	classList, err := blockname.ToClassList(name)
	if err != nil {
		return nil
	}

	block := newNode(atom.Div)
	block.Attr = []html.Attribute{{Key: "class", Val: classList}}
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		div := newNode(atom.Div)
		row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			div.AppendChild(wrap(atom.Div, cell.Contents().Clone().Nodes...))
		})
		block.AppendChild(div)
	})
	return block
}

func newNode(tag atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
}

func wrap(tag atom.Atom, children ...*html.Node) *html.Node {
	parent := newNode(tag)
	for _, child := range children {
		parent.AppendChild(child)
	}
	return parent
}

func hasAttr(node *html.Node, key string) bool {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}
