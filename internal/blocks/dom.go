package blocks

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// newElement creates a detached element, optionally with a class attribute.
func newElement(tag string, class string) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
	if class != "" {
		setAttr(node, "class", class)
	}
	return node
}

// setAttr sets key on node, replacing any existing value.
func setAttr(node *html.Node, key, val string) {
	for i := range node.Attr {
		if node.Attr[i].Namespace == "" && node.Attr[i].Key == key {
			node.Attr[i].Val = val
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: val})
}

// appendAll appends detached nodes to parent in order.
func appendAll(parent *html.Node, nodes []*html.Node) {
	for _, node := range nodes {
		parent.AppendChild(node)
	}
}

// selectionOf wraps a (possibly detached) node for querying its subtree.
func selectionOf(node *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(node).Selection
}

// replaceChildren swaps the content of the first node in block for nodes.
// The nodes must be detached.
func replaceChildren(block *goquery.Selection, nodes ...*html.Node) {
	if block.Length() == 0 {
		return
	}
	container := block.Get(0)
	for child := container.FirstChild; child != nil; child = container.FirstChild {
		container.RemoveChild(child)
	}
	appendAll(container, nodes)
}

// normalizeText trims and lower-cases the text content of a selection.
func normalizeText(sel *goquery.Selection) string {
	return strings.ToLower(strings.TrimSpace(sel.Text()))
}

// elementChildren counts the element children of node.
func elementChildren(node *html.Node) int {
	count := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			count++
		}
	}
	return count
}

// appendClass adds class to the class list of a single-element selection,
// normalizing the separators between the existing names.
func appendClass(sel *goquery.Selection, class string) {
	classes := strings.Fields(sel.AttrOr("class", ""))
	for _, existing := range classes {
		if existing == class {
			sel.SetAttr("class", strings.Join(classes, " "))
			return
		}
	}
	sel.SetAttr("class", strings.Join(append(classes, class), " "))
}
