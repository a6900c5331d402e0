package blocks

import (
	"github.com/PuerkitoBio/goquery"
)

// TableData converts the rows of a block into a data table. The first row is
// the header unless the block carries the no-header variant.
func TableData() DecoratorFunc {
	return func(block *goquery.Selection) {
		table := newElement("table", "")
		thead := newElement("thead", "")
		tbody := newElement("tbody", "")
		header := !block.HasClass(ClassNoHeader)

		block.Children().Each(func(i int, row *goquery.Selection) {
			first := i == 0
			tr := newElement("tr", "")
			row.Children().Each(func(_ int, cell *goquery.Selection) {
				tag := "td"
				if first && header {
					tag = "th"
				}
				td := newElement(tag, "")
				if first {
					setAttr(td, "scope", "column")
				}
				appendAll(td, cell.Contents().Clone().Nodes)
				tr.AppendChild(td)
			})
			if first && header {
				thead.AppendChild(tr)
			} else {
				tbody.AppendChild(tr)
			}
		})

		table.AppendChild(thead)
		table.AppendChild(tbody)
		replaceChildren(block, table)
	}
}
