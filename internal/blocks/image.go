package blocks

import (
	"github.com/PuerkitoBio/goquery"
)

// Image reduces a block to the first picture it contains. Blocks without a
// picture are left as authored.
func Image() DecoratorFunc {
	return func(block *goquery.Selection) {
		found := block.Find("picture")
		if found.Length() == 0 {
			return
		}
		pic := found.Get(0)
		pic.Parent.RemoveChild(pic)
		replaceChildren(block, pic)
	}
}
