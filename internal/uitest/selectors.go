package uitest

import (
	"fmt"

	"github.com/stolasapp/tessera/internal/blocks"
)

// CSS selectors built from block constants.
// These ensure test selectors stay in sync with the decorated DOM structure.

// Block selectors.
var (
	// SelectorLoadedBlock selects every block that finished decoration.
	SelectorLoadedBlock = fmt.Sprintf("[%s=%q]", blocks.AttrBlockStatus, blocks.StatusLoaded)

	// SelectorTitle selects the page title heading.
	SelectorTitle = "div." + blocks.NameTitle + " h1"

	// SelectorCards selects the cards of every card list.
	SelectorCards = "div." + blocks.NameCardsTeaser + " > ul > li"

	// SelectorCardImage selects the image of a card.
	SelectorCardImage = "." + blocks.ClassCardImage + " img"

	// SelectorCardButton selects the promoted link of a card.
	SelectorCardButton = "." + blocks.ClassCardBody + " a." + blocks.ClassButton

	// SelectorActionBar selects the action bar wrapper.
	SelectorActionBar = "div." + blocks.NameActionBar + " > ." + blocks.ClassActionBarWrapper

	// SelectorActionBarMeta selects the action bar metadata region.
	SelectorActionBarMeta = SelectorActionBar + " > ." + blocks.ClassActionBarMeta

	// SelectorActionButton selects every action bar control.
	SelectorActionButton = SelectorActionBar + " button." + blocks.ClassActionBarButton

	// SelectorTableHeader selects header cells of data tables.
	SelectorTableHeader = "div." + blocks.NameTableData + " > table > thead th"

	// SelectorTableCell selects body cells of data tables.
	SelectorTableCell = "div." + blocks.NameTableData + " > table > tbody td"
)

// ActionButton selects the action bar control for a normalized role.
func ActionButton(role string) string {
	return fmt.Sprintf("%s[%s=%q]", SelectorActionButton, blocks.AttrAction, role)
}
