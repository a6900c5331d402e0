package blocks

// Block names, as authored in the first class of a block container.
const (
	NameActionBar    = "action-bar"
	NameCardsTeaser  = "cards-teaser"
	NameImage        = "image"
	NameIntroduction = "introduction"
	NameTableData    = "table-data"
	NameTitle        = "title"
)

// CSS class names. These are the styling API of decorated blocks.
const (
	ClassActionBarWrapper = NameActionBar + "-wrapper"
	ClassActionBarMeta    = NameActionBar + "-meta"
	ClassActionBarActions = NameActionBar + "-actions"
	ClassActionBarButton  = NameActionBar + "-button"
	ClassActionBarIcon    = NameActionBar + "-icon"

	ClassCardImage = NameCardsTeaser + "-card-image"
	ClassCardBody  = NameCardsTeaser + "-card-body"

	ClassButton        = "button"
	ClassButtonWrapper = "button-wrapper"

	// ClassNoHeader is an authored variant of table-data that renders the
	// first row in the table body.
	ClassNoHeader = "no-header"

	// ClassBlock marks a container picked up by the dispatcher.
	ClassBlock = "block"
)

// Attribute names.
const (
	AttrAction      = "data-action"
	AttrAriaLabel   = "aria-label"
	AttrBlockName   = "data-block-name"
	AttrBlockStatus = "data-block-status"
)

// Values of [AttrBlockStatus].
const (
	StatusInitialized = "initialized"
	StatusLoaded      = "loaded"
)
