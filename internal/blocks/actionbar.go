package blocks

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Action classifies an action-bar control by its role text.
type Action int

// Action kinds.
const (
	ActionUnknown Action = iota
	ActionLike
	ActionSave
	ActionShare
)

// name is the keyword group the action matched.
func (a Action) name() string {
	switch a {
	case ActionLike:
		return "like"
	case ActionSave:
		return "save"
	case ActionShare:
		return "share"
	default:
		return "unknown"
	}
}

// actionRule maps a role to an action when match accepts it.
type actionRule struct {
	match  func(role string) bool
	action Action
}

// actionRules are evaluated in order; the first match wins.
var actionRules = []actionRule{
	{match: containsAny("like", "heart"), action: ActionLike},
	{match: containsAny("save", "bookmark"), action: ActionSave},
	{match: containsAny("share"), action: ActionShare},
}

func containsAny(keywords ...string) func(string) bool {
	return func(role string) bool {
		for _, keyword := range keywords {
			if strings.Contains(role, keyword) {
				return true
			}
		}
		return false
	}
}

// classifyAction returns the action of a normalized role.
func classifyAction(role string) Action {
	for _, rule := range actionRules {
		if rule.match(role) {
			return rule.action
		}
	}
	return ActionUnknown
}

const svgOpen = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round">`

var actionIcons = map[Action]string{
	ActionLike: svgOpen +
		`<path d="M20.84 4.61a5.5 5.5 0 0 0-7.78 0L12 5.67l-1.06-1.06a5.5 5.5 0 0 0-7.78 7.78l1.06 1.06L12 21.23l7.78-7.78 1.06-1.06a5.5 5.5 0 0 0 0-7.78z"></path></svg>`,
	ActionSave: svgOpen +
		`<path d="M19 21l-7-5-7 5V5a2 2 0 0 1 2-2h10a2 2 0 0 1 2 2z"></path></svg>`,
	ActionShare: svgOpen +
		`<circle cx="18" cy="5" r="3"></circle><circle cx="6" cy="12" r="3"></circle><circle cx="18" cy="19" r="3"></circle>` +
		`<line x1="8.59" y1="13.51" x2="15.42" y2="17.49"></line><line x1="15.41" y1="6.51" x2="8.59" y2="10.49"></line></svg>`,
}

// icon returns fresh, detached nodes of the action's graphic, or nil.
func (a Action) icon() []*html.Node {
	markup, ok := actionIcons[a]
	if !ok {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Span,
		Data:     "span",
	})
	if err != nil {
		return nil
	}
	return nodes
}

// ActionBar converts a two-row block into a metadata display and a row of
// icon-bearing controls. Row 0 is copied verbatim into the metadata region.
// The div grandchildren of row 1 each become a button whose role is their
// normalized text.
func ActionBar() DecoratorFunc {
	return func(block *goquery.Selection) {
		rows := block.Children()
		wrapper := newElement("div", ClassActionBarWrapper)

		if meta := rows.Eq(0); meta.Length() > 0 {
			region := newElement("div", ClassActionBarMeta)
			appendAll(region, meta.Contents().Clone().Nodes)
			wrapper.AppendChild(region)
		}

		if actionRow := rows.Eq(1); actionRow.Length() > 0 {
			region := newElement("div", ClassActionBarActions)
			actionRow.ChildrenFiltered("div").ChildrenFiltered("div").Each(func(_ int, cell *goquery.Selection) {
				region.AppendChild(newControl(normalizeText(cell)))
			})
			wrapper.AppendChild(region)
		}

		replaceChildren(block, wrapper)
	}
}

func newControl(role string) *html.Node {
	button := newElement("button", ClassActionBarButton)
	setAttr(button, "type", "button")
	setAttr(button, AttrAction, role)
	setAttr(button, AttrAriaLabel, role)

	icon := newElement("span", ClassActionBarIcon)
	appendAll(icon, classifyAction(role).icon())
	button.AppendChild(icon)
	return button
}
