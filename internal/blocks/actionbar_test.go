package blocks

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionRoles(block *goquery.Selection) []string {
	return block.Find("." + ClassActionBarButton).Map(func(_ int, btn *goquery.Selection) string {
		return btn.AttrOr(AttrAction, "")
	})
}

func TestActionBar_MetaAndActions(t *testing.T) {
	t.Parallel()

	block := parseBlock(t, `<div class="action-bar">`+
		`<div><div>Published 01/02/03</div></div>`+
		`<div><div><div>Like</div><div>Save</div><div>Share</div></div></div>`+
		`</div>`)
	ActionBar().Decorate(block)

	wrapper := block.Children()
	require.Equal(t, 1, wrapper.Length())
	assert.True(t, wrapper.HasClass(ClassActionBarWrapper))

	regions := wrapper.Children()
	require.Equal(t, 2, regions.Length())
	assert.True(t, regions.Eq(0).HasClass(ClassActionBarMeta))
	assert.True(t, regions.Eq(1).HasClass(ClassActionBarActions))

	meta, err := regions.Eq(0).Html()
	require.NoError(t, err)
	assert.Equal(t, `<div>Published 01/02/03</div>`, meta)
	assert.Equal(t, "Published 01/02/03", regions.Eq(0).Text())

	assert.Empty(t, cmp.Diff([]string{"like", "save", "share"}, actionRoles(block)))

	buttons := block.Find("button." + ClassActionBarButton)
	require.Equal(t, 3, buttons.Length())
	buttons.Each(func(_ int, btn *goquery.Selection) {
		assert.Equal(t, "button", btn.AttrOr("type", ""))
		assert.Equal(t, btn.AttrOr(AttrAction, "-"), btn.AttrOr(AttrAriaLabel, ""))
		icon := btn.Children()
		require.Equal(t, 1, icon.Length())
		assert.True(t, icon.HasClass(ClassActionBarIcon))
		assert.Equal(t, 1, icon.Find("svg").Length())
	})

	assert.Equal(t, 1, buttons.Eq(0).Find(`path[d^="M20.84"]`).Length(), "like icon")
	assert.Equal(t, 1, buttons.Eq(1).Find(`path[d^="M19 21"]`).Length(), "save icon")
	assert.Equal(t, 3, buttons.Eq(2).Find("circle").Length(), "share icon")
}

func TestActionBar_MissingActionRow(t *testing.T) {
	t.Parallel()

	block := parseBlock(t, `<div class="action-bar"><div><div>Published 01/02/03</div></div></div>`)
	ActionBar().Decorate(block)

	assert.Equal(t, 1, block.Find("."+ClassActionBarMeta).Length())
	assert.Zero(t, block.Find("."+ClassActionBarActions).Length())
	assert.Equal(t,
		`<div class="action-bar"><div class="action-bar-wrapper"><div class="action-bar-meta"><div>Published 01/02/03</div></div></div></div>`,
		outerHTML(t, block))
}

func TestActionBar_EmptyBlock(t *testing.T) {
	t.Parallel()

	block := parseBlock(t, `<div class="action-bar"></div>`)
	ActionBar().Decorate(block)

	assert.Equal(t, `<div class="action-bar"><div class="action-bar-wrapper"></div></div>`, outerHTML(t, block))
}

func TestActionBar_EmptyActionRow(t *testing.T) {
	t.Parallel()

	block := parseBlock(t, `<div class="action-bar"><div><div>Meta</div></div><div></div></div>`)
	ActionBar().Decorate(block)

	actions := block.Find("." + ClassActionBarActions)
	require.Equal(t, 1, actions.Length())
	assert.Zero(t, actions.Children().Length())
}

func TestActionBar_OnlyNestedCellsBecomeControls(t *testing.T) {
	t.Parallel()

	block := parseBlock(t, `<div class="action-bar"><div></div><div><div>Like</div><div>Share</div></div></div>`)
	ActionBar().Decorate(block)

	assert.Equal(t, 1, block.Find("."+ClassActionBarActions).Length())
	assert.Empty(t, actionRoles(block))
}

func TestActionBar_Roles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cell     string
		wantRole string
		wantIcon bool
	}{
		{name: "upper case with padding", cell: "  LIKE  ", wantRole: "like", wantIcon: true},
		{name: "nested markup", cell: "<strong>Save</strong> for later", wantRole: "save for later", wantIcon: true},
		{name: "newlines", cell: "\n\tShare\n", wantRole: "share", wantIcon: true},
		{name: "unknown role", cell: "Comment", wantRole: "comment", wantIcon: false},
		{name: "empty cell", cell: "", wantRole: "", wantIcon: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			block := parseBlock(t, `<div class="action-bar"><div>Meta</div><div><div><div>`+test.cell+`</div></div></div></div>`)
			ActionBar().Decorate(block)

			btn := block.Find("button." + ClassActionBarButton)
			require.Equal(t, 1, btn.Length())
			assert.Equal(t, test.wantRole, btn.AttrOr(AttrAction, "-"))
			assert.Equal(t, test.wantRole, btn.AttrOr(AttrAriaLabel, "-"))

			icon := btn.Find("span." + ClassActionBarIcon)
			require.Equal(t, 1, icon.Length())
			assert.Equal(t, test.wantIcon, icon.Children().Length() > 0)
		})
	}
}

func TestClassifyAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role string
		want Action
	}{
		{role: "like", want: ActionLike},
		{role: "heart", want: ActionLike},
		{role: "unlike this post", want: ActionLike},
		{role: "like and share", want: ActionLike},
		{role: "share and like", want: ActionLike},
		{role: "save", want: ActionSave},
		{role: "bookmark", want: ActionSave},
		{role: "share and save", want: ActionSave},
		{role: "share", want: ActionShare},
		{role: "reshare", want: ActionShare},
		{role: "comment", want: ActionUnknown},
		{role: "", want: ActionUnknown},
		{role: "LIKE", want: ActionUnknown},
	}

	for _, test := range tests {
		t.Run(test.role, func(t *testing.T) {
			t.Parallel()
			got := classifyAction(test.role)
			assert.Equal(t, test.want, got, "got %s, want %s", got.name(), test.want.name())
		})
	}
}

func TestAction_Icon(t *testing.T) {
	t.Parallel()

	for _, action := range []Action{ActionLike, ActionSave, ActionShare} {
		nodes := action.icon()
		require.Len(t, nodes, 1, action.name())
		assert.Equal(t, "svg", nodes[0].Data)
		assert.Nil(t, nodes[0].Parent)
	}
	assert.Nil(t, ActionUnknown.icon())
}

func TestActionBar_Deterministic(t *testing.T) {
	t.Parallel()

	markup := `<div class="action-bar"><div><div><p>By <em>Someone</em></p></div></div>` +
		`<div><div><div>Heart</div><div>Bookmark</div><div>Print</div></div></div></div>`

	first := parseBlock(t, markup)
	ActionBar().Decorate(first)
	second := parseBlock(t, markup)
	ActionBar().Decorate(second)

	assert.Equal(t, outerHTML(t, first), outerHTML(t, second))
	assert.Equal(t, []string{"heart", "bookmark", "print"}, actionRoles(first))
}
