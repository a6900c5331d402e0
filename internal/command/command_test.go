package command

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command without a config file on disk. Commands
// share the default logger, so these tests do not run in parallel.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := RootCommand()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestDecorateCommand(t *testing.T) {
	const page = `<div><div class="action-bar"><div><div>Today</div></div>` +
		`<div><div><div>Share</div></div></div></div></div>`

	out, err := execute(t, page, "decorate")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "share", doc.Find("div.action-bar button").AttrOr("data-action", ""))
	assert.Equal(t, "Today", doc.Find(".action-bar-meta").Text())
}

func TestDecorateCommand_MarkdownFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.md")
	require.NoError(t, os.WriteFile(path, []byte("| Table Data (no header) |\n| --- |\n| 1 |\n"), 0o600))

	out, err := execute(t, "", "decorate", "--from", "markdown", path)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	table := doc.Find("div.table-data")
	require.Equal(t, 1, table.Length())
	assert.Equal(t, "table-data no-header block", table.AttrOr("class", ""))
	assert.Equal(t, "table-data", table.AttrOr("data-block-name", ""))
	assert.Equal(t, "loaded", table.AttrOr("data-block-status", ""))
	assert.Contains(t, out, `<tbody><tr><td scope="column">1</td></tr></tbody>`)
}

func TestDecorateCommand_Errors(t *testing.T) {
	_, err := execute(t, "", "decorate", "--from", "docx")
	require.ErrorContains(t, err, "unsupported input format")

	_, err = execute(t, "", "decorate", filepath.Join(t.TempDir(), "missing.html"))
	require.ErrorContains(t, err, "failed to read input file")
}

func TestConvertCommand(t *testing.T) {
	const page = `<div><div class="cards-teaser"><div><div><p>A</p></div></div></div></div>`

	out, err := execute(t, page, "convert", "--to", "authoring", "--title", "Home")
	require.NoError(t, err)
	assert.Equal(t,
		`<html><head><title>Home</title></head><body><header></header><main>`+
			`<div><table><tr><th colspan="1">Cards Teaser</th></tr><tr><td><p>A</p></td></tr></table></div>`+
			`</main><footer></footer></body></html>`,
		out,
	)

	plain, err := execute(t, out, "convert", "--from", "authoring", "--to", "plain")
	require.NoError(t, err)
	assert.Equal(t, page, plain)

	_, err = execute(t, page, "convert", "--to", "pdf")
	require.ErrorContains(t, err, "unsupported output format")
}

func TestReadLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "line", input: "y\nrest", want: "y"},
		{name: "backspace", input: "nx\by\n", want: "ny"},
		{name: "eof after text", input: "https://example.com", want: "https://example.com"},
		{name: "empty", input: "", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := readLine(strings.NewReader(test.input))
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, string(got))
		})
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:9999", cfg.WebAddress)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: 0\n"), 0o600))
	_, err = loadConfigOrDefault(path)
	require.Error(t, err)
}

func TestDecorateCommand_HelpListsBlocks(t *testing.T) {
	out, err := execute(t, "", "decorate", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Decorated blocks: action-bar, cards-teaser, image, introduction, table-data, title")
}
