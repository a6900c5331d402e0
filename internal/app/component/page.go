// Package component provides the page components used by the tessera web app.
package component

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const (
	pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>`
	pageBodyOpen = `</title>
<link rel="stylesheet" href="/static/styles.css">
</head>
<body>
<header></header>
<main>`
	pageBodyClose = `</main>
<footer></footer>
</body>
</html>
`
)

// Page is the document shell around decorated page content. The title is
// escaped; main is rendered as-is inside the main element.
func Page(title string, main templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, part := range []string{pageHead, templ.EscapeString(title), pageBodyOpen} {
			if _, err := io.WriteString(w, part); err != nil {
				return err
			}
		}
		if err := main.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, pageBodyClose)
		return err
	})
}

// Markup renders already decorated HTML without escaping it.
func Markup(body []byte) templ.Component {
	return templ.Raw(string(body))
}
