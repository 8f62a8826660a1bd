package report

import (
	"bytes"
	"fmt"
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	htmlOnce   sync.Once
	htmlMD     goldmark.Markdown
	htmlPolicy *bluemonday.Policy
)

func htmlRenderer() (goldmark.Markdown, *bluemonday.Policy) {
	htmlOnce.Do(func() {
		htmlMD = goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Table),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithXHTML()),
		)
		htmlPolicy = bluemonday.UGCPolicy()
		htmlPolicy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3")
		htmlPolicy.AllowAttrs("style").OnElements("th", "td")
	})
	return htmlMD, htmlPolicy
}

// RenderHTML converts a Markdown report to a sanitized HTML fragment.
func RenderHTML(markdown string) (string, error) {
	md, policy := htmlRenderer()
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown to html: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 960px; margin: 2em auto; padding: 0 1em; color: #24292f; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #d0d7de; padding: 4px 10px; }
th { background: #f6f8fa; }
blockquote { color: #57606a; border-left: 4px solid #d0d7de; margin: 0; padding: 0 1em; }
</style>
</head>
<body>
%s</body>
</html>
`

// RenderHTMLPage wraps RenderHTML output in a standalone document.
func RenderHTMLPage(title, markdown string) (string, error) {
	body, err := RenderHTML(markdown)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(htmlPage, html.EscapeString(title), body), nil
}
