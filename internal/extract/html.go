package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	htmlTagRe     = regexp.MustCompile(`(?s)<\s*(?:p|div|br|h[1-6]|li|ul|ol|blockquote|span|section|article|strong|em|b|i)\b[^>]*>`)
	excessBlankRe = regexp.MustCompile(`\n{3,}`)
)

// blockElements get a paragraph boundary when flattened
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "ul": true, "ol": true,
}

// NormalizeDraft prepares a raw draft for canon parsing: drafts pasted from
// web editors arrive as HTML and are flattened to plain text with paragraph
// boundaries preserved; plain-text drafts only get newline normalization.
func NormalizeDraft(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	if htmlTagRe.MatchString(text) {
		text = flattenHTML(text)
	}
	text = excessBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// flattenHTML walks the parsed document collecting visible text, inserting
// blank lines at block-element boundaries and skipping script/style content
func flattenHTML(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		// html.Parse is lenient; a hard failure means the input was not
		// really HTML, so keep it as-is
		return content
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "br":
				buf.WriteString("\n")
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n\n")
		}
	}

	walk(doc)

	// Trim the trailing space the text-node walk leaves before each break
	lines := strings.Split(buf.String(), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}
