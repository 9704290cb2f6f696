package util

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedTags never contribute visible text
var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "svg": true, "head": true, "template": true,
}

// blockTags force a paragraph break in the extracted text, so that
// downstream sentence splitting sees block boundaries even when the
// markup carries no terminal punctuation
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"header": true, "footer": true, "aside": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "blockquote": true, "pre": true, "br": true,
	"table": true, "ul": true, "ol": true,
}

// VisibleText parses an HTML document and returns its visible text.
// Text nodes are joined with single spaces; block elements become
// paragraph breaks.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedTags[n.Data] {
				return
			}
			if blockTags[n.Data] {
				b.WriteString("\n\n")
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				b.WriteString(text)
				b.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String()), nil
}
