package ragpipe

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// HTMLLoader handles HTML files.
type HTMLLoader struct {
	path string
}

// NewHTMLLoader creates an HTML loader bound to path.
func NewHTMLLoader(path string) *HTMLLoader {
	return &HTMLLoader{path: path}
}

var (
	htmlSpaceRe    = regexp.MustCompile(`[ \t]+`)
	htmlNewlinesRe = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// Load parses the HTML document and returns its readable text as a single
// record, with the page title (when present) on the first line.
func (l *HTMLLoader) Load() ([]Document, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML file: %w", err)
	}
	defer file.Close()

	root, err := html.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML file: %w", err)
	}

	var content strings.Builder
	if title := extractHTMLTitle(root); title != "" {
		content.WriteString("Title: ")
		content.WriteString(title)
		content.WriteString("\n\n")
	}
	content.WriteString(extractHTMLText(root))

	text := cleanHTMLWhitespace(content.String())
	if text == "" {
		return nil, nil
	}
	return []Document{NewDocument(text)}, nil
}

func extractHTMLTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return strings.TrimSpace(extractHTMLText(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := extractHTMLTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func extractHTMLText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "title":
			return ""
		}
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		childText := extractHTMLText(c)
		if strings.TrimSpace(childText) != "" {
			text.WriteString(childText)
			if isBlockElement(c) {
				text.WriteString("\n")
			} else {
				text.WriteString(" ")
			}
		}
	}
	return text.String()
}

func isBlockElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6",
		"li", "ul", "ol", "table", "tr", "blockquote", "pre",
		"section", "article", "header", "footer":
		return true
	}
	return false
}

func cleanHTMLWhitespace(text string) string {
	cleaned := htmlSpaceRe.ReplaceAllString(text, " ")
	cleaned = htmlNewlinesRe.ReplaceAllString(cleaned, "\n\n")
	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
