package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/stayflow/concierge/pkg/intent"
	"github.com/stayflow/concierge/pkg/site"
)

const (
	// maxDerivedButtons caps clickable elements harvested from a page
	maxDerivedButtons = 20

	// maxDerivedPrices caps currency fragments harvested from a page
	maxDerivedPrices = 10

	// maxLabelRunes drops labels longer than a real control would carry
	maxLabelRunes = 60
)

// deriveDescription builds a site description from the live page for
// single-shot requests that arrive without precomputed site knowledge.
// Enumeration walks the DOM once: visible clickable elements become
// buttons classified by their labels, and currency fragments become price
// entries. Read or parse failures degrade to a description with just the
// id and URL.
func (s *Session) deriveDescription(id string) *site.Description {
	desc := &site.Description{ID: id, URL: s.CurrentURL}

	content, err := s.Page.Content()
	if err != nil {
		s.logger.Warn("failed to read page content for description", zap.Error(err))
		return desc
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		s.logger.Warn("failed to parse page content", zap.Error(err))
		return desc
	}

	c := newPageCollector()
	c.walk(doc)

	desc.Buttons = c.buttons(maxDerivedButtons)
	desc.Prices = c.prices(maxDerivedPrices)
	return desc.Normalized()
}

// pageCollector accumulates clickable labels in document order and the
// page's text for price scanning.
type pageCollector struct {
	labels []string
	seen   map[string]struct{}
	text   strings.Builder
}

func newPageCollector() *pageCollector {
	return &pageCollector{seen: make(map[string]struct{})}
}

func (c *pageCollector) walk(n *html.Node) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		c.text.WriteString(n.Data)
		c.text.WriteString(" ")
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		switch tag {
		case "script", "style", "noscript", "template", "head":
			return
		}
		if isHiddenNode(n) {
			return
		}
		if label, ok := clickableLabel(n, tag); ok {
			c.addLabel(label)
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
}

func (c *pageCollector) addLabel(label string) {
	if label == "" || utf8.RuneCountInString(label) > maxLabelRunes {
		return
	}
	key := strings.ToLower(label)
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	c.labels = append(c.labels, label)
}

// buttons converts the harvested labels into described buttons. Derived
// selectors lean on Playwright's text engine, which also matches submit
// inputs by their value.
func (c *pageCollector) buttons(max int) []site.Button {
	count := len(c.labels)
	if count > max {
		count = max
	}
	out := make([]site.Button, 0, count)
	for _, label := range c.labels[:count] {
		out = append(out, site.Button{
			Text:     label,
			Selector: fmt.Sprintf("text=%q", label),
			Keywords: intent.Tokenize(label),
			Kind:     intent.ClassifyLabel(label),
		})
	}
	return out
}

func (c *pageCollector) prices(max int) []site.PriceEntry {
	matches := currencyPattern.FindAllString(c.text.String(), max)
	if len(matches) == 0 {
		return nil
	}
	out := make([]site.PriceEntry, 0, len(matches))
	for _, match := range matches {
		out = append(out, site.PriceEntry{Text: strings.TrimSpace(match)})
	}
	return out
}

// clickableLabel returns the visible label when the node is an actionable
// control: a button, a link with a destination, an explicit button role, or
// a submit/button input.
func clickableLabel(n *html.Node, tag string) (string, bool) {
	switch tag {
	case "button":
		return nodeText(n), true
	case "a":
		if attrValue(n, "href") != "" {
			return nodeText(n), true
		}
	case "input":
		inputType := strings.ToLower(attrValue(n, "type"))
		if inputType == "submit" || inputType == "button" {
			return strings.TrimSpace(attrValue(n, "value")), true
		}
	default:
		if strings.EqualFold(attrValue(n, "role"), "button") {
			return nodeText(n), true
		}
	}
	return "", false
}

// nodeText flattens the visible text beneath a node into one line.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func isHiddenNode(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(attr.Val, "true") {
				return true
			}
		case "type":
			if strings.EqualFold(attr.Val, "hidden") {
				return true
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(attr.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
