package contrib

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// document is a raw body plus its parsed DOM. The DOM is nil when the body
// could not be parsed as HTML at all.
type document struct {
	root *html.Node
	raw  []byte
}

func parseDocument(body []byte) *document {
	doc := &document{raw: body}
	if root, err := html.Parse(bytes.NewReader(body)); err == nil {
		doc.root = root
	}
	return doc
}

// findAll returns every element under the root, in document order, for which
// match reports true.
func (d *document) findAll(match func(*html.Node) bool) []*html.Node {
	if d.root == nil {
		return nil
	}
	var found []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(d.root)
	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// textContent concatenates every text node below n, svg included. It reads
// script and app-data payloads, where nothing may be dropped.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}
