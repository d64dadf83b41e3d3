package github

import (
	"bytes"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// ParseProfileHTML extracts user information from a GitHub profile page.
// It is used when the REST API is unavailable. The result always carries the
// login and a profile URL on the client's web host, even when nothing else
// could be read.
func (c *Client) ParseProfileHTML(body []byte, username string) *User {
	user := &User{
		Login:   username,
		HTMLURL: c.webBase + "/" + username,
	}
	if len(body) == 0 {
		return user
	}

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return user
	}

	walk(root, func(n *html.Node) {
		switch itemprop := attrValue(n, "itemprop"); {
		case itemprop == "name" && user.Name == "":
			user.Name = collapseSpace(nodeText(n))
		case itemprop == "homeLocation" && user.Location == "":
			user.Location = collapseSpace(nodeText(n))
		case n.Data == "img" && user.AvatarURL == "" &&
			(itemprop == "image" || strings.Contains(attrValue(n, "class"), "avatar-user")):
			user.AvatarURL = attrValue(n, "src")
		}
		if _, ok := attrLookup(n, "data-bio-text"); ok && user.Bio == "" {
			user.Bio = bioText(n)
		}
	})

	return user
}

// bioText converts the bio element's inner HTML to markdown, falling back to
// the raw data-bio-text attribute.
func bioText(n *html.Node) string {
	var inner bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&inner, c); err != nil {
			break
		}
	}
	if inner.Len() > 0 {
		if markdown, err := md.ConvertString(inner.String()); err == nil {
			if text := strings.TrimSpace(markdown); text != "" {
				return text
			}
		}
	}
	return strings.TrimSpace(attrValue(n, "data-bio-text"))
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attrLookup(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrValue(n *html.Node, key string) string {
	v, _ := attrLookup(n, key)
	return v
}

// nodeText is the visible text below n. Profile fields put an octicon svg
// before the value and its <title> would leak into names and locations, so
// svg subtrees are skipped. Script and JSON extraction wants every text node
// and uses contrib's textContent instead.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "svg" {
			return
		}
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

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
