package fetch

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockedTags = map[string]struct{}{
	"base":     {},
	"embed":    {},
	"form":     {},
	"iframe":   {},
	"input":    {},
	"link":     {},
	"meta":     {},
	"noscript": {},
	"object":   {},
	"script":   {},
	"style":    {},
	"textarea": {},
}

// sanitizeDescription drops active content from a feed description. Only
// href and src survive on kept elements, and only with safe schemes.
func sanitizeDescription(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	nodes, err := html.ParseFragment(strings.NewReader(raw), &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	if err != nil {
		return raw
	}

	var b strings.Builder
	for _, n := range nodes {
		if clean := sanitizeNode(n); clean != nil {
			_ = html.Render(&b, clean)
		}
	}
	return strings.TrimSpace(b.String())
}

func sanitizeNode(n *html.Node) *html.Node {
	switch n.Type {
	case html.TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case html.ElementNode:
		if _, blocked := blockedTags[strings.ToLower(n.Data)]; blocked {
			return nil
		}
		clone := &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom}
		for _, a := range n.Attr {
			k := strings.ToLower(a.Key)
			if (k == "href" || k == "src") && safeURL(a.Val) {
				clone.Attr = append(clone.Attr, html.Attribute{Key: k, Val: a.Val})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := sanitizeNode(c); child != nil {
				clone.AppendChild(child)
			}
		}
		return clone
	default:
		return nil
	}
}

func safeURL(v string) bool {
	u := strings.ToLower(strings.TrimSpace(v))
	return !strings.HasPrefix(u, "javascript:") &&
		!strings.HasPrefix(u, "vbscript:") &&
		!strings.HasPrefix(u, "data:")
}
