package fetch

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

var feedLinkTypes = map[string]struct{}{
	"application/rss+xml":   {},
	"application/atom+xml":  {},
	"application/feed+json": {},
	"application/xml":       {},
	"text/xml":              {},
}

// alternateFeeds lists the feed URLs an HTML page advertises through
// <link rel="alternate">, resolved against base and deduplicated.
func alternateFeeds(body []byte, base *url.URL) []string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var out []string
	seen := map[string]struct{}{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "link") {
			if href, ok := feedLink(n); ok {
				if u, err := url.Parse(href); err == nil {
					abs := base.ResolveReference(u).String()
					if _, dup := seen[abs]; !dup {
						seen[abs] = struct{}{}
						out = append(out, abs)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func feedLink(n *html.Node) (string, bool) {
	var rel, typ, href string
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "rel":
			rel = strings.ToLower(a.Val)
		case "type":
			typ = strings.ToLower(strings.TrimSpace(a.Val))
		case "href":
			href = strings.TrimSpace(a.Val)
		}
	}
	if href == "" || !strings.Contains(rel, "alternate") {
		return "", false
	}
	if _, ok := feedLinkTypes[typ]; ok {
		return href, true
	}
	return href, strings.Contains(typ, "rss") || strings.Contains(typ, "atom")
}
