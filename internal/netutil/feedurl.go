package netutil

import "strings"

const feedScheme = "feed:"

// FixFeedURL rewrites feed: URLs into plain http ones. Blank input yields "".
func FixFeedURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(raw), feedScheme) {
		return raw
	}

	rest := strings.TrimLeft(raw[len(feedScheme):], "/")
	lower := strings.ToLower(rest)
	switch {
	case strings.HasPrefix(lower, feedScheme):
		return FixFeedURL(rest)
	case strings.HasPrefix(lower, "http:"), strings.HasPrefix(lower, "https:"):
		return rest
	default:
		return "http://" + rest
	}
}
