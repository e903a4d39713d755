package fetch

import "strings"

// compactText collapses whitespace runs and cuts the result to max runes,
// marking the cut with "...". max <= 0 disables the cut.
func compactText(v string, max int) string {
	v = strings.Join(strings.Fields(v), " ")
	if max <= 0 {
		return v
	}
	runes := []rune(v)
	if len(runes) <= max {
		return v
	}
	return string(runes[:max-1]) + "..."
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}
