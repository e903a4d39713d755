package fetch

import (
	"strings"

	markdown "github.com/JohannesKaufmann/html-to-markdown"
)

// Renderer turns feed descriptions into short markdown summaries.
type Renderer struct {
	converter *markdown.Converter
}

func NewRenderer() *Renderer {
	c := markdown.NewConverter("", true, nil)
	return &Renderer{converter: c}
}

func (r *Renderer) HTMLToMarkdown(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	out, err := r.converter.ConvertString(html)
	if err != nil {
		return compactText(html, 4000)
	}
	return strings.TrimSpace(out)
}

// Summarize renders a sanitized description as a single line of at most
// max bytes.
func (r *Renderer) Summarize(raw string, max int) string {
	raw = sanitizeDescription(raw)
	if raw == "" {
		return ""
	}
	return compactText(r.HTMLToMarkdown(raw), max)
}
