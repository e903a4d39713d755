package opml

import (
	"net/url"
	"strings"

	"github.com/beevik/etree"

	"github.com/tengjizhang/bbopml/internal/format"
)

// OutlineType is the classification of a single outline element.
type OutlineType int

const (
	OutlineInvalid OutlineType = iota
	OutlineGuide
	OutlineDirectFeed
	OutlineQueryFeed
	OutlineSearchFeed
	OutlineReadingList
	OutlineGuideLink
)

func (t OutlineType) String() string {
	switch t {
	case OutlineInvalid:
		return "invalid"
	case OutlineGuide:
		return "guide"
	case OutlineDirectFeed:
		return "direct-feed"
	case OutlineQueryFeed:
		return "query-feed"
	case OutlineSearchFeed:
		return "search-feed"
	case OutlineReadingList:
		return "reading-list"
	case OutlineGuideLink:
		return "guide-link"
	default:
		return "unknown"
	}
}

// Classify decides what an outline element represents. Attribute names are
// expected to be lower case already; ns is the document's extension
// namespace URI or "" for unqualified documents.
func Classify(el *etree.Element, ns string) OutlineType {
	_, hasURL := outlineURL(el)
	_, hasTitle := plainAttr(el, format.AttrTitle)
	if !hasTitle {
		_, hasTitle = plainAttr(el, format.AttrText)
	}

	typ, hasType := plainAttr(el, format.AttrType)
	if !hasType {
		switch {
		case hasURL && hasTitle:
			raw, _ := outlineURL(el)
			if strings.HasSuffix(strings.ToLower(strings.TrimSpace(raw)), ".opml") {
				return OutlineGuideLink
			}
			return OutlineDirectFeed
		case hasURL:
			return OutlineInvalid
		default:
			return OutlineGuide
		}
	}

	switch strings.ToLower(typ) {
	case format.TypeSearch:
		return OutlineSearchFeed
	case format.TypeList:
		return OutlineReadingList
	case format.TypeOPML, format.TypeInclude:
		return OutlineGuideLink
	case format.TypeRSS:
		if isQueryOutline(el, ns) {
			return OutlineQueryFeed
		}
		if hasURL && hasTitle {
			return OutlineDirectFeed
		}
		return OutlineInvalid
	case format.TypeLink:
		if raw, ok := outlineURL(el); ok && isOPMLLink(raw) {
			return OutlineGuideLink
		}
		return OutlineInvalid
	default:
		return OutlineInvalid
	}
}

func isQueryOutline(el *etree.Element, ns string) bool {
	if _, ok := attrValue(el, ns, format.AttrQueryType); !ok {
		return false
	}
	if _, ok := attrValue(el, ns, format.AttrQueryParam); ok {
		return true
	}
	_, ok := attrValue(el, ns, format.AttrKeywords)
	return ok
}

// isOPMLLink checks both the raw value and its URL path for an .opml suffix.
func isOPMLLink(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasSuffix(s, ".opml") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Path, ".opml")
}
