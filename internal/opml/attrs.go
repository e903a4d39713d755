package opml

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/tengjizhang/bbopml/internal/format"
)

const xmlnsPrefix = "xmlns"

// lowercaseAttrs folds every attribute name of el to lower case so mixed-case
// legacy files match the lookup vocabulary. Namespace declarations are left alone.
func lowercaseAttrs(el *etree.Element) {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Space == xmlnsPrefix || (a.Space == "" && a.Key == xmlnsPrefix) {
			continue
		}
		a.Key = strings.ToLower(a.Key)
	}
}

// namespaceOf returns the URI bound to the reserved prefix on the root, or "".
func namespaceOf(root *etree.Element) string {
	for _, a := range root.Attr {
		if a.Space == xmlnsPrefix && a.Key == format.NamespacePrefix {
			return a.Value
		}
	}
	return ""
}

func resolvePrefix(el *etree.Element, prefix string) string {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if a.Space == xmlnsPrefix && a.Key == prefix {
				return a.Value
			}
		}
	}
	return ""
}

// plainAttr looks up an unqualified attribute.
func plainAttr(el *etree.Element, name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == name {
			return a.Value, true
		}
	}
	return "", false
}

// attrValue looks the attribute up in namespace ns first and falls back to
// the unqualified attribute of the same name.
func attrValue(el *etree.Element, ns, name string) (string, bool) {
	name = strings.ToLower(name)
	if ns != "" {
		for _, a := range el.Attr {
			if a.Key != name || a.Space == "" || a.Space == xmlnsPrefix {
				continue
			}
			if resolvePrefix(el, a.Space) == ns {
				return a.Value, true
			}
		}
	}
	return plainAttr(el, name)
}

// outlineURL returns the xmlUrl attribute, or url when xmlUrl is absent.
func outlineURL(el *etree.Element) (string, bool) {
	if v, ok := plainAttr(el, format.AttrXMLURL); ok {
		return v, true
	}
	return plainAttr(el, format.AttrURL)
}

// outlineTitle returns the title attribute, falling back to text when the
// title is absent or blank.
func outlineTitle(el *etree.Element) (string, bool) {
	title, hasTitle := plainAttr(el, format.AttrTitle)
	if strings.TrimSpace(title) != "" {
		return title, true
	}
	if text, ok := plainAttr(el, format.AttrText); ok {
		return text, true
	}
	return title, hasTitle
}

// outlines returns the outline children of el.
func outlines(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == format.TagOutline {
			out = append(out, child)
		}
	}
	return out
}

// childElement finds a direct child by exact tag name.
func childElement(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}
