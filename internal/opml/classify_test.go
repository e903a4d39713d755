package opml

import (
	"testing"

	"github.com/beevik/etree"

	"github.com/tengjizhang/bbopml/internal/format"
)

func outlineFromString(t *testing.T, src string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	root := doc.Root()
	if root == nil {
		t.Fatalf("no root in %q", src)
	}
	el := root
	if root.Tag == format.TagOPML {
		el = root.ChildElements()[0]
	}
	lowercaseAttrs(el)
	return el
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		outline string
		want    OutlineType
	}{
		{"bare container", `<outline title="1"/>`, OutlineGuide},
		{"no attributes", `<outline/>`, OutlineGuide},
		{"opml type", `<outline type="opml" url="1"/>`, OutlineGuideLink},
		{"include type", `<outline type="include" xmlUrl="1.xml"/>`, OutlineGuideLink},
		{"include mixed case", `<outline type="InClUdE" xmlUrl="1.xml"/>`, OutlineGuideLink},
		{"unknown type", `<outline type="ssr" title="5" xmlurl="5.xml"/>`, OutlineInvalid},
		{"query feed", `<outline type="rss" title="1" querytype="2" queryparam="a b c"/>`, OutlineQueryFeed},
		{"query feed keywords", `<outline type="rss" title="1" querytype="2" keywords="a"/>`, OutlineQueryFeed},
		{"query type without param", `<outline type="rss" title="1" querytype="2"/>`, OutlineInvalid},
		{"direct feed", `<outline type="rss" title="1" xmlurl="1.xml"/>`, OutlineDirectFeed},
		{"direct feed url and text", `<outline type="RSS" text="1" url="1.xml"/>`, OutlineDirectFeed},
		{"rss without title", `<outline type="rss" xmlurl="1.xml"/>`, OutlineInvalid},
		{"rss without url", `<outline type="rss" title="1"/>`, OutlineInvalid},
		{"search feed", `<outline type="search" text="s" query="q"/>`, OutlineSearchFeed},
		{"search mixed case", `<outline type="Search"/>`, OutlineSearchFeed},
		{"reading list", `<outline type="list" text="l" xmlUrl="l.opml"/>`, OutlineReadingList},
		{"reading list mixed case", `<outline type="LIST"/>`, OutlineReadingList},
		{"link with opml path", `<outline type="link" url="http://localhost/outline.opml?somequery=1#a"/>`, OutlineGuideLink},
		{"link with opml in query", `<outline type="link" url="http://localhost/outline.aspx?disply=a.opml"/>`, OutlineGuideLink},
		{"link with xmlurl", `<outline type="link" xmlurl="http://localhost/outline.OPML"/>`, OutlineGuideLink},
		{"link to page", `<outline type="link" url="http://localhost/index.html"/>`, OutlineInvalid},
		{"link without url", `<outline type="link" text="x"/>`, OutlineInvalid},
		{"untyped opml url", `<outline text="x" xmlurl=" http://a/b.OPML "/>`, OutlineGuideLink},
		{"untyped feed url", `<outline text="x" xmlurl="http://a/b.xml"/>`, OutlineDirectFeed},
		{"untyped url without title", `<outline xmlurl="http://a/b.xml"/>`, OutlineInvalid},
		{"mixed case attributes", `<outline TYPE="rss" Title="1" XmlUrl="a"/>`, OutlineDirectFeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := outlineFromString(t, tt.outline)
			if got := Classify(el, ""); got != tt.want {
				t.Fatalf("Classify(%s) = %s, want %s", tt.outline, got, tt.want)
			}
		})
	}
}

func TestClassifyNamespacedQuery(t *testing.T) {
	src := `<opml xmlns:bb="` + format.NamespaceURI + `"><outline type="rss" title="1" bb:querytype="2" bb:queryparam="a"/></opml>`
	el := outlineFromString(t, src)
	if got := Classify(el, format.NamespaceURI); got != OutlineQueryFeed {
		t.Fatalf("Classify() = %s, want %s", got, OutlineQueryFeed)
	}
	if got := Classify(el, ""); got != OutlineInvalid {
		t.Fatalf("Classify() without namespace = %s, want %s", got, OutlineInvalid)
	}
}

func TestAttrValuePrefersQualified(t *testing.T) {
	src := `<opml xmlns:bb="` + format.NamespaceURI + `"><outline rating="1" bb:rating="3" limit="5"/></opml>`
	el := outlineFromString(t, src)

	if v, _ := attrValue(el, format.NamespaceURI, "rating"); v != "3" {
		t.Fatalf("qualified rating = %q, want 3", v)
	}
	if v, _ := attrValue(el, format.NamespaceURI, "limit"); v != "5" {
		t.Fatalf("fallback limit = %q, want 5", v)
	}
	if v, _ := attrValue(el, "", "rating"); v != "1" {
		t.Fatalf("unqualified rating = %q, want 1", v)
	}
	if _, ok := attrValue(el, format.NamespaceURI, "missing"); ok {
		t.Fatalf("expected missing attribute")
	}
}

func TestOutlineTitle(t *testing.T) {
	tests := []struct {
		outline string
		want    string
		ok      bool
	}{
		{`<outline title="a" text="b"/>`, "a", true},
		{`<outline title="" text="b"/>`, "b", true},
		{`<outline title="  " text="b"/>`, "b", true},
		{`<outline text="b"/>`, "b", true},
		{`<outline title=""/>`, "", true},
		{`<outline/>`, "", false},
	}
	for _, tt := range tests {
		got, ok := outlineTitle(outlineFromString(t, tt.outline))
		if got != tt.want || ok != tt.ok {
			t.Fatalf("outlineTitle(%s) = %q, %t; want %q, %t", tt.outline, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtensionMatches(t *testing.T) {
	for name, want := range map[string]bool{
		"feeds.opml": true,
		"FEEDS.OPML": true,
		"feeds.xml":  true,
		"feeds.txt":  false,
		"opml":       false,
	} {
		if got := ExtensionMatches(name); got != want {
			t.Fatalf("ExtensionMatches(%q) = %t, want %t", name, got, want)
		}
	}
}
