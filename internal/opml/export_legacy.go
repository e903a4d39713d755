package opml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/tengjizhang/bbopml/internal/format"
	"github.com/tengjizhang/bbopml/internal/model"
)

// legacyWriter emits the flat vocabulary used before the bb namespace
// existed. Every attribute is unqualified.
type legacyWriter struct {
	extended bool
}

func (w legacyWriter) declare(*etree.Element) {}

func (w legacyWriter) writeGuide(body *etree.Element, g *model.Guide) error {
	el := body.CreateElement(format.TagOutline)
	setAttr(el, format.AttrText, g.Title)
	setAttrIfSet(el, format.AttrIcon, g.Icon)
	if w.extended {
		setBool(el, format.AttrPubEnabled, g.PublishingEnabled)
		setAttrIfSet(el, format.AttrPubTitle, g.PublishingTitle)
		setAttrIfSet(el, format.AttrPubTags, g.PublishingTags)
	}

	for _, rl := range g.ReadingLists {
		list := el.CreateElement(format.TagOutline)
		setAttr(list, format.AttrType, format.TypeList)
		setAttr(list, format.AttrText, rl.Title)
		setAttr(list, format.AttrXMLURL, rl.URL)
		for _, f := range rl.Feeds {
			if err := w.writeFeed(list, f); err != nil {
				return err
			}
		}
	}
	for _, f := range g.Feeds {
		if err := w.writeFeed(el, f); err != nil {
			return err
		}
	}
	return nil
}

func (w legacyWriter) writeFeed(parent *etree.Element, f model.Feed) error {
	switch f := f.(type) {
	case *model.DirectFeed:
		el := parent.CreateElement(format.TagOutline)
		w.writeDefault(el, &f.FeedBase)
		setAttr(el, format.AttrXMLURL, f.XMLURL)
		setAttrIfSet(el, format.AttrHTMLURL, f.HTMLURL)
		setAttrIfSet(el, format.AttrCustomTitle, f.CustomTitle)
		setAttrIfSet(el, format.AttrCustomCreator, f.CustomCreator)
		setAttrIfSet(el, format.AttrCustomDescription, f.CustomDescription)
		setAttrIfSet(el, format.AttrTags, f.Tags)
		setAttrIfSet(el, format.AttrTagsDescription, f.TagsDescription)
		setAttrIfSet(el, format.AttrTagsExtended, f.TagsExtended)
		if w.extended && f.Disabled {
			setBool(el, format.AttrDisabled, true)
		}
	case *model.QueryFeed:
		el := parent.CreateElement(format.TagOutline)
		w.writeDefault(el, &f.FeedBase)
		setAttr(el, format.AttrTitle, f.Title)
		setAttr(el, format.AttrQueryType, strconv.Itoa(f.QueryType))
		setAttr(el, format.AttrQueryParam, f.QueryParam)
		setAttrIfSet(el, format.AttrXMLURL, f.XMLURL)
	case *model.SearchFeed:
		el := parent.CreateElement(format.TagOutline)
		setAttr(el, format.AttrType, format.TypeSearch)
		setAttr(el, format.AttrText, f.Title)
		setAttr(el, format.AttrTitle, f.Title)
		setAttr(el, format.AttrQuery, f.Query)
		setIntIfSet(el, format.AttrRating, f.Rating)
		setIntIfSet(el, format.AttrLimit, f.Limit)
	default:
		return fmt.Errorf("legacy export: unsupported feed variant %T", f)
	}
	return nil
}

func (w legacyWriter) writeDefault(el *etree.Element, b *model.FeedBase) {
	setAttr(el, format.AttrType, format.TypeRSS)
	setAttr(el, format.AttrText, b.Title)
	setIntIfSet(el, format.AttrRating, b.Rating)
	if w.extended {
		setAttrIfSet(el, format.AttrReadArticles, b.ReadArticlesKeys)
		setIntIfSet(el, format.AttrLimit, b.Limit)
		setIntIfSet(el, format.AttrViewType, b.ViewType)
	}
}
