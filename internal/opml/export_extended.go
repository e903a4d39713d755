package opml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/tengjizhang/bbopml/internal/format"
	"github.com/tengjizhang/bbopml/internal/model"
)

// extendedWriter puts application attributes into the bb namespace and keeps
// the standard OPML ones unqualified.
type extendedWriter struct {
	extended bool
}

func bb(name string) string {
	return format.NamespacePrefix + ":" + name
}

func (w extendedWriter) declare(root *etree.Element) {
	root.CreateAttr("xmlns:"+format.NamespacePrefix, format.NamespaceURI)
}

func (w extendedWriter) writeGuide(body *etree.Element, g *model.Guide) error {
	el := body.CreateElement(format.TagOutline)
	setAttr(el, format.AttrText, g.Title)
	if g.Icon != "" {
		setAttr(el, bb(format.AttrIcon), g.Icon)
	}
	if w.extended {
		setTrue(el, bb(format.AttrPubEnabled), g.PublishingEnabled)
		setAttrIfSet(el, bb(format.AttrPubTitle), g.PublishingTitle)
		setAttrIfSet(el, bb(format.AttrPubTags), g.PublishingTags)
		setTrue(el, bb(format.AttrPubPublic), g.PublishingPublic)
		setTrue(el, bb(format.AttrNotificationsAllowed), g.NotificationsAllowed)
		setTrue(el, bb(format.AttrAutoFeedsDiscovery), g.AutoFeedsDiscovery)
		setTrue(el, bb(format.AttrMobile), g.Mobile)
		setAttr(el, bb(format.AttrPubRating), strconv.Itoa(g.PublishingRating))
	}

	for _, rl := range g.ReadingLists {
		if err := w.writeReadingList(el, rl); err != nil {
			return err
		}
	}
	for _, f := range g.Feeds {
		if _, direct := f.(*model.DirectFeed); !w.extended && !direct {
			continue
		}
		if err := w.writeFeed(el, f); err != nil {
			return err
		}
	}
	return nil
}

func (w extendedWriter) writeReadingList(parent *etree.Element, rl *model.ReadingList) error {
	el := parent.CreateElement(format.TagOutline)
	setAttr(el, format.AttrType, format.TypeList)
	setAttr(el, format.AttrText, rl.Title)
	setAttr(el, format.AttrXMLURL, rl.URL)
	for _, f := range rl.Feeds {
		if err := w.writeFeed(el, f); err != nil {
			return err
		}
	}
	return nil
}

func (w extendedWriter) writeFeed(parent *etree.Element, f model.Feed) error {
	switch f := f.(type) {
	case *model.DirectFeed:
		el := parent.CreateElement(format.TagOutline)
		w.writeDefault(el, &f.FeedBase)
		w.writeUpdatePeriod(el, f.UpdatePeriod.Milliseconds())
		setAttr(el, format.AttrXMLURL, f.XMLURL)
		setAttrIfSet(el, format.AttrHTMLURL, f.HTMLURL)
		setAttrIfSet(el, bb(format.AttrCustomTitle), f.CustomTitle)
		setAttrIfSet(el, bb(format.AttrCustomCreator), f.CustomCreator)
		setAttrIfSet(el, bb(format.AttrCustomDescription), f.CustomDescription)
		setAttrIfSet(el, bb(format.AttrTags), f.Tags)
		setAttrIfSet(el, bb(format.AttrTagsDescription), f.TagsDescription)
		setAttrIfSet(el, bb(format.AttrTagsExtended), f.TagsExtended)
		if w.extended && f.Disabled {
			setBool(el, bb(format.AttrDisabled), true)
		}
	case *model.QueryFeed:
		el := parent.CreateElement(format.TagOutline)
		w.writeDefault(el, &f.FeedBase)
		w.writeUpdatePeriod(el, f.UpdatePeriod.Milliseconds())
		setAttr(el, format.AttrTitle, f.Title)
		setAttr(el, bb(format.AttrQueryType), strconv.Itoa(f.QueryType))
		setAttr(el, bb(format.AttrQueryParam), f.QueryParam)
		setAttrIfSet(el, format.AttrXMLURL, f.XMLURL)
		writeDedup(el, bb, f.DedupEnabled, f.DedupFrom, f.DedupTo)
	case *model.SearchFeed:
		el := parent.CreateElement(format.TagOutline)
		setAttr(el, format.AttrType, format.TypeSearch)
		setAttr(el, format.AttrText, f.Title)
		setAttr(el, format.AttrTitle, f.Title)
		setAttr(el, bb(format.AttrQuery), f.Query)
		w.writeCommon(el, &f.FeedBase)
		writeDedup(el, bb, f.DedupEnabled, f.DedupFrom, f.DedupTo)
	default:
		return fmt.Errorf("export: unsupported feed variant %T", f)
	}
	return nil
}

func (w extendedWriter) writeDefault(el *etree.Element, b *model.FeedBase) {
	setAttr(el, format.AttrType, format.TypeRSS)
	setAttr(el, format.AttrText, b.Title)
	if w.extended {
		setAttrIfSet(el, bb(format.AttrReadArticles), b.ReadArticlesKeys)
		setAttrIfSet(el, bb(format.AttrPinnedArticles), b.PinnedArticlesKeys)
	}
	w.writeCommon(el, b)
}

func (w extendedWriter) writeCommon(el *etree.Element, b *model.FeedBase) {
	setIntIfSet(el, bb(format.AttrRating), b.Rating)
	if !w.extended {
		return
	}
	setIntIfSet(el, bb(format.AttrLimit), b.Limit)
	setIntIfSet(el, bb(format.AttrViewType), b.ViewType)
	if b.ViewModeEnabled {
		setBool(el, bb(format.AttrViewModeEnabled), true)
	}
	setIntIfSet(el, bb(format.AttrViewMode), b.ViewMode)
	if b.AscendingSorting != nil {
		setBool(el, bb(format.AttrAscending), *b.AscendingSorting)
	}
	setIntIfSet(el, bb(format.AttrHandlingType), b.HandlingType)
}

func (w extendedWriter) writeUpdatePeriod(el *etree.Element, ms int64) {
	if w.extended && ms > 0 {
		setAttr(el, bb(format.AttrUpdatePeriod), strconv.FormatInt(ms, 10))
	}
}

func writeDedup(el *etree.Element, name func(string) string, enabled bool, from, to int) {
	if enabled {
		setBool(el, name(format.AttrDedupEnabled), true)
	}
	setIntIfSet(el, name(format.AttrDedupFrom), from)
	setIntIfSet(el, name(format.AttrDedupTo), to)
}
