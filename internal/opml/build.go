package opml

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/tengjizhang/bbopml/internal/format"
	"github.com/tengjizhang/bbopml/internal/model"
	"github.com/tengjizhang/bbopml/internal/netutil"
)

// buildGuide creates a guide from a top-level outline and collects
// everything below it.
func (w *walker) buildGuide(el *etree.Element) *model.Guide {
	title, _ := outlineTitle(el)
	if strings.TrimSpace(title) == "" {
		title = defaultGuideTitle
	}
	g := &model.Guide{
		Title:                title,
		Icon:                 strings.TrimSpace(w.str(el, format.AttrIcon)),
		PublishingEnabled:    w.literalTrue(el, format.AttrPubEnabled),
		PublishingTitle:      w.str(el, format.AttrPubTitle),
		PublishingTags:       w.str(el, format.AttrPubTags),
		PublishingPublic:     w.literalTrue(el, format.AttrPubPublic),
		PublishingRating:     w.intAttr(el, format.AttrPubRating, 0),
		AutoFeedsDiscovery:   w.literalTrue(el, format.AttrAutoFeedsDiscovery),
		NotificationsAllowed: w.literalTrue(el, format.AttrNotificationsAllowed),
		Mobile:               w.literalTrue(el, format.AttrMobile),
	}
	w.collect(el, g)
	return g
}

// collect adds the feeds and reading lists found below el to g. Nested plain
// guides are merged into g rather than becoming guides of their own.
func (w *walker) collect(el *etree.Element, g *model.Guide) {
	for _, child := range outlines(el) {
		switch typ := w.classify(child); typ {
		case OutlineGuide:
			w.collect(child, g)
		case OutlineReadingList:
			if rl := w.buildReadingList(child); rl != nil {
				g.ReadingLists = append(g.ReadingLists, rl)
			}
		case OutlineGuideLink:
			linked, ok := w.resolveLink(child)
			if ok && len(linked.Guides) > 0 {
				g.Feeds = append(g.Feeds, linked.Guides[0].Feeds...)
			}
		case OutlineDirectFeed, OutlineQueryFeed, OutlineSearchFeed:
			g.Feeds = append(g.Feeds, w.buildFeed(child, typ))
		case OutlineInvalid:
			w.logInvalid(child)
		default:
			w.im.log.Error("unexpected outline type", zap.Stringer("type", typ))
		}
	}
}

// buildReadingList returns nil when the outline lacks a title or a URL.
// Only direct feeds survive inside a reading list.
func (w *walker) buildReadingList(el *etree.Element) *model.ReadingList {
	title, _ := plainAttr(el, format.AttrReadingListTitle)
	rawURL, _ := plainAttr(el, format.AttrReadingListURL)
	rawURL = strings.TrimSpace(rawURL)
	if strings.TrimSpace(title) == "" || rawURL == "" {
		w.im.log.Debug("dropping incomplete reading list", zap.String("title", title), zap.String("url", rawURL))
		return nil
	}

	tmp := &model.Guide{}
	w.collect(el, tmp)
	return &model.ReadingList{
		Title: title,
		URL:   rawURL,
		Feeds: model.DirectFeeds(tmp.Feeds),
	}
}

func (w *walker) buildFeed(el *etree.Element, typ OutlineType) model.Feed {
	switch typ {
	case OutlineQueryFeed:
		return w.buildQueryFeed(el)
	case OutlineSearchFeed:
		return w.buildSearchFeed(el)
	default:
		return w.buildDirectFeed(el)
	}
}

func (w *walker) buildDirectFeed(el *etree.Element) *model.DirectFeed {
	rawURL, _ := outlineURL(el)
	htmlURL, _ := plainAttr(el, format.AttrHTMLURL)
	return &model.DirectFeed{
		FeedBase:          w.feedBase(el, true),
		XMLURL:            netutil.FixFeedURL(rawURL),
		HTMLURL:           strings.TrimSpace(htmlURL),
		CustomTitle:       w.str(el, format.AttrCustomTitle),
		CustomCreator:     w.str(el, format.AttrCustomCreator),
		CustomDescription: w.str(el, format.AttrCustomDescription),
		Tags:              w.str(el, format.AttrTags),
		TagsDescription:   w.str(el, format.AttrTagsDescription),
		TagsExtended:      w.str(el, format.AttrTagsExtended),
		Disabled:          w.boolAttr(el, format.AttrDisabled, false),
		UpdatePeriod:      w.updatePeriod(el),
	}
}

func (w *walker) buildQueryFeed(el *etree.Element) *model.QueryFeed {
	param, ok := attrValue(el, w.ns, format.AttrQueryParam)
	if !ok {
		param, _ = attrValue(el, w.ns, format.AttrKeywords)
	}
	xmlURL, _ := plainAttr(el, format.AttrXMLURL)
	return &model.QueryFeed{
		FeedBase:     w.feedBase(el, true),
		QueryType:    w.intAttr(el, format.AttrQueryType, model.Unset),
		QueryParam:   param,
		XMLURL:       strings.TrimSpace(xmlURL),
		DedupEnabled: w.boolAttr(el, format.AttrDedupEnabled, false),
		DedupFrom:    w.intAttr(el, format.AttrDedupFrom, model.Unset),
		DedupTo:      w.intAttr(el, format.AttrDedupTo, model.Unset),
		UpdatePeriod: w.updatePeriod(el),
	}
}

func (w *walker) buildSearchFeed(el *etree.Element) *model.SearchFeed {
	return &model.SearchFeed{
		FeedBase:     w.feedBase(el, false),
		Query:        w.str(el, format.AttrQuery),
		DedupEnabled: w.boolAttr(el, format.AttrDedupEnabled, false),
		DedupFrom:    w.intAttr(el, format.AttrDedupFrom, model.Unset),
		DedupTo:      w.intAttr(el, format.AttrDedupTo, model.Unset),
	}
}

func (w *walker) feedBase(el *etree.Element, withArticles bool) model.FeedBase {
	title, _ := outlineTitle(el)
	b := model.NewFeedBase(title)
	b.Rating = w.intAttr(el, format.AttrRating, model.Unset)
	b.Limit = w.intAttr(el, format.AttrLimit, model.Unset)
	b.ViewType = w.intAttr(el, format.AttrViewType, model.Unset)
	b.ViewModeEnabled = w.boolAttr(el, format.AttrViewModeEnabled, false)
	b.ViewMode = w.intAttr(el, format.AttrViewMode, model.Unset)
	b.AscendingSorting = w.optBool(el, format.AttrAscending)
	b.HandlingType = w.intAttr(el, format.AttrHandlingType, model.Unset)
	if withArticles {
		b.ReadArticlesKeys = w.str(el, format.AttrReadArticles)
		b.PinnedArticlesKeys = w.str(el, format.AttrPinnedArticles)
	}
	return b
}

func (w *walker) updatePeriod(el *etree.Element) time.Duration {
	ms := w.int64Attr(el, format.AttrUpdatePeriod, 0)
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func (w *walker) str(el *etree.Element, name string) string {
	v, _ := attrValue(el, w.ns, name)
	return v
}

func (w *walker) intAttr(el *etree.Element, name string, def int) int {
	v, ok := attrValue(el, w.ns, name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		w.im.log.Warn("invalid integer attribute", zap.String("attr", name), zap.String("value", v))
		return def
	}
	return n
}

func (w *walker) int64Attr(el *etree.Element, name string, def int64) int64 {
	v, ok := attrValue(el, w.ns, name)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		w.im.log.Warn("invalid long attribute", zap.String("attr", name), zap.String("value", v))
		return def
	}
	return n
}

func (w *walker) boolAttr(el *etree.Element, name string, def bool) bool {
	v, ok := attrValue(el, w.ns, name)
	if !ok {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// literalTrue is the strict guide flag rule: only the exact string "true".
func (w *walker) literalTrue(el *etree.Element, name string) bool {
	v, _ := attrValue(el, w.ns, name)
	return v == "true"
}

func (w *walker) optBool(el *etree.Element, name string) *bool {
	v, ok := attrValue(el, w.ns, name)
	if !ok {
		return nil
	}
	return model.BoolPtr(strings.EqualFold(strings.TrimSpace(v), "true"))
}
