package opml

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/tengjizhang/bbopml/internal/format"
	"github.com/tengjizhang/bbopml/internal/model"
)

// MaxNestingLevel bounds how deep linked OPML documents are followed.
const MaxNestingLevel = 2

const (
	defaultSetTitle   = "Untitled"
	defaultGuideTitle = "untitled"
)

var dateLayouts = []string{
	format.DateLayout,
	time.RFC1123,
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

// Importer turns OPML documents into guide sets. It keeps no per-call state
// and may be shared between goroutines.
type Importer struct {
	fetcher    Fetcher
	log        *zap.Logger
	allowEmpty bool
	preprocess func(*etree.Document)
}

type Option func(*Importer)

func WithLogger(log *zap.Logger) Option {
	return func(im *Importer) {
		if log != nil {
			im.log = log
		}
	}
}

// WithAllowEmptyGuides keeps top-level guides that end up without feeds or
// reading lists.
func WithAllowEmptyGuides(allow bool) Option {
	return func(im *Importer) { im.allowEmpty = allow }
}

// WithPreprocess registers a hook run on every validated document before it
// is interpreted.
func WithPreprocess(fn func(*etree.Document)) Option {
	return func(im *Importer) { im.preprocess = fn }
}

func NewImporter(fetcher Fetcher, opts ...Option) *Importer {
	im := &Importer{
		fetcher: fetcher,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Process fetches and imports the document at rawURL. In single mode the
// result holds at most one guide.
func (im *Importer) Process(ctx context.Context, rawURL string, single bool) (*model.GuideSet, error) {
	return im.processURL(ctx, rawURL, single, 1)
}

// ProcessString imports a literal OPML document.
func (im *Importer) ProcessString(ctx context.Context, text string, single bool) (*model.GuideSet, error) {
	return im.ProcessReader(ctx, strings.NewReader(text), single)
}

func (im *Importer) ProcessReader(ctx context.Context, r io.Reader, single bool) (*model.GuideSet, error) {
	doc, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	return im.processDocument(ctx, doc, single, 0)
}

func (im *Importer) processURL(ctx context.Context, rawURL string, single bool, depth int) (*model.GuideSet, error) {
	if depth > MaxNestingLevel {
		im.log.Debug("nesting limit reached", zap.String("url", rawURL), zap.Int("depth", depth))
		return &model.GuideSet{}, nil
	}

	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}
	if im.fetcher == nil {
		return nil, ioError(errNoFetcher)
	}
	rc, err := im.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, ioError(err)
	}
	defer rc.Close()

	doc, err := readDocument(rc)
	if err != nil {
		return nil, err
	}
	return im.processDocument(ctx, doc, single, depth)
}

func (im *Importer) processDocument(ctx context.Context, doc *etree.Document, single bool, depth int) (*model.GuideSet, error) {
	root, body, err := validate(doc)
	if err != nil {
		return nil, err
	}
	if im.preprocess != nil {
		im.preprocess(doc)
	}

	w := &walker{
		ctx:   ctx,
		im:    im,
		ns:    namespaceOf(root),
		depth: depth,
	}
	w.flattenTopLevelGuide(root, body)
	set := w.buildSet(root, body)
	if single {
		set = convertToSingle(set)
	}
	return set, nil
}

func validate(doc *etree.Document) (*etree.Element, *etree.Element, error) {
	root := doc.Root()
	if root == nil || !strings.EqualFold(root.Tag, format.TagOPML) {
		return nil, nil, parsingError("not an opml resource", nil)
	}
	body := childElement(root, format.TagBody)
	if body == nil {
		return nil, nil, parsingError("incorrect format", nil)
	}
	return root, body, nil
}

// convertToSingle collapses a set to at most one guide. Two guides with an
// empty first one keep the second; otherwise the first guide receives the
// feeds of all guides.
func convertToSingle(set *model.GuideSet) *model.GuideSet {
	switch {
	case len(set.Guides) < 2:
		return set
	case len(set.Guides) == 2 && len(set.Guides[0].Feeds) == 0:
		set.Guides = set.Guides[1:]
		return set
	}

	var feeds []model.Feed
	for _, g := range set.Guides {
		feeds = append(feeds, g.Feeds...)
	}
	first := *set.Guides[0]
	first.Feeds = feeds
	set.Guides = []*model.Guide{&first}
	return set
}

// walker interprets one document. Depth is the nesting level of the
// document being walked.
type walker struct {
	ctx   context.Context
	im    *Importer
	ns    string
	depth int
}

func (w *walker) classify(el *etree.Element) OutlineType {
	lowercaseAttrs(el)
	return Classify(el, w.ns)
}

// flattenTopLevelGuide removes the wrapper guide of a body holding nothing
// else when that guide only groups other guides.
func (w *walker) flattenTopLevelGuide(root, body *etree.Element) {
	top := outlines(body)
	if len(top) != 1 || w.classify(top[0]) != OutlineGuide {
		return
	}
	wrapper := top[0]

	hasGuide := false
	for _, el := range outlines(wrapper) {
		switch w.classify(el) {
		case OutlineReadingList:
			return
		case OutlineGuide:
			hasGuide = true
		}
	}
	if !hasGuide {
		return
	}

	if title, _ := outlineTitle(wrapper); strings.TrimSpace(title) != "" {
		setHeadTitleIfMissing(root, strings.TrimSpace(title))
	}

	idx := wrapper.Index()
	children := wrapper.ChildElements()
	body.RemoveChild(wrapper)
	for i, child := range children {
		body.InsertChildAt(idx+i, child)
	}
	w.im.log.Debug("flattened top-level guide", zap.Int("children", len(children)))
}

func setHeadTitleIfMissing(root *etree.Element, title string) {
	head := childElement(root, format.TagHead)
	if head == nil {
		head = etree.NewElement(format.TagHead)
		root.InsertChildAt(0, head)
	}
	el := childElement(head, format.TagTitle)
	if el == nil {
		el = head.CreateElement(format.TagTitle)
	}
	if strings.TrimSpace(el.Text()) == "" {
		el.SetText(title)
	}
}

func (w *walker) buildSet(root, body *etree.Element) *model.GuideSet {
	set := &model.GuideSet{Title: defaultSetTitle}
	if head := childElement(root, format.TagHead); head != nil {
		if el := childElement(head, format.TagTitle); el != nil && strings.TrimSpace(el.Text()) != "" {
			set.Title = strings.TrimSpace(el.Text())
		}
		if el := childElement(head, format.TagDateModified); el != nil {
			set.DateModified = w.parseDate(strings.TrimSpace(el.Text()))
		}
	}

	rootGuide := &model.Guide{Title: set.Title, NotificationsAllowed: true}
	var guides []*model.Guide
	for _, el := range outlines(body) {
		switch typ := w.classify(el); typ {
		case OutlineGuide, OutlineReadingList:
			g := w.buildGuide(el)
			if g.HasContent() || w.im.allowEmpty {
				guides = append(guides, g)
			}
		case OutlineGuideLink:
			linked, ok := w.resolveLink(el)
			if ok {
				guides = append(guides, linked.Guides...)
			}
		case OutlineDirectFeed, OutlineQueryFeed, OutlineSearchFeed:
			rootGuide.Feeds = append(rootGuide.Feeds, w.buildFeed(el, typ))
		case OutlineInvalid:
			w.logInvalid(el)
		default:
			w.im.log.Error("unexpected outline type", zap.Stringer("type", typ))
		}
	}
	if rootGuide.HasContent() {
		guides = append([]*model.Guide{rootGuide}, guides...)
	}
	set.Guides = guides
	return set
}

func (w *walker) parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = resolveZone(t)
			return &t
		}
	}
	w.im.log.Warn("unparsable date", zap.String("value", v))
	return nil
}

// rfc822Zones are the North American abbreviations RFC 822 allows. time.Parse
// gives abbreviations it does not know a zero offset.
var rfc822Zones = map[string]int{
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
}

func resolveZone(t time.Time) time.Time {
	name, offset := t.Zone()
	want, ok := rfc822Zones[strings.ToUpper(name)]
	if !ok || offset == want {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.FixedZone(name, want))
}

// resolveLink imports the document a guide link points at. Links to local
// files are never followed. Failures are logged and reported as not ok.
func (w *walker) resolveLink(el *etree.Element) (*model.GuideSet, bool) {
	raw, _ := outlineURL(el)
	if u, err := url.Parse(strings.TrimSpace(raw)); err == nil && strings.EqualFold(u.Scheme, "file") {
		w.im.log.Warn("skipping local guide link", zap.String("url", raw))
		return nil, false
	}
	set, err := w.im.processURL(w.ctx, raw, true, w.depth+1)
	if err != nil {
		w.im.log.Warn("skipping linked guide", zap.String("url", raw), zap.Error(err))
		return nil, false
	}
	return set, true
}

func (w *walker) logInvalid(el *etree.Element) {
	title, _ := outlineTitle(el)
	w.im.log.Debug("skipping invalid outline", zap.String("title", title))
}
