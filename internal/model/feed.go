package model

import "time"

// Unset marks an integer feed property that carries no value.
const Unset = -1

type FeedKind string

const (
	KindDirect FeedKind = "direct"
	KindQuery  FeedKind = "query"
	KindSearch FeedKind = "search"
)

// Feed is implemented by *DirectFeed, *QueryFeed and *SearchFeed only.
type Feed interface {
	Kind() FeedKind
	Common() *FeedBase
	isFeed()
}

// FeedBase holds the properties every feed variant shares.
type FeedBase struct {
	Title              string `json:"title,omitempty" yaml:"title,omitempty"`
	Rating             int    `json:"rating" yaml:"rating"`
	Limit              int    `json:"limit" yaml:"limit"`
	ReadArticlesKeys   string `json:"read_articles,omitempty" yaml:"read_articles,omitempty"`
	PinnedArticlesKeys string `json:"pinned_articles,omitempty" yaml:"pinned_articles,omitempty"`
	ViewType           int    `json:"view_type" yaml:"view_type"`
	ViewModeEnabled    bool   `json:"view_mode_enabled,omitempty" yaml:"view_mode_enabled,omitempty"`
	ViewMode           int    `json:"view_mode" yaml:"view_mode"`
	AscendingSorting   *bool  `json:"ascending_sorting,omitempty" yaml:"ascending_sorting,omitempty"`
	HandlingType       int    `json:"handling_type" yaml:"handling_type"`
}

// NewFeedBase returns a base with every integer property unset.
func NewFeedBase(title string) FeedBase {
	return FeedBase{
		Title:        title,
		Rating:       Unset,
		Limit:        Unset,
		ViewType:     Unset,
		ViewMode:     Unset,
		HandlingType: Unset,
	}
}

func (b *FeedBase) Common() *FeedBase { return b }

func (b FeedBase) equal(o FeedBase) bool {
	return b.Title == o.Title &&
		b.Rating == o.Rating &&
		b.Limit == o.Limit &&
		b.ReadArticlesKeys == o.ReadArticlesKeys &&
		b.PinnedArticlesKeys == o.PinnedArticlesKeys &&
		b.ViewType == o.ViewType &&
		b.ViewModeEnabled == o.ViewModeEnabled &&
		b.ViewMode == o.ViewMode &&
		b.HandlingType == o.HandlingType &&
		boolPtrEqual(b.AscendingSorting, o.AscendingSorting)
}

// DirectFeed is a subscription with an explicit content URL.
type DirectFeed struct {
	FeedBase `yaml:",inline"`

	XMLURL            string        `json:"xml_url" yaml:"xml_url"`
	HTMLURL           string        `json:"html_url,omitempty" yaml:"html_url,omitempty"`
	CustomTitle       string        `json:"custom_title,omitempty" yaml:"custom_title,omitempty"`
	CustomCreator     string        `json:"custom_creator,omitempty" yaml:"custom_creator,omitempty"`
	CustomDescription string        `json:"custom_description,omitempty" yaml:"custom_description,omitempty"`
	Tags              string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	TagsDescription   string        `json:"tags_description,omitempty" yaml:"tags_description,omitempty"`
	TagsExtended      string        `json:"tags_extended,omitempty" yaml:"tags_extended,omitempty"`
	Disabled          bool          `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	UpdatePeriod      time.Duration `json:"update_period,omitempty" yaml:"update_period,omitempty"`
}

func (*DirectFeed) Kind() FeedKind { return KindDirect }
func (*DirectFeed) isFeed()        {}

func (f *DirectFeed) Equal(o *DirectFeed) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.FeedBase.equal(o.FeedBase) &&
		f.XMLURL == o.XMLURL &&
		f.HTMLURL == o.HTMLURL &&
		f.CustomTitle == o.CustomTitle &&
		f.CustomCreator == o.CustomCreator &&
		f.CustomDescription == o.CustomDescription &&
		f.Tags == o.Tags &&
		f.TagsDescription == o.TagsDescription &&
		f.TagsExtended == o.TagsExtended &&
		f.Disabled == o.Disabled &&
		f.UpdatePeriod == o.UpdatePeriod
}

// QueryFeed is defined by a saved query type and parameter.
type QueryFeed struct {
	FeedBase `yaml:",inline"`

	QueryType    int           `json:"query_type" yaml:"query_type"`
	QueryParam   string        `json:"query_param,omitempty" yaml:"query_param,omitempty"`
	XMLURL       string        `json:"xml_url,omitempty" yaml:"xml_url,omitempty"`
	DedupEnabled bool          `json:"dedup_enabled,omitempty" yaml:"dedup_enabled,omitempty"`
	DedupFrom    int           `json:"dedup_from" yaml:"dedup_from"`
	DedupTo      int           `json:"dedup_to" yaml:"dedup_to"`
	UpdatePeriod time.Duration `json:"update_period,omitempty" yaml:"update_period,omitempty"`
}

func (*QueryFeed) Kind() FeedKind { return KindQuery }
func (*QueryFeed) isFeed()        {}

func (f *QueryFeed) Equal(o *QueryFeed) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.FeedBase.equal(o.FeedBase) &&
		f.QueryType == o.QueryType &&
		f.QueryParam == o.QueryParam &&
		f.XMLURL == o.XMLURL &&
		f.DedupEnabled == o.DedupEnabled &&
		f.DedupFrom == o.DedupFrom &&
		f.DedupTo == o.DedupTo &&
		f.UpdatePeriod == o.UpdatePeriod
}

// SearchFeed is defined by a free-text saved search.
type SearchFeed struct {
	FeedBase `yaml:",inline"`

	Query        string `json:"query" yaml:"query"`
	DedupEnabled bool   `json:"dedup_enabled,omitempty" yaml:"dedup_enabled,omitempty"`
	DedupFrom    int    `json:"dedup_from" yaml:"dedup_from"`
	DedupTo      int    `json:"dedup_to" yaml:"dedup_to"`
}

func (*SearchFeed) Kind() FeedKind { return KindSearch }
func (*SearchFeed) isFeed()        {}

func (f *SearchFeed) Equal(o *SearchFeed) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.FeedBase.equal(o.FeedBase) &&
		f.Query == o.Query &&
		f.DedupEnabled == o.DedupEnabled &&
		f.DedupFrom == o.DedupFrom &&
		f.DedupTo == o.DedupTo
}

// FeedsEqual compares two feeds of any variant.
func FeedsEqual(a, b Feed) bool {
	switch x := a.(type) {
	case *DirectFeed:
		y, ok := b.(*DirectFeed)
		return ok && x.Equal(y)
	case *QueryFeed:
		y, ok := b.(*QueryFeed)
		return ok && x.Equal(y)
	case *SearchFeed:
		y, ok := b.(*SearchFeed)
		return ok && x.Equal(y)
	case nil:
		return b == nil
	default:
		return false
	}
}

// DirectFeeds returns the direct feeds of the slice, in order.
func DirectFeeds(feeds []Feed) []*DirectFeed {
	out := make([]*DirectFeed, 0, len(feeds))
	for _, f := range feeds {
		if d, ok := f.(*DirectFeed); ok {
			out = append(out, d)
		}
	}
	return out
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
