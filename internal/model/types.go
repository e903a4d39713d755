package model

import (
	"time"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// GuideSet is the result of an import and the input of an export.
type GuideSet struct {
	Title        string     `json:"title" yaml:"title"`
	Guides       []*Guide   `json:"guides" yaml:"guides"`
	DateModified *time.Time `json:"date_modified,omitempty" yaml:"date_modified,omitempty"`
}

// Guide is a named collection of feeds and reading lists. Title and Icon are
// always set; an empty Icon means the guide has none.
type Guide struct {
	Title string `json:"title" yaml:"title"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`

	Feeds        []Feed         `json:"feeds,omitempty" yaml:"feeds,omitempty"`
	ReadingLists []*ReadingList `json:"reading_lists,omitempty" yaml:"reading_lists,omitempty"`

	PublishingEnabled    bool   `json:"publishing_enabled,omitempty" yaml:"publishing_enabled,omitempty"`
	PublishingTitle      string `json:"publishing_title,omitempty" yaml:"publishing_title,omitempty"`
	PublishingTags       string `json:"publishing_tags,omitempty" yaml:"publishing_tags,omitempty"`
	PublishingPublic     bool   `json:"publishing_public,omitempty" yaml:"publishing_public,omitempty"`
	PublishingRating     int    `json:"publishing_rating,omitempty" yaml:"publishing_rating,omitempty"`
	AutoFeedsDiscovery   bool   `json:"auto_feeds_discovery,omitempty" yaml:"auto_feeds_discovery,omitempty"`
	NotificationsAllowed bool   `json:"notifications_allowed,omitempty" yaml:"notifications_allowed,omitempty"`
	Mobile               bool   `json:"mobile,omitempty" yaml:"mobile,omitempty"`
}

// HasContent reports whether the guide carries at least one feed or reading list.
func (g *Guide) HasContent() bool {
	return len(g.Feeds) > 0 || len(g.ReadingLists) > 0
}

func (g *Guide) Equal(o *Guide) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.Title != o.Title ||
		g.Icon != o.Icon ||
		g.PublishingEnabled != o.PublishingEnabled ||
		g.PublishingTitle != o.PublishingTitle ||
		g.PublishingTags != o.PublishingTags ||
		g.PublishingPublic != o.PublishingPublic ||
		g.PublishingRating != o.PublishingRating ||
		g.AutoFeedsDiscovery != o.AutoFeedsDiscovery ||
		g.NotificationsAllowed != o.NotificationsAllowed ||
		g.Mobile != o.Mobile {
		return false
	}
	if len(g.Feeds) != len(o.Feeds) || len(g.ReadingLists) != len(o.ReadingLists) {
		return false
	}
	for i := range g.Feeds {
		if !FeedsEqual(g.Feeds[i], o.Feeds[i]) {
			return false
		}
	}
	for i := range g.ReadingLists {
		if !g.ReadingLists[i].Equal(o.ReadingLists[i]) {
			return false
		}
	}
	return true
}

// ReadingList references an externally hosted OPML fragment. Lists are
// identified by URL alone.
type ReadingList struct {
	Title string        `json:"title" yaml:"title"`
	URL   string        `json:"url" yaml:"url"`
	Feeds []*DirectFeed `json:"feeds,omitempty" yaml:"feeds,omitempty"`
}

func (r *ReadingList) Equal(o *ReadingList) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.URL == o.URL
}

// SetSummary describes a stored guide set.
type SetSummary struct {
	ID         string    `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	Guides     int       `json:"guides" yaml:"guides"`
	Feeds      int       `json:"feeds" yaml:"feeds"`
	ImportedAt time.Time `json:"imported_at" yaml:"imported_at"`
}

// CheckResult is the outcome of probing one direct feed. Alternate is a feed
// advertised by the page found at URL when that page is not a feed itself.
type CheckResult struct {
	Guide     string `json:"guide,omitempty" yaml:"guide,omitempty"`
	URL       string `json:"url" yaml:"url"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Items     int    `json:"items" yaml:"items"`
	Summary   string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	Alternate string `json:"alternate,omitempty" yaml:"alternate,omitempty"`
}
