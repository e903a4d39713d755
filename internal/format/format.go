// Package format holds the OPML vocabulary shared by the importer and the exporters.
package format

const (
	Version = "1.1"

	// NamespacePrefix is the reserved prefix looked up on the document root.
	NamespacePrefix = "bb"
	NamespaceURI    = "http://blogbridge.com/ns/2006/opml"

	// DateLayout matches "EEE, d MMM yyyy HH:mm:ss z".
	DateLayout = "Mon, 2 Jan 2006 15:04:05 MST"
)

const (
	TagOPML         = "opml"
	TagHead         = "head"
	TagTitle        = "title"
	TagDateModified = "dateModified"
	TagBody         = "body"
	TagOutline      = "outline"
)

const (
	TypeRSS     = "rss"
	TypeSearch  = "search"
	TypeList    = "list"
	TypeOPML    = "opml"
	TypeInclude = "include"
	TypeLink    = "link"
)

// Outline attributes, in the casing they are written with.
const (
	AttrType  = "type"
	AttrTitle = "title"
	AttrText  = "text"

	AttrRating          = "rating"
	AttrLimit           = "limit"
	AttrReadArticles    = "readArticles"
	AttrPinnedArticles  = "pinnedArticles"
	AttrViewType        = "viewtype"
	AttrViewModeEnabled = "viewModeEnabled"
	AttrViewMode        = "viewMode"
	AttrAscending       = "ascendingSorting"
	AttrHandlingType    = "handlingType"
	AttrUpdatePeriod    = "updatePeriod"

	AttrXMLURL  = "xmlUrl"
	AttrURL     = "url"
	AttrHTMLURL = "htmlUrl"

	AttrCustomTitle       = "customTitle"
	AttrCustomCreator     = "customCreator"
	AttrCustomDescription = "customDescription"
	AttrTags              = "tags"
	AttrTagsDescription   = "tagsDescription"
	AttrTagsExtended      = "tagsExtended"
	AttrDisabled          = "disabled"

	AttrQueryType  = "queryType"
	AttrQueryParam = "queryParam"
	AttrKeywords   = "keywords"
	AttrQuery      = "query"

	AttrDedupEnabled = "dedupEnabled"
	AttrDedupFrom    = "dedupFrom"
	AttrDedupTo      = "dedupTo"

	AttrIcon                 = "icon"
	AttrPubEnabled           = "pubEnabled"
	AttrPubTitle             = "pubTitle"
	AttrPubTags              = "pubTags"
	AttrPubPublic            = "pubPublic"
	AttrPubRating            = "pubRating"
	AttrAutoFeedsDiscovery   = "autoFeedsDiscovery"
	AttrNotificationsAllowed = "notificationsAllowed"
	AttrMobile               = "mobile"

	AttrReadingListTitle = AttrText
	AttrReadingListURL   = AttrXMLURL
)
