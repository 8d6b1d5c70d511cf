package headless

import (
	"math"
	"time"
)

// PostStatus is the publication state of a content item
type PostStatus string

const (
	PostStatusPublish PostStatus = "publish"
	PostStatusDraft   PostStatus = "draft"
	PostStatusPending PostStatus = "pending"
	PostStatusPrivate PostStatus = "private"
	PostStatusInherit PostStatus = "inherit"
)

// Well-known post types
const (
	TypePage       = "page"
	TypePost       = "post"
	TypeAttachment = "attachment"
)

// Order directions
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Default ordering applied when orderby/order are omitted
const (
	DefaultOrderBy = "date"
	DefaultOrder   = OrderDesc
)

// Page size bounds
const (
	MinPageSize = 1
	MaxPageSize = 100
)

// FrontPageOption is the site setting holding the front page identifier
const FrontPageOption = "page_on_front"

// StatusForTypes returns the status implied by the requested types:
// inherit when attachments are requested, publish otherwise.
func StatusForTypes(types ...string) PostStatus {
	for _, t := range types {
		if t == TypeAttachment {
			return PostStatusInherit
		}
	}
	return PostStatusPublish
}

// ContentItem is a read-only projection of one piece of content.
// ParentID 0 marks a root item.
type ContentItem struct {
	ID           int64     `json:"ID"`
	Slug         string    `json:"post_name"`
	Type         string    `json:"post_type"`
	ParentID     int64     `json:"post_parent"`
	Status       string    `json:"post_status"`
	Title        string    `json:"post_title"`
	Content      string    `json:"post_content"`
	Excerpt      string    `json:"post_excerpt"`
	Author       int64     `json:"post_author"`
	Date         time.Time `json:"post_date"`
	Modified     time.Time `json:"post_modified"`
	MenuOrder    int       `json:"menu_order"`
	CommentCount int       `json:"comment_count"`
	MimeType     string    `json:"post_mime_type,omitempty"`
	Locale       string    `json:"lang,omitempty"`
	SourceURL    string    `json:"source_url,omitempty"`

	// ACF holds custom fields; nil when no field store is configured
	ACF        interface{}              `json:"acf,omitempty"`
	Taxonomies map[string]TaxonomyEntry `json:"taxonomies"`

	// AttachedFile is the storage key of an attachment's file
	AttachedFile string `json:"-"`
	// Meta holds raw meta values used for meta ordering
	Meta map[string]string `json:"-"`
}

// Clone returns a copy that shares no maps with the receiver
func (c *ContentItem) Clone() *ContentItem {
	cp := *c
	if c.Meta != nil {
		cp.Meta = make(map[string]string, len(c.Meta))
		for k, v := range c.Meta {
			cp.Meta[k] = v
		}
	}
	cp.ACF = nil
	cp.Taxonomies = nil
	return &cp
}

// Taxonomy describes a classification scheme
type Taxonomy struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Description  string   `json:"description"`
	Hierarchical bool     `json:"hierarchical"`
	Public       bool     `json:"public"`
	ObjectTypes  []string `json:"object_type"`
}

// Term is a single value within a taxonomy
type Term struct {
	ID          int64  `json:"term_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Parent      int64  `json:"parent"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// TaxonomyEntry is a formatted taxonomy together with the item's formatted terms
type TaxonomyEntry struct {
	Taxonomy interface{}   `json:"taxonomy"`
	Terms    []interface{} `json:"terms"`
}

// OptionsPage is a registered custom-fields options page
type OptionsPage struct {
	Slug   string `json:"menu_slug"`
	Title  string `json:"page_title"`
	PostID string `json:"post_id"`
}

// ArchiveQuery is a validated listing query
type ArchiveQuery struct {
	Types        []string
	Status       PostStatus
	PostsPerPage int
	Paged        int
	OrderBy      string
	Order        string
	MetaKey      string
	TaxQuery     *TaxQuery
	Search       string
	// IncludeIDs restricts results to these identifiers, in ranking order
	IncludeIDs []int64
	Locale     string
}

// Offset returns the number of items skipped before the requested page.
// Pages beyond the addressable range saturate at math.MaxInt.
func (q ArchiveQuery) Offset() int {
	if q.Paged <= 1 || q.PostsPerPage <= 0 {
		return 0
	}
	if q.Paged-1 > math.MaxInt/q.PostsPerPage {
		return math.MaxInt
	}
	return (q.Paged - 1) * q.PostsPerPage
}

// ArchiveResult is one page of matches plus the total match count
type ArchiveResult struct {
	Items []*ContentItem
	Found int
}

// ArchiveResponse is the /archive payload
type ArchiveResponse struct {
	FoundPosts int           `json:"found_posts"`
	Posts      []interface{} `json:"posts"`
}

// NativeQuery is a slug lookup answered by the repository's own query path
type NativeQuery struct {
	Slug   string
	Type   string
	Status PostStatus
	Locale string
}
