package headless

import (
	"context"
)

// Repository is the read side of the content store
type Repository interface {
	// TypeExists reports whether a post type is registered
	TypeExists(ctx context.Context, postType string) (bool, error)

	// GetItem returns one item by identifier or ErrNotFound
	GetItem(ctx context.Context, id int64) (*ContentItem, error)

	// FindBySlug returns every item with the given leaf slug, type and status,
	// in ascending identifier order
	FindBySlug(ctx context.Context, slug, postType string, status PostStatus) ([]*ContentItem, error)

	// Query executes a listing query
	Query(ctx context.Context, q ArchiveQuery) (*ArchiveResult, error)

	// Taxonomies returns the taxonomies registered for a post type
	Taxonomies(ctx context.Context, postType string) ([]*Taxonomy, error)

	// ItemTerms returns the terms of a taxonomy attached to an item
	ItemTerms(ctx context.Context, id int64, taxonomy string) ([]*Term, error)

	// Option returns a site setting, or "" when unset
	Option(ctx context.Context, name string) (string, error)
}

// NativeFinder is implemented by repositories that can answer a
// slug+type(+locale) lookup directly. Its locale filtering is not trusted.
type NativeFinder interface {
	FindOne(ctx context.Context, q NativeQuery) (*ContentItem, error)
}

// FieldStore serves custom fields attached to items and options pages
type FieldStore interface {
	// Fields returns all custom fields of an item
	Fields(ctx context.Context, id int64) (map[string]interface{}, error)

	// OptionsPages lists the registered options pages
	OptionsPages(ctx context.Context) ([]OptionsPage, error)

	// OptionsFields returns the fields stored under an options page's backing identifier
	OptionsFields(ctx context.Context, postID string) (map[string]interface{}, error)
}

// LocaleService is the translation subsystem
type LocaleService interface {
	// Locales lists the configured locale codes
	Locales(ctx context.Context) ([]string, error)

	// ItemLocale returns the locale of an item, or "" when it has none
	ItemLocale(ctx context.Context, id int64) (string, error)

	// Translation maps an item to its counterpart in locale; 0 when none exists
	Translation(ctx context.Context, id int64, locale string) (int64, error)
}

// SearchProvider answers full-text queries with ranked identifiers
type SearchProvider interface {
	Search(ctx context.Context, term string, types []string, locale string) ([]int64, error)
}

// MediaResolver turns an attachment storage key into a public URL
type MediaResolver interface {
	URL(ctx context.Context, key string) (string, error)
}
