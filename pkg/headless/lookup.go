package headless

import (
	"context"
	"errors"
	"fmt"
)

// ContentLookup resolves a (slug, type) pair, plus the locale carried by the
// context, to a single item.
type ContentLookup struct {
	repo    Repository
	locales LocaleService
}

// NewContentLookup creates a lookup. locales may be nil.
func NewContentLookup(repo Repository, locales LocaleService) *ContentLookup {
	return &ContentLookup{
		repo:    repo,
		locales: locales,
	}
}

// Lookup prefers the repository's native finder when it has one. The native
// result is always re-checked against the requested locale. Repositories
// without a native finder are scanned by slug instead.
func (l *ContentLookup) Lookup(ctx context.Context, slug, postType string) (*ContentItem, error) {
	lang := LocaleFromContext(ctx)
	if lang != "" && l.locales == nil {
		return nil, newRequestError(ErrLocaleCheckUnsupported, "lang", "System cannot check language")
	}

	status := StatusForTypes(postType)
	slug = NormalizeSlug(slug)

	var (
		item *ContentItem
		err  error
	)
	if finder, ok := l.repo.(NativeFinder); ok {
		item, err = l.native(ctx, finder, NativeQuery{Slug: slug, Type: postType, Status: status, Locale: lang})
	} else {
		item, err = l.scan(ctx, slug, postType, status)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, l.notFound(postType, slug, lang)
		}
		return nil, err
	}
	return item, nil
}

func (l *ContentLookup) native(ctx context.Context, finder NativeFinder, q NativeQuery) (*ContentItem, error) {
	item, err := finder.FindOne(ctx, q)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if q.Locale == "" {
		return item, nil
	}

	itemLang, err := l.locales.ItemLocale(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get language of item %d: %w", item.ID, err)
	}
	if itemLang != q.Locale {
		return nil, ErrNotFound
	}
	return item, nil
}

func (l *ContentLookup) scan(ctx context.Context, slug, postType string, status PostStatus) (*ContentItem, error) {
	candidates, err := l.repo.FindBySlug(ctx, slug, postType, status)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s '%s': %w", postType, slug, err)
	}
	if len(candidates) == 0 {
		return nil, ErrNotFound
	}
	return selectByLocale(ctx, l.locales, candidates)
}

func (l *ContentLookup) notFound(postType, slug, lang string) error {
	if lang != "" {
		return newRequestError(ErrNotFound, "slug",
			"System didn't find post with post_type '%s' and slug '%s' in language '%s'", postType, slug, lang)
	}
	return newRequestError(ErrNotFound, "slug",
		"System didn't find post with post_type '%s' and slug '%s'", postType, slug)
}
