package headless

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// maxPathDepth bounds the ancestor walk
const maxPathDepth = 64

var errBrokenAncestry = errors.New("broken ancestry")

// NormalizePath decodes a request path, re-encodes unsafe characters and
// sanitizes every segment into a slug token. Empty segments are dropped.
func NormalizePath(raw string) []string {
	encoded := strings.ReplaceAll(reencode(raw), "%2F", "/")

	var segments []string
	for _, part := range strings.Split(strings.Trim(encoded, "/"), "/") {
		if slug := SanitizeSlug(part); slug != "" {
			segments = append(segments, slug)
		}
	}
	return segments
}

// JoinPath normalizes raw and joins the segments with "/"
func JoinPath(raw string) string {
	return strings.Join(NormalizePath(raw), "/")
}

// NormalizeSlug decodes raw, percent-encodes every byte outside the
// unreserved set and sanitizes the result. "äiti" becomes "%c3%a4iti".
func NormalizeSlug(raw string) string {
	return SanitizeSlug(reencode(raw))
}

// reencode decodes raw and encodes it again in RFC 3986 form with spaces
// left literal
func reencode(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return strings.ReplaceAll(rawURLEncode(decoded), "%20", " ")
}

// SanitizeSlug lowercases s, keeps percent-encoded octets, turns spaces and
// dots into dashes and drops everything outside [a-z0-9_-].
func SanitizeSlug(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				b.WriteString(s[i : i+3])
				i += 2
			}
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteByte(c)
		case c == '.', c == ' ', c == '\t', c == '\n':
			b.WriteByte('-')
		}
	}

	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-")
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// rawURLEncode escapes everything except unreserved characters (RFC 3986)
func rawURLEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

// PathResolver resolves hierarchical paths to a single content item
type PathResolver struct {
	repo    Repository
	locales LocaleService
}

// NewPathResolver creates a resolver. locales may be nil.
func NewPathResolver(repo Repository, locales LocaleService) *PathResolver {
	return &PathResolver{
		repo:    repo,
		locales: locales,
	}
}

// Resolve returns the item of postType whose full path equals path, honouring
// the locale carried by ctx. An empty path resolves to the front page.
func (p *PathResolver) Resolve(ctx context.Context, path, postType string) (*ContentItem, error) {
	segments := NormalizePath(path)
	if len(segments) == 0 {
		return p.FrontPage(ctx)
	}

	want := strings.Join(segments, "/")
	leaf := segments[len(segments)-1]

	candidates, err := p.repo.FindBySlug(ctx, leaf, postType, StatusForTypes(postType))
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates for %s: %w", want, err)
	}

	var matches []*ContentItem
	for _, candidate := range candidates {
		full, err := p.BuildPath(ctx, candidate)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, errBrokenAncestry) {
				slog.Warn("Skipping candidate with broken ancestry", "id", candidate.ID, "error", err)
				continue
			}
			return nil, err
		}
		if JoinPath(full) == want {
			matches = append(matches, candidate)
		}
	}

	if len(matches) == 0 {
		return nil, newRequestError(ErrNotFound, "path", "Didn't find page with path '%s'", path)
	}

	item, err := selectByLocale(ctx, p.locales, matches)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newRequestError(ErrNotFound, "path", "Didn't find page with path '%s' in language '%s'",
				path, LocaleFromContext(ctx))
		}
		return nil, err
	}
	return item, nil
}

// BuildPath walks the parent chain of item and returns the slash-joined slugs
// from the root ancestor down to item.
func (p *PathResolver) BuildPath(ctx context.Context, item *ContentItem) (string, error) {
	slugs := []string{item.Slug}
	visited := map[int64]bool{item.ID: true}

	for parent := item.ParentID; parent != 0; {
		if len(slugs) >= maxPathDepth {
			return "", fmt.Errorf("%w: item %d deeper than %d levels", errBrokenAncestry, item.ID, maxPathDepth)
		}
		if visited[parent] {
			return "", fmt.Errorf("%w: cycle at item %d", errBrokenAncestry, parent)
		}
		visited[parent] = true

		ancestor, err := p.repo.GetItem(ctx, parent)
		if err != nil {
			return "", err
		}
		slugs = append(slugs, ancestor.Slug)
		parent = ancestor.ParentID
	}

	for i, j := 0, len(slugs)-1; i < j; i, j = i+1, j-1 {
		slugs[i], slugs[j] = slugs[j], slugs[i]
	}
	return strings.Join(slugs, "/"), nil
}

// FrontPage returns the configured front page, translated into the locale
// carried by ctx when a locale service is present.
func (p *PathResolver) FrontPage(ctx context.Context) (*ContentItem, error) {
	raw, err := p.repo.Option(ctx, FrontPageOption)
	if err != nil {
		return nil, fmt.Errorf("failed to read front page setting: %w", err)
	}

	id, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if id <= 0 {
		return nil, newRequestError(ErrFrontPageNotConfigured, "", "Homepage not set in reading settings")
	}

	if lang := LocaleFromContext(ctx); lang != "" && p.locales != nil {
		translated, err := p.locales.Translation(ctx, id, lang)
		if err != nil {
			return nil, fmt.Errorf("failed to translate front page: %w", err)
		}
		if translated == 0 {
			return nil, newRequestError(ErrFrontPageNotConfigured, "", "Homepage not set in reading settings for language '%s'", lang)
		}
		id = translated
	}

	item, err := p.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newRequestError(ErrNotFound, "path", "Didn't find front page %d", id)
		}
		return nil, err
	}
	return item, nil
}

// selectByLocale picks the lowest-identifier item in the requested locale, or
// the lowest-identifier item when no locale is requested.
func selectByLocale(ctx context.Context, locales LocaleService, items []*ContentItem) (*ContentItem, error) {
	sorted := make([]*ContentItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	lang := LocaleFromContext(ctx)
	if lang == "" {
		return sorted[0], nil
	}
	if locales == nil {
		return nil, newRequestError(ErrLocaleCheckUnsupported, "lang", "System cannot check language")
	}

	for _, item := range sorted {
		itemLang, err := locales.ItemLocale(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get language of item %d: %w", item.ID, err)
		}
		if itemLang == lang {
			return item, nil
		}
	}
	return nil, ErrNotFound
}
