package headless

import (
	"context"
	"fmt"
	"log/slog"
)

// service implements the Service interface
type service struct {
	repository Repository
	fields     FieldStore
	locales    LocaleService
	search     SearchProvider
	media      MediaResolver
	filters    *Filters

	resolver *PathResolver
	lookup   *ContentLookup
	archive  *ArchiveQueryBuilder
	builder  *ContentBuilder
}

// Option configures the service
type Option func(*service)

// WithRepository sets the content repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithFieldStore sets the custom-fields store
func WithFieldStore(fields FieldStore) Option {
	return func(s *service) {
		s.fields = fields
	}
}

// WithLocaleService enables locale support
func WithLocaleService(locales LocaleService) Option {
	return func(s *service) {
		s.locales = locales
	}
}

// WithSearchProvider enables full-text search on archives
func WithSearchProvider(search SearchProvider) Option {
	return func(s *service) {
		s.search = search
	}
}

// WithMediaResolver sets the resolver for attachment URLs
func WithMediaResolver(media MediaResolver) Option {
	return func(s *service) {
		s.media = media
	}
}

// WithFilters sets the filter registry
func WithFilters(filters *Filters) Option {
	return func(s *service) {
		s.filters = filters
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.filters == nil {
		s.filters = NewFilters()
	}

	s.resolver = NewPathResolver(s.repository, s.locales)
	s.lookup = NewContentLookup(s.repository, s.locales)
	s.archive = NewArchiveQueryBuilder(s.repository, s.locales, s.search, s.filters)
	s.builder = NewContentBuilder(s.repository, s.fields, s.media, s.filters)

	return s, nil
}

func (s *service) GetPage(ctx context.Context, req PageRequest) (interface{}, error) {
	ctx, err := SetLocale(ctx, s.locales, req.Lang)
	if err != nil {
		return nil, err
	}

	item, err := s.resolver.Resolve(ctx, req.Path, TypePage)
	if err != nil {
		return nil, err
	}
	slog.Debug("Page resolved", "path", req.Path, "id", item.ID, "lang", req.Lang)

	return s.buildAndFormat(ctx, item, FilterFormatPage)
}

func (s *service) GetPost(ctx context.Context, req PostRequest) (interface{}, error) {
	excluded, err := s.filters.ExcludedTypes(ctx, FilterPostExcludedPostTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", FilterPostExcludedPostTypes, err)
	}
	if err := CheckExcluded(req.PostType, excluded); err != nil {
		return nil, err
	}

	ctx, err = SetLocale(ctx, s.locales, req.Lang)
	if err != nil {
		return nil, err
	}

	if err := ValidateType(ctx, s.repository, req.PostType, nil); err != nil {
		return nil, err
	}

	item, err := s.lookup.Lookup(ctx, req.Slug, req.PostType)
	if err != nil {
		return nil, err
	}
	slog.Debug("Post resolved", "slug", req.Slug, "post_type", req.PostType, "id", item.ID)

	return s.buildAndFormat(ctx, item, FilterFormatPost)
}

func (s *service) GetArchive(ctx context.Context, req ArchiveRequest) (*ArchiveResponse, error) {
	ctx, q, err := s.archive.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := s.archive.Execute(ctx, q)
	if err != nil {
		return nil, err
	}

	posts := make([]interface{}, 0, len(result.Items))
	for _, item := range result.Items {
		post, err := s.buildAndFormat(ctx, item, FilterFormatArchivePost)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return &ArchiveResponse{
		FoundPosts: result.Found,
		Posts:      posts,
	}, nil
}

func (s *service) GetOptions(ctx context.Context, req OptionsRequest) (interface{}, error) {
	ctx, err := SetLocale(ctx, s.locales, req.Lang)
	if err != nil {
		return nil, err
	}

	options, err := s.builder.BuildOptions(ctx)
	if err != nil {
		return nil, err
	}
	return s.builder.Format(ctx, FilterFormatOptions, options)
}

func (s *service) buildAndFormat(ctx context.Context, item *ContentItem, filter string) (interface{}, error) {
	built, err := s.builder.BuildItem(ctx, item)
	if err != nil {
		return nil, err
	}
	return s.builder.Format(ctx, filter, built)
}
