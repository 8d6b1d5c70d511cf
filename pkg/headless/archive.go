package headless

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// ArchiveRequest holds the raw /archive parameters
type ArchiveRequest struct {
	PostTypes    []string
	PostsPerPage string
	Paged        string
	OrderBy      string
	Order        string
	MetaKey      string
	Search       string
	TaxQuery     string
	Lang         string
}

// ParseArchiveRequest reads an ArchiveRequest from query parameters.
// post_type may be repeated or given as a comma-separated list.
func ParseArchiveRequest(params url.Values) (ArchiveRequest, error) {
	if err := Validate(params, "post_type", "posts_per_page", "paged"); err != nil {
		return ArchiveRequest{}, err
	}

	var types []string
	for _, v := range params["post_type"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}

	return ArchiveRequest{
		PostTypes:    types,
		PostsPerPage: params.Get("posts_per_page"),
		Paged:        params.Get("paged"),
		OrderBy:      strings.TrimSpace(params.Get("orderby")),
		Order:        strings.TrimSpace(params.Get("order")),
		MetaKey:      strings.TrimSpace(params.Get("meta_key")),
		Search:       strings.TrimSpace(params.Get("s")),
		TaxQuery:     strings.TrimSpace(params.Get("tax_query")),
		Lang:         strings.TrimSpace(params.Get("lang")),
	}, nil
}

// ArchiveQueryBuilder turns an ArchiveRequest into a validated ArchiveQuery
// and executes it.
type ArchiveQueryBuilder struct {
	repo    Repository
	locales LocaleService
	search  SearchProvider
	filters *Filters
}

// NewArchiveQueryBuilder creates a builder. locales, search and filters may be nil.
func NewArchiveQueryBuilder(repo Repository, locales LocaleService, search SearchProvider, filters *Filters) *ArchiveQueryBuilder {
	return &ArchiveQueryBuilder{
		repo:    repo,
		locales: locales,
		search:  search,
		filters: filters,
	}
}

// Build validates req and returns the query together with a context scoped to
// the requested locale. Every parameter check runs before the first
// repository call.
func (b *ArchiveQueryBuilder) Build(ctx context.Context, req ArchiveRequest) (context.Context, *ArchiveQuery, error) {
	if len(req.PostTypes) == 0 {
		return ctx, nil, newRequestError(ErrMissingParameter, "post_type", "post_type not specified in GET-params")
	}

	excluded, err := b.filters.ExcludedTypes(ctx, FilterArchiveExcludedPostTypes)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to apply %s: %w", FilterArchiveExcludedPostTypes, err)
	}
	for _, t := range req.PostTypes {
		if err := CheckExcluded(t, excluded); err != nil {
			return ctx, nil, err
		}
	}

	q := &ArchiveQuery{
		Types:   req.PostTypes,
		Status:  StatusForTypes(req.PostTypes...),
		OrderBy: DefaultOrderBy,
		Order:   DefaultOrder,
		MetaKey: req.MetaKey,
		Search:  req.Search,
	}

	if q.PostsPerPage, err = ParsePageSize(req.PostsPerPage); err != nil {
		return ctx, nil, err
	}
	if q.Paged, err = ParsePageNumber(req.Paged); err != nil {
		return ctx, nil, err
	}

	if err := b.applyOrder(q, req.OrderBy, req.Order); err != nil {
		return ctx, nil, err
	}

	if req.TaxQuery != "" {
		if q.TaxQuery, err = DecodeTaxQuery(req.TaxQuery); err != nil {
			return ctx, nil, err
		}
	}

	if q.Search != "" && b.search == nil {
		return ctx, nil, newRequestError(ErrSearchUnavailable, "s", "Search is not available")
	}

	ctx, err = SetLocale(ctx, b.locales, req.Lang)
	if err != nil {
		return ctx, nil, err
	}
	q.Locale = LocaleFromContext(ctx)

	for _, t := range q.Types {
		if err := ValidateType(ctx, b.repo, t, nil); err != nil {
			return ctx, nil, err
		}
	}
	return ctx, q, nil
}

func (b *ArchiveQueryBuilder) applyOrder(q *ArchiveQuery, orderby, order string) error {
	switch {
	case orderby == "" && order == "":
	case orderby == "" || order == "":
		return newRequestError(ErrIncompleteOrderSpec, "orderby", "orderby and order need to be specified together")
	default:
		if err := ValidateOrderBy(orderby); err != nil {
			return err
		}
		direction, err := ValidateOrderDirection(order)
		if err != nil {
			return err
		}
		q.OrderBy = orderby
		q.Order = direction
	}

	if IsMetaOrder(q.OrderBy) && q.MetaKey == "" {
		return newRequestError(ErrMissingMetaKey, "meta_key", "meta_key needs to be specified when ordering by %s", q.OrderBy)
	}
	return nil
}

// Execute runs the search, when requested, and then the listing query.
// A search without hits yields an empty result without querying the repository.
func (b *ArchiveQueryBuilder) Execute(ctx context.Context, q *ArchiveQuery) (*ArchiveResult, error) {
	if q.Search != "" {
		ids, err := b.search.Search(ctx, q.Search, q.Types, q.Locale)
		if err != nil {
			return nil, fmt.Errorf("failed to search for %q: %w", q.Search, err)
		}
		slog.Debug("Search resolved", "term", q.Search, "hits", len(ids))
		if len(ids) == 0 {
			return &ArchiveResult{Items: []*ContentItem{}}, nil
		}
		q.IncludeIDs = ids
	}

	result, err := b.repo.Query(ctx, *q)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	return result, nil
}
