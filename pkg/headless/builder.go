package headless

import (
	"context"
	"fmt"
	"sort"
)

// ContentBuilder decorates resolved items with custom fields, taxonomy trees
// and media URLs, and assembles the options payload.
type ContentBuilder struct {
	repo    Repository
	fields  FieldStore
	media   MediaResolver
	filters *Filters
}

// NewContentBuilder creates a builder. fields, media and filters may be nil.
func NewContentBuilder(repo Repository, fields FieldStore, media MediaResolver, filters *Filters) *ContentBuilder {
	return &ContentBuilder{
		repo:    repo,
		fields:  fields,
		media:   media,
		filters: filters,
	}
}

// BuildItem returns an enriched copy of item. The input is never modified.
func (b *ContentBuilder) BuildItem(ctx context.Context, item *ContentItem) (*ContentItem, error) {
	out := item.Clone()

	if b.fields != nil {
		acf, err := b.fields.Fields(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get fields of item %d: %w", item.ID, err)
		}
		if acf == nil {
			acf = map[string]interface{}{}
		}
		out.ACF = acf
	}

	taxonomies, err := b.buildTaxonomies(ctx, item)
	if err != nil {
		return nil, err
	}
	out.Taxonomies = taxonomies

	if b.media != nil && item.Type == TypeAttachment && item.AttachedFile != "" {
		url, err := b.media.URL(ctx, item.AttachedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve media of item %d: %w", item.ID, err)
		}
		out.SourceURL = url
	}

	return out, nil
}

func (b *ContentBuilder) buildTaxonomies(ctx context.Context, item *ContentItem) (map[string]TaxonomyEntry, error) {
	taxonomies, err := b.repo.Taxonomies(ctx, item.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to get taxonomies of %s: %w", item.Type, err)
	}

	entries := make(map[string]TaxonomyEntry, len(taxonomies))
	for _, tax := range taxonomies {
		formatted, err := b.filters.Apply(ctx, FilterFormatTaxonomy, tax)
		if err != nil {
			return nil, err
		}

		terms, err := b.repo.ItemTerms(ctx, item.ID, tax.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s terms of item %d: %w", tax.Name, item.ID, err)
		}
		sort.SliceStable(terms, func(i, j int) bool {
			return terms[i].ID < terms[j].ID
		})

		formattedTerms := make([]interface{}, 0, len(terms))
		for _, term := range terms {
			t, err := b.filters.Apply(ctx, FilterFormatTerm, term)
			if err != nil {
				return nil, err
			}
			formattedTerms = append(formattedTerms, t)
		}

		entries[tax.Name] = TaxonomyEntry{
			Taxonomy: formatted,
			Terms:    formattedTerms,
		}
	}
	return entries, nil
}

// BuildOptions collects the fields of every options page keyed by page slug.
// Without a field store the result is an empty object.
func (b *ContentBuilder) BuildOptions(ctx context.Context) (map[string]interface{}, error) {
	options := map[string]interface{}{}
	if b.fields == nil {
		return options, nil
	}

	pages, err := b.fields.OptionsPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list options pages: %w", err)
	}

	acf := make(map[string]interface{}, len(pages))
	for _, page := range pages {
		fields, err := b.fields.OptionsFields(ctx, page.PostID)
		if err != nil {
			return nil, fmt.Errorf("failed to get fields of options page %s: %w", page.Slug, err)
		}
		if fields == nil {
			fields = map[string]interface{}{}
		}
		acf[page.Slug] = fields
	}
	options["acf"] = acf
	return options, nil
}

// Format runs the named formatting chain over an enriched value
func (b *ContentBuilder) Format(ctx context.Context, filter string, value interface{}) (interface{}, error) {
	out, err := b.filters.Apply(ctx, filter, value)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", filter, err)
	}
	return out, nil
}
