package headless

import (
	"context"
	"fmt"
	"log/slog"
)

// Filters let callers reshape values at fixed points of the pipeline without
// modifying core code. Each named filter is a chain run in registration order;
// an empty chain returns its input unchanged.

// Filter names
const (
	FilterFormatPost               = "format_post"
	FilterFormatPage               = "format_page"
	FilterFormatArchivePost        = "format_archive_post"
	FilterFormatOptions            = "format_options"
	FilterFormatTaxonomy           = "format_taxonomy"
	FilterFormatTerm               = "format_term"
	FilterPostExcludedPostTypes    = "post_excluded_post_types"
	FilterArchiveExcludedPostTypes = "archive_excluded_post_types"
)

// FilterContext carries information through a filter chain
type FilterContext struct {
	Context   context.Context
	Name      string
	Metadata  map[string]interface{} // Custom metadata passed between filters
	StopChain bool                   // Set to true to skip remaining filters
}

// NewFilterContext creates a new filter context
func NewFilterContext(ctx context.Context, name string) *FilterContext {
	return &FilterContext{
		Context:  ctx,
		Name:     name,
		Metadata: make(map[string]interface{}),
	}
}

// Filter transforms a value. It should return a value of the same shape or an
// extension of it.
type Filter func(fctx *FilterContext, value interface{}) (interface{}, error)

// Filters is a registry of named filter chains
type Filters struct {
	chains map[string][]Filter
}

// NewFilters creates an empty registry
func NewFilters() *Filters {
	return &Filters{chains: make(map[string][]Filter)}
}

// Add appends a filter to the named chain
func (f *Filters) Add(name string, filter Filter) *Filters {
	if f.chains == nil {
		f.chains = make(map[string][]Filter)
	}
	f.chains[name] = append(f.chains[name], filter)
	return f
}

// Has reports whether the named chain has any filters
func (f *Filters) Has(name string) bool {
	return f != nil && len(f.chains[name]) > 0
}

// Apply runs the named chain over value
func (f *Filters) Apply(ctx context.Context, name string, value interface{}) (interface{}, error) {
	if !f.Has(name) {
		return value, nil
	}

	fctx := NewFilterContext(ctx, name)
	current := value
	for _, filter := range f.chains[name] {
		next, err := filter(fctx, current)
		if err != nil {
			return nil, err
		}
		current = next
		if fctx.StopChain {
			break
		}
	}
	return current, nil
}

// ExcludedTypes runs an exclusion filter starting from an empty list. The
// result must be a list of strings; anything else fails the request.
func (f *Filters) ExcludedTypes(ctx context.Context, name string) ([]string, error) {
	out, err := f.Apply(ctx, name, []string{})
	if err != nil {
		return nil, err
	}
	types, ok := typeList(out)
	if !ok {
		slog.Error("Exclusion filter returned unexpected value", "filter", name, "type", fmt.Sprintf("%T", out))
		return nil, fmt.Errorf("filter %s returned %T, want a list of post types", name, out)
	}
	return types, nil
}

func typeList(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []string:
		return v, true
	case []interface{}:
		types := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			types = append(types, s)
		}
		return types, true
	}
	return nil, false
}

// Common filter helpers

// ExcludeTypes returns a filter that adds post types to an exclusion list
func ExcludeTypes(types ...string) Filter {
	return func(fctx *FilterContext, value interface{}) (interface{}, error) {
		current, _ := typeList(value)
		out := make([]string, 0, len(current)+len(types))
		out = append(out, current...)
		return append(out, types...), nil
	}
}

// ItemFilter adapts a typed item transform into a Filter. Values that are
// not items pass through untouched.
func ItemFilter(fn func(ctx context.Context, item *ContentItem) (interface{}, error)) Filter {
	return func(fctx *FilterContext, value interface{}) (interface{}, error) {
		item, ok := value.(*ContentItem)
		if !ok {
			return value, nil
		}
		return fn(fctx.Context, item)
	}
}

// TermFilter adapts a typed term transform into a Filter
func TermFilter(fn func(ctx context.Context, term *Term) (interface{}, error)) Filter {
	return func(fctx *FilterContext, value interface{}) (interface{}, error) {
		term, ok := value.(*Term)
		if !ok {
			return value, nil
		}
		return fn(fctx.Context, term)
	}
}
