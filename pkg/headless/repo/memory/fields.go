package memory

import (
	"context"
	"sort"

	"github.com/tendant/simple-headless/pkg/headless"
)

// SetFields stores the custom fields of an item
func (r *Repository) SetFields(id int64, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[id] = copyFields(fields)
}

// AddOptionsPage registers an options page and stores its fields under the
// page's backing identifier.
func (r *Repository) AddOptionsPage(page headless.OptionsPage, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.optionsPages = append(r.optionsPages, page)
	if fields != nil {
		r.optionsFields[page.PostID] = copyFields(fields)
	}
}

// SetOptionsFields stores fields under a backing identifier. Locale-specific
// copies use the key "<post_id>_<lang>".
func (r *Repository) SetOptionsFields(postID string, fields map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.optionsFields[postID] = copyFields(fields)
}

func (r *Repository) Fields(ctx context.Context, id int64) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyFields(r.fields[id]), nil
}

func (r *Repository) OptionsPages(ctx context.Context) ([]headless.OptionsPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pages := make([]headless.OptionsPage, len(r.optionsPages))
	copy(pages, r.optionsPages)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Slug < pages[j].Slug
	})
	return pages, nil
}

// OptionsFields prefers the copy stored for the locale carried by ctx
func (r *Repository) OptionsFields(ctx context.Context, postID string) (map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if lang := headless.LocaleFromContext(ctx); lang != "" {
		if fields, ok := r.optionsFields[postID+"_"+lang]; ok {
			return copyFields(fields), nil
		}
	}
	return copyFields(r.optionsFields[postID]), nil
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
