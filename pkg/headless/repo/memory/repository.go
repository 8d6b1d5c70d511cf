package memory

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tendant/simple-headless/pkg/headless"
)

// Repository implements headless.Repository using in-memory storage. It also
// serves custom fields, locales and search so a complete site can be
// assembled from one value.
type Repository struct {
	mu            sync.RWMutex
	types         map[string]bool
	items         map[int64]*headless.ContentItem
	taxonomies    map[string]*headless.Taxonomy
	itemTerms     map[int64]map[string][]*headless.Term // item id -> taxonomy -> terms
	options       map[string]string
	fields        map[int64]map[string]interface{}
	optionsPages  []headless.OptionsPage
	optionsFields map[string]map[string]interface{} // backing id -> fields
	locales       []string
	itemLocales   map[int64]string
	groups        map[int64]int // item id -> translation group
	nextGroup     int
}

// New creates a new in-memory repository with the page, post and attachment
// types registered.
func New() *Repository {
	return &Repository{
		types: map[string]bool{
			headless.TypePage:       true,
			headless.TypePost:       true,
			headless.TypeAttachment: true,
		},
		items:         make(map[int64]*headless.ContentItem),
		taxonomies:    make(map[string]*headless.Taxonomy),
		itemTerms:     make(map[int64]map[string][]*headless.Term),
		options:       make(map[string]string),
		fields:        make(map[int64]map[string]interface{}),
		optionsFields: make(map[string]map[string]interface{}),
		itemLocales:   make(map[int64]string),
		groups:        make(map[int64]int),
	}
}

// Setup operations

// RegisterType registers a post type
func (r *Repository) RegisterType(postType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[postType] = true
}

// AddItem stores a copy of item, replacing any item with the same ID
func (r *Repository) AddItem(item *headless.ContentItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item.Clone()
	if item.Locale != "" {
		r.itemLocales[item.ID] = item.Locale
	}
}

// RegisterTaxonomy stores a taxonomy
func (r *Repository) RegisterTaxonomy(tax *headless.Taxonomy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	taxCopy := *tax
	r.taxonomies[tax.Name] = &taxCopy
}

// SetTerms attaches terms of one taxonomy to an item
func (r *Repository) SetTerms(id int64, taxonomy string, terms ...*headless.Term) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.itemTerms[id] == nil {
		r.itemTerms[id] = make(map[string][]*headless.Term)
	}
	copies := make([]*headless.Term, 0, len(terms))
	for _, t := range terms {
		termCopy := *t
		termCopy.Taxonomy = taxonomy
		copies = append(copies, &termCopy)
	}
	r.itemTerms[id][taxonomy] = copies
}

// SetOption stores a site setting
func (r *Repository) SetOption(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.options[name] = value
}

// Repository operations

func (r *Repository) TypeExists(ctx context.Context, postType string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[postType], nil
}

func (r *Repository) GetItem(ctx context.Context, id int64) (*headless.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, headless.ErrNotFound
	}
	return item.Clone(), nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug, postType string, status headless.PostStatus) ([]*headless.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*headless.ContentItem
	for _, item := range r.items {
		if item.Slug == slug && item.Type == postType && item.Status == string(status) {
			result = append(result, item.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// FindOne answers a slug lookup directly, honouring the locale
func (r *Repository) FindOne(ctx context.Context, q headless.NativeQuery) (*headless.ContentItem, error) {
	items, err := r.FindBySlug(ctx, q.Slug, q.Type, q.Status)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range items {
		if q.Locale == "" || r.itemLocales[item.ID] == q.Locale {
			return item, nil
		}
	}
	return nil, nil
}

func (r *Repository) Query(ctx context.Context, q headless.ArchiveQuery) (*headless.ArchiveResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make(map[string]bool, len(q.Types))
	for _, t := range q.Types {
		types[t] = true
	}

	var include map[int64]int
	if q.IncludeIDs != nil {
		include = make(map[int64]int, len(q.IncludeIDs))
		for i, id := range q.IncludeIDs {
			if _, seen := include[id]; !seen {
				include[id] = i
			}
		}
	}

	var matches []*headless.ContentItem
	for _, item := range r.items {
		if !types[item.Type] || item.Status != string(q.Status) {
			continue
		}
		if include != nil {
			if _, ok := include[item.ID]; !ok {
				continue
			}
		}
		if q.Locale != "" && r.itemLocales[item.ID] != q.Locale {
			continue
		}
		if q.MetaKey != "" {
			if _, ok := item.Meta[q.MetaKey]; !ok {
				continue
			}
		}
		if q.TaxQuery != nil && !q.TaxQuery.Match(r.termsOf(item.ID)) {
			continue
		}
		matches = append(matches, item)
	}

	sortItems(matches, q, include)

	result := &headless.ArchiveResult{
		Items: []*headless.ContentItem{},
		Found: len(matches),
	}
	offset := q.Offset()
	if offset < 0 || offset >= len(matches) {
		return result, nil
	}
	end := offset + q.PostsPerPage
	if end > len(matches) || end < offset {
		end = len(matches)
	}
	for _, item := range matches[offset:end] {
		result.Items = append(result.Items, item.Clone())
	}
	return result, nil
}

func (r *Repository) termsOf(id int64) func(taxonomy string) []*headless.Term {
	return func(taxonomy string) []*headless.Term {
		return r.itemTerms[id][taxonomy]
	}
}

// sortItems orders items by the query's orderby/order pair. Equal items keep
// ascending ID order.
func sortItems(items []*headless.ContentItem, q headless.ArchiveQuery, include map[int64]int) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})

	switch q.OrderBy {
	case "none":
		return
	case "rand":
		rand.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
		return
	case "post__in":
		sort.SliceStable(items, func(i, j int) bool {
			return include[items[i].ID] < include[items[j].ID]
		})
		return
	}

	desc := q.Order == headless.OrderDesc
	sort.SliceStable(items, func(i, j int) bool {
		c := compareItems(items[i], items[j], q.OrderBy, q.MetaKey)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareItems(a, b *headless.ContentItem, orderby, metaKey string) int {
	switch orderby {
	case "ID":
		return compareInt(a.ID, b.ID)
	case "author":
		return compareInt(a.Author, b.Author)
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "modified":
		return a.Modified.Compare(b.Modified)
	case "parent":
		return compareInt(a.ParentID, b.ParentID)
	case "comment_count":
		return compareInt(int64(a.CommentCount), int64(b.CommentCount))
	case "menu_order":
		return compareInt(int64(a.MenuOrder), int64(b.MenuOrder))
	case "meta_value":
		return strings.Compare(a.Meta[metaKey], b.Meta[metaKey])
	case "meta_value_num":
		x, _ := strconv.ParseFloat(a.Meta[metaKey], 64)
		y, _ := strconv.ParseFloat(b.Meta[metaKey], 64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	default:
		return a.Date.Compare(b.Date)
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *Repository) Taxonomies(ctx context.Context, postType string) ([]*headless.Taxonomy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*headless.Taxonomy
	for _, tax := range r.taxonomies {
		for _, t := range tax.ObjectTypes {
			if t == postType {
				taxCopy := *tax
				result = append(result, &taxCopy)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *Repository) ItemTerms(ctx context.Context, id int64, taxonomy string) ([]*headless.Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	terms := r.itemTerms[id][taxonomy]
	result := make([]*headless.Term, 0, len(terms))
	for _, t := range terms {
		termCopy := *t
		result = append(result, &termCopy)
	}
	return result, nil
}

func (r *Repository) Option(ctx context.Context, name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.options[name], nil
}
