package headless_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tendant/simple-headless/pkg/headless"
	"github.com/tendant/simple-headless/pkg/headless/repo/memory"
)

func newItem(id, parent int64, slug, postType string) *headless.ContentItem {
	return &headless.ContentItem{
		ID:       id,
		Slug:     slug,
		Type:     postType,
		ParentID: parent,
		Status:   string(headless.StatusForTypes(postType)),
		Title:    slug,
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour),
	}
}

// countingRepo records every repository call
type countingRepo struct {
	headless.Repository
	calls atomic.Int32
}

func (r *countingRepo) TypeExists(ctx context.Context, postType string) (bool, error) {
	r.calls.Add(1)
	return r.Repository.TypeExists(ctx, postType)
}

func (r *countingRepo) GetItem(ctx context.Context, id int64) (*headless.ContentItem, error) {
	r.calls.Add(1)
	return r.Repository.GetItem(ctx, id)
}

func (r *countingRepo) FindBySlug(ctx context.Context, slug, postType string, status headless.PostStatus) ([]*headless.ContentItem, error) {
	r.calls.Add(1)
	return r.Repository.FindBySlug(ctx, slug, postType, status)
}

func (r *countingRepo) Query(ctx context.Context, q headless.ArchiveQuery) (*headless.ArchiveResult, error) {
	r.calls.Add(1)
	return r.Repository.Query(ctx, q)
}

func (r *countingRepo) Taxonomies(ctx context.Context, postType string) ([]*headless.Taxonomy, error) {
	r.calls.Add(1)
	return r.Repository.Taxonomies(ctx, postType)
}

func (r *countingRepo) ItemTerms(ctx context.Context, id int64, taxonomy string) ([]*headless.Term, error) {
	r.calls.Add(1)
	return r.Repository.ItemTerms(ctx, id, taxonomy)
}

func (r *countingRepo) Option(ctx context.Context, name string) (string, error) {
	r.calls.Add(1)
	return r.Repository.Option(ctx, name)
}

// scanRepo hides the native finder of the wrapped repository
type scanRepo struct {
	headless.Repository
}

// sloppyFinder answers native lookups while ignoring the requested locale
type sloppyFinder struct {
	*memory.Repository
	found int
}

func (f *sloppyFinder) FindOne(ctx context.Context, q headless.NativeQuery) (*headless.ContentItem, error) {
	f.found++
	items, err := f.FindBySlug(ctx, q.Slug, q.Type, q.Status)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}
