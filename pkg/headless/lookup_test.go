package headless_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-headless/pkg/headless"
	"github.com/tendant/simple-headless/pkg/headless/repo/memory"
)

func translatedPosts() *memory.Repository {
	repo := memory.New()
	repo.AddItem(newItem(10, 0, "hello", headless.TypePost))
	repo.AddItem(newItem(11, 0, "hello", headless.TypePost))
	repo.SetItemLocale(10, "en")
	repo.SetItemLocale(11, "fi")
	repo.SetLocales("en", "fi")

	draft := newItem(12, 0, "draft", headless.TypePost)
	draft.Status = string(headless.PostStatusDraft)
	repo.AddItem(draft)

	repo.AddItem(newItem(13, 0, "logo", headless.TypeAttachment))
	return repo
}

func TestContentLookup_Native(t *testing.T) {
	repo := translatedPosts()
	lookup := headless.NewContentLookup(repo, repo)
	ctx := context.Background()

	item, err := lookup.Lookup(ctx, "hello", headless.TypePost)
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.ID)

	item, err = lookup.Lookup(headless.WithLocale(ctx, "fi"), "Hello", headless.TypePost)
	require.NoError(t, err)
	assert.Equal(t, int64(11), item.ID)

	item, err = lookup.Lookup(ctx, "logo", headless.TypeAttachment)
	require.NoError(t, err)
	assert.Equal(t, int64(13), item.ID)
}

func TestContentLookup_NonASCIISlug(t *testing.T) {
	repo := memory.New()
	repo.AddItem(newItem(1, 0, "iti", headless.TypePost))
	repo.AddItem(newItem(2, 0, "%c3%a4iti", headless.TypePost))
	ctx := context.Background()

	for _, lookup := range []*headless.ContentLookup{
		headless.NewContentLookup(repo, nil),
		headless.NewContentLookup(scanRepo{repo}, nil),
	} {
		item, err := lookup.Lookup(ctx, "äiti", headless.TypePost)
		require.NoError(t, err)
		assert.Equal(t, int64(2), item.ID)

		item, err = lookup.Lookup(ctx, "%C3%A4iti", headless.TypePost)
		require.NoError(t, err)
		assert.Equal(t, int64(2), item.ID)
	}
}

func TestContentLookup_NotFound(t *testing.T) {
	repo := translatedPosts()
	lookup := headless.NewContentLookup(repo, repo)
	ctx := context.Background()

	_, err := lookup.Lookup(ctx, "draft", headless.TypePost)
	require.Error(t, err)
	assert.True(t, errors.Is(err, headless.ErrNotFound))
	assert.Equal(t, "System didn't find post with post_type 'post' and slug 'draft'", err.Error())

	_, err = lookup.Lookup(ctx, "hello", headless.TypePage)
	assert.True(t, errors.Is(err, headless.ErrNotFound))
}

func TestContentLookup_NativeResultIsCrossChecked(t *testing.T) {
	finder := &sloppyFinder{Repository: translatedPosts()}
	lookup := headless.NewContentLookup(finder, finder)

	_, err := lookup.Lookup(headless.WithLocale(context.Background(), "fi"), "hello", headless.TypePost)
	require.Error(t, err)
	assert.Equal(t, 1, finder.found)
	assert.True(t, errors.Is(err, headless.ErrNotFound))
	assert.Equal(t, "System didn't find post with post_type 'post' and slug 'hello' in language 'fi'", err.Error())

	item, err := lookup.Lookup(headless.WithLocale(context.Background(), "en"), "hello", headless.TypePost)
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.ID)
}

func TestContentLookup_ScanFallback(t *testing.T) {
	repo := translatedPosts()
	lookup := headless.NewContentLookup(scanRepo{repo}, repo)
	ctx := context.Background()

	_, native := interface{}(scanRepo{repo}).(headless.NativeFinder)
	require.False(t, native)

	item, err := lookup.Lookup(headless.WithLocale(ctx, "fi"), "hello", headless.TypePost)
	require.NoError(t, err)
	assert.Equal(t, int64(11), item.ID)

	item, err = lookup.Lookup(ctx, "hello", headless.TypePost)
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.ID)

	_, err = lookup.Lookup(ctx, "missing", headless.TypePost)
	assert.True(t, errors.Is(err, headless.ErrNotFound))
}

func TestContentLookup_LocaleCheckUnsupported(t *testing.T) {
	lookup := headless.NewContentLookup(translatedPosts(), nil)

	_, err := lookup.Lookup(headless.WithLocale(context.Background(), "fi"), "hello", headless.TypePost)
	require.Error(t, err)
	assert.True(t, errors.Is(err, headless.ErrLocaleCheckUnsupported))
	assert.Equal(t, "System cannot check language", err.Error())
}
