package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-headless/pkg/headless"
	"github.com/tendant/simple-headless/pkg/headless/repo/memory"
)

func post(id int64, slug string, date time.Time) *headless.ContentItem {
	return &headless.ContentItem{
		ID:     id,
		Slug:   slug,
		Type:   headless.TypePost,
		Status: string(headless.PostStatusPublish),
		Title:  slug,
		Date:   date,
	}
}

func TestMemoryRepository_ItemOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	repo.AddItem(post(3, "hello", base))
	repo.AddItem(post(1, "hello", base))
	repo.AddItem(&headless.ContentItem{ID: 2, Slug: "hello", Type: headless.TypePost, Status: "draft"})

	t.Run("GetItem", func(t *testing.T) {
		item, err := repo.GetItem(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "hello", item.Slug)

		item.Slug = "changed"
		again, err := repo.GetItem(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "hello", again.Slug)
	})

	t.Run("GetItemNotFound", func(t *testing.T) {
		_, err := repo.GetItem(ctx, 99)
		assert.ErrorIs(t, err, headless.ErrNotFound)
	})

	t.Run("FindBySlug", func(t *testing.T) {
		items, err := repo.FindBySlug(ctx, "hello", headless.TypePost, headless.PostStatusPublish)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, int64(3), items[1].ID)
	})

	t.Run("TypeExists", func(t *testing.T) {
		ok, err := repo.TypeExists(ctx, headless.TypePage)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.TypeExists(ctx, "product")
		require.NoError(t, err)
		assert.False(t, ok)

		repo.RegisterType("product")
		ok, _ = repo.TypeExists(ctx, "product")
		assert.True(t, ok)
	})

	t.Run("FindOneHonoursLocale", func(t *testing.T) {
		repo.SetItemLocale(1, "en")
		repo.SetItemLocale(3, "fi")

		item, err := repo.FindOne(ctx, headless.NativeQuery{Slug: "hello", Type: headless.TypePost, Status: headless.PostStatusPublish, Locale: "fi"})
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, int64(3), item.ID)

		item, err = repo.FindOne(ctx, headless.NativeQuery{Slug: "hello", Type: headless.TypePost, Status: headless.PostStatusPublish, Locale: "sv"})
		require.NoError(t, err)
		assert.Nil(t, item)
	})
}

func TestMemoryRepository_Query(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 5; i++ {
		item := post(i, "post", base.Add(time.Duration(i)*time.Hour))
		item.Meta = map[string]string{"price": []string{"", "30", "4", "100", "2", "7"}[i]}
		repo.AddItem(item)
	}
	repo.RegisterTaxonomy(&headless.Taxonomy{Name: "category", ObjectTypes: []string{headless.TypePost}})
	repo.SetTerms(1, "category", &headless.Term{ID: 10, Slug: "news", Name: "News"})
	repo.SetTerms(2, "category", &headless.Term{ID: 11, Slug: "events", Name: "Events"})
	repo.SetTerms(3, "category", &headless.Term{ID: 10, Slug: "news", Name: "News"}, &headless.Term{ID: 11, Slug: "events", Name: "Events"})

	query := func(mod func(q *headless.ArchiveQuery)) *headless.ArchiveResult {
		q := headless.ArchiveQuery{
			Types:        []string{headless.TypePost},
			Status:       headless.PostStatusPublish,
			PostsPerPage: 10,
			Paged:        1,
			OrderBy:      headless.DefaultOrderBy,
			Order:        headless.DefaultOrder,
		}
		if mod != nil {
			mod(&q)
		}
		result, err := repo.Query(ctx, q)
		require.NoError(t, err)
		return result
	}

	ids := func(result *headless.ArchiveResult) []int64 {
		var out []int64
		for _, item := range result.Items {
			out = append(out, item.ID)
		}
		return out
	}

	t.Run("DefaultDateDesc", func(t *testing.T) {
		result := query(nil)
		assert.Equal(t, 5, result.Found)
		assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids(result))
	})

	t.Run("Pagination", func(t *testing.T) {
		result := query(func(q *headless.ArchiveQuery) {
			q.PostsPerPage = 2
			q.Paged = 2
		})
		assert.Equal(t, 5, result.Found)
		assert.Equal(t, []int64{3, 2}, ids(result))

		result = query(func(q *headless.ArchiveQuery) {
			q.PostsPerPage = 2
			q.Paged = 4
		})
		assert.Equal(t, 5, result.Found)
		assert.Empty(t, result.Items)
	})

	t.Run("MetaValueNum", func(t *testing.T) {
		result := query(func(q *headless.ArchiveQuery) {
			q.OrderBy = "meta_value_num"
			q.Order = headless.OrderAsc
			q.MetaKey = "price"
		})
		assert.Equal(t, []int64{4, 2, 5, 1, 3}, ids(result))
	})

	t.Run("MetaValueString", func(t *testing.T) {
		result := query(func(q *headless.ArchiveQuery) {
			q.OrderBy = "meta_value"
			q.Order = headless.OrderAsc
			q.MetaKey = "price"
		})
		assert.Equal(t, []int64{3, 4, 1, 2, 5}, ids(result))
	})

	t.Run("PostIn", func(t *testing.T) {
		result := query(func(q *headless.ArchiveQuery) {
			q.OrderBy = "post__in"
			q.IncludeIDs = []int64{4, 1, 3}
		})
		assert.Equal(t, 3, result.Found)
		assert.Equal(t, []int64{4, 1, 3}, ids(result))
	})

	t.Run("TaxQuery", func(t *testing.T) {
		tq, err := headless.DecodeTaxQuery(`{"relation":"AND","clauses":[{"taxonomy":"category","field":"slug","terms":["news"]},{"taxonomy":"category","terms":[11]}]}`)
		require.NoError(t, err)

		result := query(func(q *headless.ArchiveQuery) {
			q.TaxQuery = tq
		})
		assert.Equal(t, []int64{3}, ids(result))
	})

	t.Run("Locale", func(t *testing.T) {
		repo.SetItemLocale(2, "fi")
		result := query(func(q *headless.ArchiveQuery) {
			q.Locale = "fi"
		})
		assert.Equal(t, []int64{2}, ids(result))
	})
}

func TestMemoryRepository_Taxonomies(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	repo.RegisterTaxonomy(&headless.Taxonomy{Name: "tag", ObjectTypes: []string{headless.TypePost}})
	repo.RegisterTaxonomy(&headless.Taxonomy{Name: "category", ObjectTypes: []string{headless.TypePost, headless.TypePage}})
	repo.SetTerms(1, "tag", &headless.Term{ID: 3, Slug: "go"})

	taxonomies, err := repo.Taxonomies(ctx, headless.TypePost)
	require.NoError(t, err)
	require.Len(t, taxonomies, 2)
	assert.Equal(t, "category", taxonomies[0].Name)
	assert.Equal(t, "tag", taxonomies[1].Name)

	terms, err := repo.ItemTerms(ctx, 1, "tag")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "tag", terms[0].Taxonomy)

	terms, err = repo.ItemTerms(ctx, 1, "category")
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestMemoryRepository_Fields(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	repo.SetFields(1, map[string]interface{}{"subtitle": "Hi"})
	repo.AddOptionsPage(headless.OptionsPage{Slug: "footer", PostID: "options_footer"}, map[string]interface{}{"text": "Default"})
	repo.SetOptionsFields("options_footer_fi", map[string]interface{}{"text": "Oletus"})

	fields, err := repo.Fields(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Hi", fields["subtitle"])

	fields, err = repo.Fields(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, fields)

	pages, err := repo.OptionsPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	fields, err = repo.OptionsFields(ctx, "options_footer")
	require.NoError(t, err)
	assert.Equal(t, "Default", fields["text"])

	fields, err = repo.OptionsFields(headless.WithLocale(ctx, "fi"), "options_footer")
	require.NoError(t, err)
	assert.Equal(t, "Oletus", fields["text"])

	fields, err = repo.OptionsFields(headless.WithLocale(ctx, "sv"), "options_footer")
	require.NoError(t, err)
	assert.Equal(t, "Default", fields["text"])
}

func TestMemoryRepository_Locales(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	repo.SetLocales("en", "fi")
	repo.SetItemLocale(1, "en")
	repo.SetItemLocale(2, "fi")
	repo.SetItemLocale(3, "en")
	repo.LinkTranslations(1, 2)

	locales, err := repo.Locales(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fi"}, locales)

	id, err := repo.Translation(ctx, 1, "fi")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	id, err = repo.Translation(ctx, 1, "en")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = repo.Translation(ctx, 3, "fi")
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
}

func TestMemoryRepository_Search(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	repo.AddItem(&headless.ContentItem{ID: 1, Type: headless.TypePost, Status: "publish", Title: "Other", Content: "gopher"})
	repo.AddItem(&headless.ContentItem{ID: 2, Type: headless.TypePost, Status: "publish", Title: "Gopher news"})
	repo.AddItem(&headless.ContentItem{ID: 3, Type: headless.TypePost, Status: "draft", Title: "Gopher draft"})
	repo.AddItem(&headless.ContentItem{ID: 4, Type: headless.TypePage, Status: "publish", Title: "Gopher page"})

	ids, err := repo.Search(ctx, "Gopher", []string{headless.TypePost}, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids)

	ids, err = repo.Search(ctx, "missing", []string{headless.TypePost}, "")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
