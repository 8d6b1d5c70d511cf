package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-headless/pkg/headless"
)

func baseQuery() headless.ArchiveQuery {
	return headless.ArchiveQuery{
		Types:        []string{"post"},
		Status:       headless.PostStatusPublish,
		PostsPerPage: 10,
		Paged:        2,
		OrderBy:      headless.DefaultOrderBy,
		Order:        headless.DefaultOrder,
	}
}

func TestBuildArchiveQuery_Defaults(t *testing.T) {
	built := buildArchiveQuery(baseQuery())

	assert.Equal(t, "SELECT COUNT(*) FROM item i WHERE i.post_type = ANY($1) AND i.status = $2", built.countSQL)
	assert.Equal(t, []interface{}{[]string{"post"}, "publish"}, built.countArgs)

	assert.Contains(t, built.selectSQL, "ORDER BY i.created_at DESC NULLS LAST, i.id ASC LIMIT $3 OFFSET $4")
	assert.Equal(t, []interface{}{[]string{"post"}, "publish", 10, 10}, built.selectArgs)
}

func TestBuildArchiveQuery_HugePageOffset(t *testing.T) {
	q := baseQuery()
	q.PostsPerPage = headless.MaxPageSize
	q.Paged = 100000000000000001

	built := buildArchiveQuery(q)
	offset := built.selectArgs[len(built.selectArgs)-1].(int)
	assert.GreaterOrEqual(t, offset, 0)
}

func TestBuildArchiveQuery_MetaOrder(t *testing.T) {
	q := baseQuery()
	q.OrderBy = "meta_value_num"
	q.Order = headless.OrderAsc
	q.MetaKey = "price"

	built := buildArchiveQuery(q)
	assert.Contains(t, built.countSQL, "JOIN item_meta m ON m.item_id = i.id AND m.meta_key = $1")
	assert.Equal(t, "price", built.countArgs[0])
	assert.Contains(t, built.selectSQL, "m.meta_value::NUMERIC END) ASC NULLS LAST")
}

func TestBuildArchiveQuery_IncludeAndLocale(t *testing.T) {
	q := baseQuery()
	q.OrderBy = "post__in"
	q.IncludeIDs = []int64{7, 3}
	q.Locale = "fi"

	built := buildArchiveQuery(q)
	assert.Contains(t, built.countSQL, "i.id = ANY($3) AND i.locale = $4")
	assert.Len(t, built.countArgs, 4)
	assert.Contains(t, built.selectSQL, "ORDER BY array_position($5::BIGINT[], i.id) ASC, i.id ASC LIMIT $6 OFFSET $7")
	assert.Len(t, built.selectArgs, 7)
}

func TestBuildArchiveQuery_OrderBy(t *testing.T) {
	tests := []struct {
		orderby string
		order   string
		want    string
	}{
		{"ID", headless.OrderAsc, "ORDER BY i.id ASC LIMIT"},
		{"title", headless.OrderDesc, "ORDER BY i.title DESC NULLS LAST, i.id ASC"},
		{"menu_order", headless.OrderAsc, "ORDER BY i.menu_order ASC NULLS LAST, i.id ASC"},
		{"rand", headless.OrderAsc, "ORDER BY random()"},
		{"none", headless.OrderDesc, "ORDER BY i.id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.orderby, func(t *testing.T) {
			q := baseQuery()
			q.OrderBy = tt.orderby
			q.Order = tt.order
			assert.Contains(t, buildArchiveQuery(q).selectSQL, tt.want)
		})
	}
}

func TestBuildArchiveQuery_TaxQuery(t *testing.T) {
	tq, err := headless.DecodeTaxQuery(`{
		"relation": "OR",
		"clauses": [
			{"taxonomy": "category", "field": "slug", "terms": ["news", "events"], "operator": "AND"},
			{"taxonomy": "post_tag", "terms": [4, 5], "operator": "NOT IN"},
			{"taxonomy": "series", "operator": "EXISTS"}
		]
	}`)
	require.NoError(t, err)

	q := baseQuery()
	q.TaxQuery = tq
	built := buildArchiveQuery(q)

	assert.Contains(t, built.countSQL, "(SELECT COUNT(DISTINCT t.slug) FROM item_term it")
	assert.Contains(t, built.countSQL, "t.slug = ANY($4)) = 2")
	assert.Contains(t, built.countSQL, " OR NOT EXISTS (")
	assert.Contains(t, built.countSQL, "t.id = ANY($6)")
	assert.Contains(t, built.countSQL, " OR EXISTS (")
	assert.Equal(t, 1, strings.Count(built.countSQL, " WHERE i.post_type"))

	assert.Equal(t, "category", built.countArgs[2])
	assert.Equal(t, []string{"news", "events"}, built.countArgs[3])
	assert.Equal(t, []int64{4, 5}, built.countArgs[5])
	assert.Equal(t, "series", built.countArgs[6])
}
