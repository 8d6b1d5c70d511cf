package headless

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTaxQuery_Leaf(t *testing.T) {
	q, err := DecodeTaxQuery(`{"taxonomy":"category","terms":[5,"7"]}`)
	require.NoError(t, err)
	assert.False(t, q.IsGroup())
	assert.Equal(t, "category", q.Taxonomy)
	assert.Equal(t, TermFieldID, q.Field)
	assert.Equal(t, TaxOperatorIn, q.Operator)
	assert.Equal(t, []string{"5", "7"}, q.Terms)
}

func TestDecodeTaxQuery_TopLevelArray(t *testing.T) {
	q, err := DecodeTaxQuery(`[
		{"taxonomy":"category","field":"slug","terms":"news"},
		{"taxonomy":"post_tag","operator":"not in","terms":[3]}
	]`)
	require.NoError(t, err)
	require.True(t, q.IsGroup())
	assert.Equal(t, RelationAnd, q.Relation)
	require.Len(t, q.Clauses, 2)
	assert.Equal(t, []string{"news"}, q.Clauses[0].Terms)
	assert.Equal(t, TaxOperatorNotIn, q.Clauses[1].Operator)
}

func TestDecodeTaxQuery_NestedGroup(t *testing.T) {
	q, err := DecodeTaxQuery(`{"relation":"or","clauses":[
		{"taxonomy":"category","terms":[1]},
		{"relation":"AND","clauses":[
			{"taxonomy":"post_tag","field":"name","terms":["Go"]},
			{"taxonomy":"series","operator":"EXISTS"}
		]}
	]}`)
	require.NoError(t, err)
	assert.Equal(t, RelationOr, q.Relation)
	require.Len(t, q.Clauses, 2)
	inner := q.Clauses[1]
	assert.Equal(t, RelationAnd, inner.Relation)
	assert.Equal(t, TaxOperatorExists, inner.Clauses[1].Operator)
	assert.Empty(t, inner.Clauses[1].Terms)
}

func TestDecodeTaxQuery_Errors(t *testing.T) {
	deep := `{"taxonomy":"category","terms":[1]}`
	for i := 0; i < 10; i++ {
		deep = `{"clauses":[` + deep + `]}`
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{taxonomy`},
		{"empty group", `[]`},
		{"missing taxonomy", `{"terms":[1]}`},
		{"missing terms", `{"taxonomy":"category"}`},
		{"bad operator", `{"taxonomy":"category","operator":"LIKE","terms":[1]}`},
		{"bad relation", `{"relation":"XOR","clauses":[{"taxonomy":"category","terms":[1]}]}`},
		{"bad field", `{"taxonomy":"category","field":"color","terms":[1]}`},
		{"non numeric id", `{"taxonomy":"category","terms":["news"]}`},
		{"object term", `{"taxonomy":"category","terms":[{"id":1}]}`},
		{"group and clause", `{"taxonomy":"category","clauses":[{"taxonomy":"tag","terms":[1]}]}`},
		{"too deep", deep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTaxQuery(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTaxonomyQuery))
			assert.True(t, strings.HasPrefix(err.Error(), "tax_query is malformed"), err.Error())
		})
	}
}

func TestDecodeTaxQuery_MaxDepth(t *testing.T) {
	q := `{"taxonomy":"category","terms":[1]}`
	for i := 0; i < 9; i++ {
		q = `{"clauses":[` + q + `]}`
	}
	_, err := DecodeTaxQuery(q)
	assert.NoError(t, err)
}

func TestTaxQuery_Match(t *testing.T) {
	terms := map[string][]*Term{
		"category": {{ID: 1, Slug: "news", Name: "News"}, {ID: 2, Slug: "sport", Name: "Sport"}},
		"post_tag": {{ID: 9, Slug: "go", Name: "Go"}},
	}
	termsOf := func(taxonomy string) []*Term { return terms[taxonomy] }

	tests := []struct {
		raw  string
		want bool
	}{
		{`{"taxonomy":"category","terms":[1]}`, true},
		{`{"taxonomy":"category","terms":[3]}`, false},
		{`{"taxonomy":"category","operator":"AND","terms":[1,2]}`, true},
		{`{"taxonomy":"category","operator":"AND","terms":[1,3]}`, false},
		{`{"taxonomy":"category","operator":"NOT IN","terms":[3]}`, true},
		{`{"taxonomy":"category","field":"slug","terms":["sport"]}`, true},
		{`{"taxonomy":"post_tag","field":"name","terms":["Go"]}`, true},
		{`{"taxonomy":"series","operator":"EXISTS"}`, false},
		{`{"taxonomy":"series","operator":"NOT EXISTS"}`, true},
		{`[{"taxonomy":"category","terms":[1]},{"taxonomy":"post_tag","terms":[10]}]`, false},
		{`{"relation":"OR","clauses":[{"taxonomy":"category","terms":[7]},{"taxonomy":"post_tag","terms":[9]}]}`, true},
	}

	for _, tt := range tests {
		q, err := DecodeTaxQuery(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, q.Match(termsOf), tt.raw)
	}
}
