package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tendant/simple-headless/pkg/headless"
)

// orderColumns maps orderby values to SQL expressions
var orderColumns = map[string]string{
	"ID":             "i.id",
	"author":         "i.author",
	"title":          "i.title",
	"date":           "i.created_at",
	"modified":       "i.modified_at",
	"parent":         "i.parent_id",
	"comment_count":  "i.comment_count",
	"menu_order":     "i.menu_order",
	"meta_value":     "m.meta_value",
	"meta_value_num": `(CASE WHEN m.meta_value ~ '^-?[0-9]+(\.[0-9]+)?$' THEN m.meta_value::NUMERIC END)`,
}

type archiveSQL struct {
	countSQL   string
	countArgs  []interface{}
	selectSQL  string
	selectArgs []interface{}
}

// queryBuilder accumulates positional arguments
type queryBuilder struct {
	args []interface{}
}

func (b *queryBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// buildArchiveQuery renders the count and page queries for an archive query
func buildArchiveQuery(q headless.ArchiveQuery) archiveSQL {
	b := &queryBuilder{}

	from := "FROM item i"
	if q.MetaKey != "" {
		from += " JOIN item_meta m ON m.item_id = i.id AND m.meta_key = " + b.arg(q.MetaKey)
	}

	conditions := []string{
		"i.post_type = ANY(" + b.arg(q.Types) + ")",
		"i.status = " + b.arg(string(q.Status)),
	}
	if q.IncludeIDs != nil {
		conditions = append(conditions, "i.id = ANY("+b.arg(q.IncludeIDs)+")")
	}
	if q.Locale != "" {
		conditions = append(conditions, "i.locale = "+b.arg(q.Locale))
	}
	if q.TaxQuery != nil {
		conditions = append(conditions, b.taxClause(q.TaxQuery))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	out := archiveSQL{
		countSQL:  "SELECT COUNT(*) " + from + where,
		countArgs: append([]interface{}(nil), b.args...),
	}

	order := b.orderClause(q)
	limit := fmt.Sprintf(" LIMIT %s OFFSET %s", b.arg(q.PostsPerPage), b.arg(q.Offset()))
	out.selectSQL = "SELECT " + itemColumns + " " + from + where + " ORDER BY " + order + limit
	out.selectArgs = b.args
	return out
}

func (b *queryBuilder) orderClause(q headless.ArchiveQuery) string {
	switch q.OrderBy {
	case "none":
		return "i.id ASC"
	case "rand":
		return "random()"
	case "post__in":
		if len(q.IncludeIDs) == 0 {
			return "i.id ASC"
		}
		return "array_position(" + b.arg(q.IncludeIDs) + "::BIGINT[], i.id) ASC, i.id ASC"
	}

	column, ok := orderColumns[q.OrderBy]
	if !ok {
		column = orderColumns[headless.DefaultOrderBy]
	}
	direction := "DESC"
	if q.Order == headless.OrderAsc {
		direction = "ASC"
	}
	if column == "i.id" {
		return column + " " + direction
	}
	return column + " " + direction + " NULLS LAST, i.id ASC"
}

// taxClause renders a taxonomy query node as a boolean SQL expression
func (b *queryBuilder) taxClause(tq *headless.TaxQuery) string {
	if tq.IsGroup() {
		parts := make([]string, 0, len(tq.Clauses))
		for _, c := range tq.Clauses {
			parts = append(parts, b.taxClause(c))
		}
		joiner := " AND "
		if tq.Relation == headless.RelationOr {
			joiner = " OR "
		}
		return "(" + strings.Join(parts, joiner) + ")"
	}

	base := "SELECT 1 FROM item_term it JOIN term t ON t.id = it.term_id WHERE it.item_id = i.id AND t.taxonomy = " + b.arg(tq.Taxonomy)

	switch tq.Operator {
	case headless.TaxOperatorExists:
		return "EXISTS (" + base + ")"
	case headless.TaxOperatorNotExists:
		return "NOT EXISTS (" + base + ")"
	}

	match := b.termMatch(tq)
	switch tq.Operator {
	case headless.TaxOperatorNotIn:
		return "NOT EXISTS (" + base + " AND " + match + ")"
	case headless.TaxOperatorAnd:
		column := termColumn(tq.Field)
		countQuery := strings.Replace(base, "SELECT 1", "SELECT COUNT(DISTINCT "+column+")", 1)
		return "(" + countQuery + " AND " + match + ") = " + strconv.Itoa(distinctCount(tq.Terms))
	default:
		return "EXISTS (" + base + " AND " + match + ")"
	}
}

func (b *queryBuilder) termMatch(tq *headless.TaxQuery) string {
	if tq.Field == headless.TermFieldID {
		ids := make([]int64, 0, len(tq.Terms))
		for _, t := range tq.Terms {
			id, _ := strconv.ParseInt(t, 10, 64)
			ids = append(ids, id)
		}
		return "t.id = ANY(" + b.arg(ids) + ")"
	}
	return termColumn(tq.Field) + " = ANY(" + b.arg(tq.Terms) + ")"
}

func termColumn(field string) string {
	switch field {
	case headless.TermFieldSlug:
		return "t.slug"
	case headless.TermFieldName:
		return "t.name"
	default:
		return "t.id"
	}
}

func distinctCount(terms []string) int {
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		seen[t] = true
	}
	return len(seen)
}
