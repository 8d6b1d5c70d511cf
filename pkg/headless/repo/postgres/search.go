package postgres

import (
	"context"

	"github.com/tendant/simple-headless/pkg/headless"
)

// Search ranks items against the generated search_vector column
func (r *Repository) Search(ctx context.Context, term string, types []string, locale string) ([]int64, error) {
	b := &queryBuilder{}
	tsQuery := "websearch_to_tsquery('simple', " + b.arg(term) + ")"
	query := "SELECT i.id FROM item i WHERE i.search_vector @@ " + tsQuery +
		" AND i.post_type = ANY(" + b.arg(types) + ")" +
		" AND i.status = " + b.arg(string(headless.StatusForTypes(types...)))
	if locale != "" {
		query += " AND i.locale = " + b.arg(locale)
	}
	query += " ORDER BY ts_rank(i.search_vector, " + tsQuery + ") DESC, i.id ASC"

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, handlePostgresError("search", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, handlePostgresError("search", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("search", err)
	}
	return ids, nil
}
