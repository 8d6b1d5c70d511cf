package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/tendant/simple-headless/pkg/headless"
)

func (r *Repository) Fields(ctx context.Context, id int64) (map[string]interface{}, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT fields::TEXT FROM item_field WHERE item_id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, handlePostgresError("get fields", err)
	}
	return decodeFields(raw)
}

func (r *Repository) OptionsPages(ctx context.Context) ([]headless.OptionsPage, error) {
	rows, err := r.db.Query(ctx, `SELECT slug, title, post_id FROM options_page ORDER BY slug`)
	if err != nil {
		return nil, handlePostgresError("list options pages", err)
	}
	defer rows.Close()

	var pages []headless.OptionsPage
	for rows.Next() {
		var page headless.OptionsPage
		if err := rows.Scan(&page.Slug, &page.Title, &page.PostID); err != nil {
			return nil, handlePostgresError("list options pages", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list options pages", err)
	}
	return pages, nil
}

// OptionsFields prefers the copy stored as "<post_id>_<lang>" for the locale
// carried by ctx.
func (r *Repository) OptionsFields(ctx context.Context, postID string) (map[string]interface{}, error) {
	query := `SELECT fields::TEXT FROM options_field WHERE post_id = $1`
	args := []interface{}{postID}
	if lang := headless.LocaleFromContext(ctx); lang != "" {
		query = `SELECT fields::TEXT FROM options_field WHERE post_id IN ($1, $2)
			ORDER BY (post_id = $2) DESC LIMIT 1`
		args = append(args, postID+"_"+lang)
	}

	var raw []byte
	if err := r.db.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, handlePostgresError("get options fields", err)
	}
	return decodeFields(raw)
}

func decodeFields(raw []byte) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields: %w", err)
	}
	return fields, nil
}
