package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (r *Repository) Locales(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT code FROM locale ORDER BY position, code`)
	if err != nil {
		return nil, handlePostgresError("list locales", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, handlePostgresError("list locales", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list locales", err)
	}
	return codes, nil
}

func (r *Repository) ItemLocale(ctx context.Context, id int64) (string, error) {
	var locale string
	err := r.db.QueryRow(ctx, `SELECT locale FROM item WHERE id = $1`, id).Scan(&locale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", handlePostgresError("get item locale", err)
	}
	return locale, nil
}

func (r *Repository) Translation(ctx context.Context, id int64, locale string) (int64, error) {
	query := `SELECT t.id FROM item i JOIN item t
			ON t.id = i.id OR (i.translation_group IS NOT NULL AND t.translation_group = i.translation_group)
		WHERE i.id = $1 AND t.locale = $2
		ORDER BY (t.id = i.id) DESC, t.id ASC
		LIMIT 1`

	var translated int64
	err := r.db.QueryRow(ctx, query, id, locale).Scan(&translated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, handlePostgresError("get translation", err)
	}
	return translated, nil
}
