package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-headless/pkg/headless"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements headless.Repository using PostgreSQL. The same value
// serves as field store, locale service and search provider.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		case "42703": // undefined_column
			return fmt.Errorf("column %s does not exist - database migration required", pgErr.ColumnName)
		case "57014": // query_canceled
			return fmt.Errorf("%s canceled: %w", operation, err)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return headless.ErrNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const itemColumns = `i.id, i.slug, i.post_type, i.parent_id, i.status, i.title, i.content, i.excerpt,
	i.author, i.created_at, i.modified_at, i.menu_order, i.comment_count, i.mime_type, i.locale, i.attached_file`

func scanItem(row pgx.Row) (*headless.ContentItem, error) {
	var item headless.ContentItem
	err := row.Scan(
		&item.ID, &item.Slug, &item.Type, &item.ParentID, &item.Status, &item.Title, &item.Content, &item.Excerpt,
		&item.Author, &item.Date, &item.Modified, &item.MenuOrder, &item.CommentCount, &item.MimeType, &item.Locale,
		&item.AttachedFile)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func collectItems(rows pgx.Rows) ([]*headless.ContentItem, error) {
	defer rows.Close()

	var items []*headless.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Repository operations

func (r *Repository) TypeExists(ctx context.Context, postType string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM post_type WHERE name = $1)`, postType).Scan(&exists)
	if err != nil {
		return false, handlePostgresError("type exists", err)
	}
	return exists, nil
}

func (r *Repository) GetItem(ctx context.Context, id int64) (*headless.ContentItem, error) {
	query := `SELECT ` + itemColumns + ` FROM item i WHERE i.id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, handlePostgresError("get item", err)
	}
	return item, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug, postType string, status headless.PostStatus) ([]*headless.ContentItem, error) {
	query := `SELECT ` + itemColumns + ` FROM item i
		WHERE i.slug = $1 AND i.post_type = $2 AND i.status = $3
		ORDER BY i.id ASC`

	rows, err := r.db.Query(ctx, query, slug, postType, string(status))
	if err != nil {
		return nil, handlePostgresError("find by slug", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, handlePostgresError("find by slug", err)
	}
	return items, nil
}

// FindOne answers a slug lookup with a single query filtered by locale
func (r *Repository) FindOne(ctx context.Context, q headless.NativeQuery) (*headless.ContentItem, error) {
	query := `SELECT ` + itemColumns + ` FROM item i
		WHERE i.slug = $1 AND i.post_type = $2 AND i.status = $3`
	args := []interface{}{q.Slug, q.Type, string(q.Status)}
	if q.Locale != "" {
		query += ` AND i.locale = $4`
		args = append(args, q.Locale)
	}
	query += ` ORDER BY i.id ASC LIMIT 1`

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, handlePostgresError("find one", err)
	}
	return item, nil
}

func (r *Repository) Query(ctx context.Context, q headless.ArchiveQuery) (*headless.ArchiveResult, error) {
	built := buildArchiveQuery(q)

	var found int
	if err := r.db.QueryRow(ctx, built.countSQL, built.countArgs...).Scan(&found); err != nil {
		return nil, handlePostgresError("count archive", err)
	}

	result := &headless.ArchiveResult{
		Items: []*headless.ContentItem{},
		Found: found,
	}
	if found <= q.Offset() {
		return result, nil
	}

	rows, err := r.db.Query(ctx, built.selectSQL, built.selectArgs...)
	if err != nil {
		return nil, handlePostgresError("query archive", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, handlePostgresError("query archive", err)
	}
	if items != nil {
		result.Items = items
	}
	return result, nil
}

func (r *Repository) Taxonomies(ctx context.Context, postType string) ([]*headless.Taxonomy, error) {
	query := `SELECT name, label, description, hierarchical, public, object_types
		FROM taxonomy WHERE $1 = ANY(object_types) ORDER BY name`

	rows, err := r.db.Query(ctx, query, postType)
	if err != nil {
		return nil, handlePostgresError("list taxonomies", err)
	}
	defer rows.Close()

	var taxonomies []*headless.Taxonomy
	for rows.Next() {
		var tax headless.Taxonomy
		if err := rows.Scan(&tax.Name, &tax.Label, &tax.Description, &tax.Hierarchical, &tax.Public, &tax.ObjectTypes); err != nil {
			return nil, handlePostgresError("list taxonomies", err)
		}
		taxonomies = append(taxonomies, &tax)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list taxonomies", err)
	}
	return taxonomies, nil
}

func (r *Repository) ItemTerms(ctx context.Context, id int64, taxonomy string) ([]*headless.Term, error) {
	query := `SELECT t.id, t.name, t.slug, t.taxonomy, t.parent, t.description, t.count
		FROM term t JOIN item_term it ON it.term_id = t.id
		WHERE it.item_id = $1 AND t.taxonomy = $2
		ORDER BY t.id`

	rows, err := r.db.Query(ctx, query, id, taxonomy)
	if err != nil {
		return nil, handlePostgresError("list item terms", err)
	}
	defer rows.Close()

	terms := []*headless.Term{}
	for rows.Next() {
		var term headless.Term
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &term.Taxonomy, &term.Parent, &term.Description, &term.Count); err != nil {
			return nil, handlePostgresError("list item terms", err)
		}
		terms = append(terms, &term)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list item terms", err)
	}
	return terms, nil
}

func (r *Repository) Option(ctx context.Context, name string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM site_option WHERE name = $1`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", handlePostgresError("get option", err)
	}
	return value, nil
}
