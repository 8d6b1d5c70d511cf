package postgres

import (
	"context"
)

// Schema creates the tables read by Repository. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS post_type (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS item (
	id                BIGINT PRIMARY KEY,
	slug              TEXT NOT NULL,
	post_type         TEXT NOT NULL,
	parent_id         BIGINT NOT NULL DEFAULT 0,
	status            TEXT NOT NULL,
	title             TEXT NOT NULL DEFAULT '',
	content           TEXT NOT NULL DEFAULT '',
	excerpt           TEXT NOT NULL DEFAULT '',
	author            BIGINT NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	modified_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	menu_order        INT NOT NULL DEFAULT 0,
	comment_count     INT NOT NULL DEFAULT 0,
	mime_type         TEXT NOT NULL DEFAULT '',
	attached_file     TEXT NOT NULL DEFAULT '',
	locale            TEXT NOT NULL DEFAULT '',
	translation_group BIGINT,
	search_vector     TSVECTOR GENERATED ALWAYS AS (
		setweight(to_tsvector('simple', title), 'A') ||
		setweight(to_tsvector('simple', excerpt || ' ' || content), 'B')
	) STORED
);

CREATE INDEX IF NOT EXISTS item_slug_idx ON item (slug, post_type, status);
CREATE INDEX IF NOT EXISTS item_search_idx ON item USING GIN (search_vector);

CREATE TABLE IF NOT EXISTS item_meta (
	item_id    BIGINT NOT NULL REFERENCES item (id) ON DELETE CASCADE,
	meta_key   TEXT NOT NULL,
	meta_value TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (item_id, meta_key)
);

CREATE TABLE IF NOT EXISTS taxonomy (
	name         TEXT PRIMARY KEY,
	label        TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	hierarchical BOOLEAN NOT NULL DEFAULT FALSE,
	public       BOOLEAN NOT NULL DEFAULT TRUE,
	object_types TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS term (
	id          BIGINT PRIMARY KEY,
	taxonomy    TEXT NOT NULL REFERENCES taxonomy (name),
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL,
	parent      BIGINT NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	count       INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS item_term (
	item_id BIGINT NOT NULL REFERENCES item (id) ON DELETE CASCADE,
	term_id BIGINT NOT NULL REFERENCES term (id) ON DELETE CASCADE,
	PRIMARY KEY (item_id, term_id)
);

CREATE TABLE IF NOT EXISTS site_option (
	name  TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS item_field (
	item_id BIGINT PRIMARY KEY REFERENCES item (id) ON DELETE CASCADE,
	fields  JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS options_page (
	slug    TEXT PRIMARY KEY,
	title   TEXT NOT NULL DEFAULT '',
	post_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS options_field (
	post_id TEXT PRIMARY KEY,
	fields  JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS locale (
	code     TEXT PRIMARY KEY,
	position INT NOT NULL DEFAULT 0
);
`

// Migrate applies Schema
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return handlePostgresError("migrate", err)
	}
	return nil
}
