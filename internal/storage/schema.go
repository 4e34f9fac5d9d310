package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Схема создается один раз при старте процесса.
// Уникальность slug и существование статьи для комментария проверяет сама база.
const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id               UUID PRIMARY KEY,
	title            TEXT NOT NULL CHECK (title <> ''),
	slug             TEXT NOT NULL,
	meta_description TEXT NOT NULL DEFAULT '',
	content          TEXT NOT NULL,
	og_image         TEXT,
	media            JSONB NOT NULL DEFAULT '{"images":[],"videos":[],"tweets":[]}',
	tags             TEXT[] NOT NULL DEFAULT '{}',
	author           TEXT NOT NULL DEFAULT 'TrendWise AI',
	published_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	posted_at        TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT articles_slug_key UNIQUE (slug)
);

CREATE INDEX IF NOT EXISTS articles_published_at_idx ON articles (published_at DESC);
CREATE INDEX IF NOT EXISTS articles_not_posted_idx ON articles (published_at) WHERE posted_at IS NULL;

CREATE TABLE IF NOT EXISTS comments (
	id           UUID PRIMARY KEY,
	article_id   UUID NOT NULL REFERENCES articles (id),
	content      TEXT NOT NULL CHECK (content <> ''),
	author_name  TEXT NOT NULL,
	author_email TEXT NOT NULL,
	author_image TEXT NOT NULL DEFAULT '',
	user_id      TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS comments_article_created_idx ON comments (article_id, created_at DESC);
`

func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}
