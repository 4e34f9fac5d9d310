package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kovalyov-valentin/trendwise/internal/metrics"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

const articleColumns = `id, title, slug, meta_description, content, og_image, media, tags,
	author, published_at, posted_at, created_at, updated_at`

type ArticleSort string

const (
	SortNewest ArticleSort = "newest"
	SortOldest ArticleSort = "oldest"
	SortTitle  ArticleSort = "title"
)

var orderBy = map[ArticleSort]string{
	SortNewest: "published_at DESC, created_at DESC",
	SortOldest: "published_at ASC, created_at ASC",
	SortTitle:  "title ASC, published_at DESC",
}

// ParseSort возвращает SortNewest для пустых и неизвестных значений
func ParseSort(s string) ArticleSort {
	sort := ArticleSort(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := orderBy[sort]; ok {
		return sort
	}

	return SortNewest
}

type ArticleFilter struct {
	// Подстрока без учета регистра в заголовке, тексте или тегах
	Query string
	Sort  ArticleSort
	Limit int
}

// Нужен только для backfill
type ImageResolver interface {
	Resolve(ctx context.Context, topic string) string
}

type ArticlePostgresStorage struct {
	db *sqlx.DB
}

func NewArticleStorage(db *sqlx.DB) *ArticlePostgresStorage {
	return &ArticlePostgresStorage{db: db}
}

// Store сохраняет новую статью. Если slug занят, вернет ErrDuplicateSlug.
func (s *ArticlePostgresStorage) Store(ctx context.Context, article model.Article) (model.Article, error) {
	media, err := json.Marshal(normalizeMedia(article.Media))
	if err != nil {
		return model.Article{}, fmt.Errorf("marshal media: %w", err)
	}

	article.ID = uuid.NewString()
	article.Media = normalizeMedia(article.Media)
	if article.Tags == nil {
		article.Tags = []string{}
	}

	row := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO articles (id, title, slug, meta_description, content, og_image, media, tags, author, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		article.ID,
		article.Title,
		article.Slug,
		article.MetaDescription,
		article.Content,
		article.OgImage,
		media,
		pq.StringArray(article.Tags),
		article.Author,
		article.PublishedAt,
	)

	if err := row.Scan(&article.CreatedAt, &article.UpdatedAt); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return model.Article{}, fmt.Errorf("%w: %s", ErrDuplicateSlug, article.Slug)
		}
		return model.Article{}, fmt.Errorf("insert article: %w", err)
	}

	return article, nil
}

func (s *ArticlePostgresStorage) Articles(ctx context.Context, filter ArticleFilter) ([]model.Article, error) {
	var (
		query strings.Builder
		args  []any
	)

	query.WriteString(`SELECT ` + articleColumns + ` FROM articles`)

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		query.WriteString(` WHERE title ILIKE $1 OR content ILIKE $1
			OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $1)`)
	}

	args = append(args, clampLimit(filter.Limit))
	fmt.Fprintf(&query, ` ORDER BY %s LIMIT $%d`, orderBy[ParseSort(string(filter.Sort))], len(args))

	var rows []dbArticle
	if err := s.db.SelectContext(ctx, &rows, query.String(), args...); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}

	return toArticles(rows)
}

func (s *ArticlePostgresStorage) ArticleBySlug(ctx context.Context, slug string) (model.Article, error) {
	var row dbArticle
	err := s.db.GetContext(ctx, &row, `SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Article{}, ErrArticleNotFound
	}
	if err != nil {
		return model.Article{}, fmt.Errorf("select article %q: %w", slug, err)
	}

	return row.toModel()
}

// LatestPublishedAt возвращает нулевое время, если статей еще нет
func (s *ArticlePostgresStorage) LatestPublishedAt(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	if err := s.db.GetContext(ctx, &latest, `SELECT MAX(published_at) FROM articles`); err != nil {
		return time.Time{}, fmt.Errorf("select latest published_at: %w", err)
	}

	if !latest.Valid {
		return time.Time{}, nil
	}

	return latest.Time, nil
}

// ExistingSlugs возвращает те slug из списка, которые уже заняты
func (s *ArticlePostgresStorage) ExistingSlugs(ctx context.Context, slugs []string) ([]string, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	var existing []string
	if err := s.db.SelectContext(ctx, &existing, `SELECT slug FROM articles WHERE slug = ANY($1)`, pq.Array(slugs)); err != nil {
		return nil, fmt.Errorf("select existing slugs: %w", err)
	}

	return existing, nil
}

// Статьи, которые еще не отправлены в телеграм канал
func (s *ArticlePostgresStorage) AllNotPosted(ctx context.Context, since time.Time, limit uint64) ([]model.Article, error) {
	var rows []dbArticle
	if err := s.db.SelectContext(
		ctx,
		&rows,
		`SELECT `+articleColumns+` FROM articles
		WHERE posted_at IS NULL AND published_at >= $1
		ORDER BY published_at DESC
		LIMIT $2`,
		since.UTC(),
		limit,
	); err != nil {
		return nil, fmt.Errorf("select not posted articles: %w", err)
	}

	return toArticles(rows)
}

func (s *ArticlePostgresStorage) MarkPosted(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(
		ctx,
		`UPDATE articles SET posted_at = $1 WHERE id = $2`,
		time.Now().UTC(),
		id,
	); err != nil {
		return fmt.Errorf("mark article %s posted: %w", id, err)
	}

	return nil
}

// BackfillMissingImages ищет статьи без картинки и подбирает ее по заголовку.
// Повторный запуск ничего не меняет: картинка заполняется только там, где ее нет.
func (s *ArticlePostgresStorage) BackfillMissingImages(ctx context.Context, resolver ImageResolver) (int, error) {
	var missing []struct {
		ID    string `db:"id"`
		Title string `db:"title"`
	}
	if err := s.db.SelectContext(
		ctx,
		&missing,
		`SELECT id, title FROM articles WHERE og_image IS NULL OR og_image = '' ORDER BY published_at`,
	); err != nil {
		return 0, fmt.Errorf("select articles without image: %w", err)
	}

	updated := 0
	for _, a := range missing {
		imageURL := resolver.Resolve(ctx, a.Title)
		if imageURL == "" {
			continue
		}

		res, err := s.db.ExecContext(
			ctx,
			`UPDATE articles SET og_image = $1, updated_at = now()
			WHERE id = $2 AND (og_image IS NULL OR og_image = '')`,
			imageURL,
			a.ID,
		)
		if err != nil {
			return updated, fmt.Errorf("update image of article %s: %w", a.ID, err)
		}

		if n, err := res.RowsAffected(); err == nil && n > 0 {
			updated++
			metrics.ImagesBackfilled.Inc()
			slog.Info("backfilled article image", "article_id", a.ID, "title", a.Title)
		}
	}

	return updated, nil
}

// Внутренняя модель для маппинга на колонки таблицы
type dbArticle struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Slug            string         `db:"slug"`
	MetaDescription string         `db:"meta_description"`
	Content         string         `db:"content"`
	OgImage         sql.NullString `db:"og_image"`
	Media           []byte         `db:"media"`
	Tags            pq.StringArray `db:"tags"`
	Author          string         `db:"author"`
	PublishedAt     time.Time      `db:"published_at"`
	PostedAt        sql.NullTime   `db:"posted_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (a dbArticle) toModel() (model.Article, error) {
	var media model.Media
	if len(a.Media) > 0 {
		if err := json.Unmarshal(a.Media, &media); err != nil {
			return model.Article{}, fmt.Errorf("unmarshal media of article %s: %w", a.ID, err)
		}
	}

	article := model.Article{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		MetaDescription: a.MetaDescription,
		Content:         a.Content,
		OgImage:         a.OgImage.String,
		Media:           normalizeMedia(media),
		Tags:            []string(a.Tags),
		Author:          a.Author,
		PublishedAt:     a.PublishedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}
	if a.PostedAt.Valid {
		article.PostedAt = &a.PostedAt.Time
	}

	return article, nil
}

func toArticles(rows []dbArticle) ([]model.Article, error) {
	articles := make([]model.Article, 0, len(rows))
	for _, row := range rows {
		article, err := row.toModel()
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func normalizeMedia(m model.Media) model.Media {
	return model.Media{
		Images: lo.Ternary(m.Images == nil, []string{}, m.Images),
		Videos: lo.Ternary(m.Videos == nil, []string{}, m.Videos),
		Tweets: lo.Ternary(m.Tweets == nil, []string{}, m.Tweets),
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
