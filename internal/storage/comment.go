package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/samber/lo"
)

type CommentPostgresStorage struct {
	db *sqlx.DB
}

func NewCommentStorage(db *sqlx.DB) *CommentPostgresStorage {
	return &CommentPostgresStorage{db: db}
}

// AddComment сохраняет комментарий. Существование статьи проверяет внешний ключ,
// поэтому вставка к несуществующей статье ничего не пишет и возвращает ErrArticleNotFound.
func (s *CommentPostgresStorage) AddComment(ctx context.Context, comment model.Comment) (model.Comment, error) {
	if _, err := uuid.Parse(comment.ArticleID); err != nil {
		return model.Comment{}, ErrArticleNotFound
	}

	comment.ID = uuid.NewString()

	row := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO comments (id, article_id, content, author_name, author_email, author_image, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		comment.ID,
		comment.ArticleID,
		comment.Content,
		comment.Author.Name,
		comment.Author.Email,
		comment.Author.Image,
		sql.NullString{String: comment.UserID, Valid: comment.UserID != ""},
	)

	if err := row.Scan(&comment.CreatedAt, &comment.UpdatedAt); err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation, pgInvalidTextRepr:
			return model.Comment{}, ErrArticleNotFound
		}
		return model.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	return comment, nil
}

// Комментарии к статье, новые первыми
func (s *CommentPostgresStorage) CommentsByArticle(ctx context.Context, articleID string) ([]model.Comment, error) {
	if _, err := uuid.Parse(articleID); err != nil {
		return []model.Comment{}, nil
	}

	var rows []dbComment
	if err := s.db.SelectContext(
		ctx,
		&rows,
		`SELECT id, article_id, content, author_name, author_email, author_image, user_id, created_at, updated_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC`,
		articleID,
	); err != nil {
		return nil, fmt.Errorf("select comments of article %s: %w", articleID, err)
	}

	return lo.Map(rows, func(row dbComment, _ int) model.Comment {
		return row.toModel()
	}), nil
}

type dbComment struct {
	ID          string         `db:"id"`
	ArticleID   string         `db:"article_id"`
	Content     string         `db:"content"`
	AuthorName  string         `db:"author_name"`
	AuthorEmail string         `db:"author_email"`
	AuthorImage string         `db:"author_image"`
	UserID      sql.NullString `db:"user_id"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (c dbComment) toModel() model.Comment {
	return model.Comment{
		ID:      c.ID,
		Content: c.Content,
		Author: model.CommentAuthor{
			Name:  c.AuthorName,
			Email: c.AuthorEmail,
			Image: c.AuthorImage,
		},
		ArticleID: c.ArticleID,
		UserID:    c.UserID.String,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
