package storage

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateSlug   = errors.New("article with this slug already exists")
	ErrArticleNotFound = errors.New("article not found")
)

// Коды ошибок postgres, которые мы превращаем в свои
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

func pgErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}
