// HTTP API для статей, комментариев и трендовых тем
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ArticleStore interface {
	Articles(ctx context.Context, filter storage.ArticleFilter) ([]model.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (model.Article, error)
}

// Пайплайн генерации, каким его видит API
type ArticleCreator interface {
	Generate(ctx context.Context, topic string) (model.Article, error)
	CreateStub(ctx context.Context, topic string) (model.Article, error)
}

type CommentStore interface {
	AddComment(ctx context.Context, comment model.Comment) (model.Comment, error)
	CommentsByArticle(ctx context.Context, articleID string) ([]model.Comment, error)
}

type TopicSource interface {
	Discover(ctx context.Context) []model.TrendingTopic
}

type IdentityVerifier interface {
	Verify(token string) (model.Identity, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Articles ArticleStore
	Creator  ArticleCreator
	Comments CommentStore
	Topics   TopicSource
	Verifier IdentityVerifier
	// Если nil, /healthz не проверяет базу
	DB Pinger
}

// NewRouter собирает Gin engine со всеми маршрутами
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	RegisterArticleRoutes(r, d.Articles, d.Creator)
	RegisterCommentRoutes(r, d.Comments, d.Verifier)
	RegisterTrendingRoutes(r, d.Topics)
	RegisterHealthRoutes(r, d.DB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// NewServer оборачивает роутер в http.Server с таймаутами
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
