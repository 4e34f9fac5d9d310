package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/storage"
)

type CreateArticleRequest struct {
	Topic           string `json:"topic"`
	GenerateContent bool   `json:"generateContent"`
}

type articlesController struct {
	store   ArticleStore
	creator ArticleCreator
}

func RegisterArticleRoutes(r *gin.Engine, store ArticleStore, creator ArticleCreator) {
	ctl := &articlesController{store: store, creator: creator}

	r.GET("/articles", ctl.list)
	r.POST("/articles", ctl.create)
	r.GET("/articles/:slug", ctl.bySlug)
}

func (a *articlesController) list(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = storage.DefaultLimit
	}

	articles, err := a.store.Articles(c.Request.Context(), storage.ArticleFilter{
		Query: strings.TrimSpace(c.Query("q")),
		Sort:  storage.ParseSort(c.Query("sort")),
		Limit: limit,
	})
	if err != nil {
		slog.Error("failed to fetch articles", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}

	if articles == nil {
		articles = []model.Article{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"articles": articles,
		"count":    len(articles),
	})
}

func (a *articlesController) create(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		respondError(c, http.StatusBadRequest, "Topic is required")
		return
	}

	var (
		article model.Article
		err     error
	)
	if req.GenerateContent {
		article, err = a.creator.Generate(c.Request.Context(), topic)
	} else {
		article, err = a.creator.CreateStub(c.Request.Context(), topic)
	}

	switch {
	case errors.Is(err, storage.ErrDuplicateSlug):
		respondError(c, http.StatusConflict, "Article for this topic already exists")
		return
	case err != nil:
		slog.Error("failed to create article", "topic", topic, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to create article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"article": article,
		"message": "Article created successfully",
	})
}

func (a *articlesController) bySlug(c *gin.Context) {
	article, err := a.store.ArticleBySlug(c.Request.Context(), c.Param("slug"))
	switch {
	case errors.Is(err, storage.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "Article not found")
		return
	case err != nil:
		slog.Error("failed to fetch article", "slug", c.Param("slug"), "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch article")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "article": article})
}
