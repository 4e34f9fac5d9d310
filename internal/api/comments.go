package api

import (
	"errors"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/storage"
	"github.com/microcosm-cc/bluemonday"
)

type CreateCommentRequest struct {
	Content   string `json:"content"`
	ArticleID string `json:"articleId"`
}

type commentsController struct {
	store CommentStore
	// Комментарии хранятся без разметки
	policy *bluemonday.Policy
}

func RegisterCommentRoutes(r *gin.Engine, store CommentStore, verifier IdentityVerifier) {
	ctl := &commentsController{store: store, policy: bluemonday.StrictPolicy()}

	r.GET("/comments", ctl.list)
	r.POST("/comments", requireIdentity(verifier), ctl.create)
}

func (cc *commentsController) list(c *gin.Context) {
	articleID := strings.TrimSpace(c.Query("articleId"))
	if articleID == "" {
		respondError(c, http.StatusBadRequest, "Article ID is required")
		return
	}

	comments, err := cc.store.CommentsByArticle(c.Request.Context(), articleID)
	if err != nil {
		slog.Error("failed to fetch comments", "article_id", articleID, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	if comments == nil {
		comments = []model.Comment{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"comments": comments,
		"count":    len(comments),
	})
}

func (cc *commentsController) create(c *gin.Context) {
	identity := identityFrom(c)

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	// Sanitize экранирует спецсимволы, а храним мы обычный текст без тегов
	content := strings.TrimSpace(html.UnescapeString(cc.policy.Sanitize(req.Content)))
	articleID := strings.TrimSpace(req.ArticleID)
	if content == "" || articleID == "" {
		respondError(c, http.StatusBadRequest, "Content and article ID are required")
		return
	}

	name := identity.Name
	if name == "" {
		name = "Anonymous"
	}

	comment, err := cc.store.AddComment(c.Request.Context(), model.Comment{
		Content:   content,
		ArticleID: articleID,
		UserID:    identity.UserID,
		Author: model.CommentAuthor{
			Name:  name,
			Email: identity.Email,
			Image: identity.Image,
		},
	})

	switch {
	case errors.Is(err, storage.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "Article not found")
		return
	case err != nil:
		slog.Error("failed to create comment", "article_id", articleID, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"comment": comment,
		"message": "Comment posted successfully",
	})
}
