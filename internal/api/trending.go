package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterTrendingRoutes(r *gin.Engine, topics TopicSource) {
	r.GET("/trending", func(c *gin.Context) {
		list := topics.Discover(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"topics":  list,
			"count":   len(list),
		})
	})
}
