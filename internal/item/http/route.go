package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, sharerRequired, sharerOptional gin.HandlerFunc) {
	group := g.Group("/items")

	// === Public Routes ===
	{
		group.GET("/search", h.Search)
		group.GET("/:id", sharerOptional, h.Get)
	}

	// === Caller Routes ===
	{
		group.GET("", sharerRequired, h.ListOwn)
		group.POST("", sharerRequired, h.Create)
		group.PATCH("/:id", sharerRequired, h.Update)
		group.POST("/:id/comment", sharerRequired, h.AddComment)
	}
}
