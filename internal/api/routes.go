package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RegisterRoutes mounts the API under /api. JSON bodies with unknown fields
// are rejected on every endpoint.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	binding.EnableDecoderDisallowUnknownFields = true

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.POST("/board/image", h.boardImage)
		api.POST("/board/validate", h.boardValidate)
		api.POST("/board/text", h.boardText)
		api.POST("/tile/image", h.tileImage)
		api.GET("/qr", h.qr)
	}
}
