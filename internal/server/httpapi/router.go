package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires all API routes.
//
// Public:
//
//	POST /api/v1/auth/register
//	POST /api/v1/auth/login
//	POST /api/v1/auth/refresh
//	GET  /healthz
//
// Authenticated (bearer token):
//
//	POST /api/v1/drafts
//	GET  /api/v1/drafts
//	GET  /api/v1/drafts/:id
//	PUT  /api/v1/drafts/:id/sections/:sectionID
//	POST /api/v1/drafts/:id/seal
//	GET  /api/v1/drafts/:id/export
//	POST /api/v1/drafts/:id/export/link
func NewRouter(h *Handlers, jwtSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", h.HandleRegister)
	authGroup.POST("/login", h.HandleLogin)
	authGroup.POST("/refresh", h.HandleRefresh)

	drafts := v1.Group("/drafts")
	drafts.Use(authRequired(jwtSecret))
	drafts.POST("", h.HandleCreateDraft)
	drafts.GET("", h.HandleListDrafts)
	drafts.GET("/:id", h.HandleGetDraft)
	drafts.PUT("/:id/sections/:sectionID", h.HandleUpdateSection)
	drafts.POST("/:id/seal", h.HandleSeal)
	drafts.GET("/:id/export", h.HandleExport)
	drafts.POST("/:id/export/link", h.HandleExportLink)

	return r
}
