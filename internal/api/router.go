package api

import (
	"github.com/gin-gonic/gin"

	"github.com/frontiertower/portal-backend/internal/metrics"
)

// NewRouter builds the gin engine with all portal routes registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())

	r.POST("/authorize", h.Authorize)
	r.GET("/portal/options", h.PortalOptions)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	admin := r.Group("/api/v1/admin")
	admin.POST("/login", h.AdminLogin)

	authed := admin.Group("", h.AdminAuthMiddleware())
	{
		authed.GET("/stats", h.AdminStats)

		authed.GET("/floors", h.ListFloors)
		authed.POST("/floors", h.CreateFloor)
		authed.PATCH("/floors/:id", h.SetFloorActive)
		authed.DELETE("/floors/:id", h.DeleteFloor)

		authed.GET("/events", h.ListEvents)
		authed.POST("/events", h.CreateEvent)
		authed.PATCH("/events/:id", h.SetEventActive)
		authed.DELETE("/events/:id", h.DeleteEvent)

		authed.POST("/devices/:mac/kick", h.KickDevice)
	}

	return r
}
