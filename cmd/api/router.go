package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EchoNin9/orangewhip.surf/internal/auth"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/apikey"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/middleware"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/response"
	"github.com/EchoNin9/orangewhip.surf/pkg/container"
)

// SetupRouter wires the whole HTTP surface. Paths live at the root (no
// version prefix); each route names its own role floor.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
		middleware.Identity(c.Resolver),
	)

	router.GET("/", func(ctx *gin.Context) {
		response.Success(ctx, http.StatusOK, gin.H{
			"service": c.Config.App.Name,
			"version": c.Config.App.Version,
		})
	})
	router.GET("/health", healthCheckHandler(c))

	band := middleware.RequireRole(auth.RoleBand)
	editor := middleware.RequireRole(auth.RoleEditor)
	manager := middleware.RequireRole(auth.RoleManager)
	admin := middleware.RequireRole(auth.RoleAdmin)

	// Shows
	router.GET("/shows", c.ShowHandler.List)
	router.POST("/shows", editor, c.ShowHandler.Create)
	router.PUT("/shows", editor, c.ShowHandler.Update)
	router.DELETE("/shows", admin, c.ShowHandler.Delete)

	// Venues
	router.GET("/venues", c.VenueHandler.List)
	router.POST("/venues", editor, c.VenueHandler.Create)
	router.PUT("/venues", editor, c.VenueHandler.Update)
	router.DELETE("/venues", admin, c.VenueHandler.Delete)

	// Updates
	router.GET("/updates", c.UpdateHandler.List)
	router.GET("/updates/pinned", c.UpdateHandler.Pinned)
	router.POST("/updates", band, c.UpdateHandler.Create)
	router.PUT("/updates", band, c.UpdateHandler.Update)
	router.DELETE("/updates", admin, c.UpdateHandler.Delete)

	// Press
	router.GET("/press", c.PressHandler.List)
	router.POST("/press", editor, c.PressHandler.Create)
	router.POST("/press/upload-url", editor, c.PressHandler.UploadURL)
	router.PUT("/press", editor, c.PressHandler.Update)
	router.DELETE("/press", admin, c.PressHandler.Delete)

	// Media
	router.GET("/media", c.MediaHandler.List)
	router.GET("/media/all", band, c.MediaHandler.ListAll)
	router.POST("/media", band, c.MediaHandler.Create)
	router.POST("/media/upload", band, c.MediaHandler.UploadURL)
	router.POST("/media/thumbnail-upload", band, c.MediaHandler.ThumbnailUploadURL)
	router.POST("/media/import-from-url", band, c.MediaHandler.ImportFromURL)
	router.PUT("/media", band, c.MediaHandler.Update)
	router.DELETE("/media", admin, c.MediaHandler.Delete)

	// Categories
	router.GET("/categories", c.CategoryHandler.List)
	router.POST("/categories", manager, c.CategoryHandler.Create)
	router.PUT("/categories", manager, c.CategoryHandler.Update)
	router.DELETE("/categories", manager, c.CategoryHandler.Delete)

	// Groups
	router.GET("/groups", c.GroupHandler.List)

	// Self-service
	router.GET("/me", band, c.ProfileHandler.Me)
	router.GET("/me/groups", band, c.GroupHandler.MyGroups)
	router.POST("/me/groups", band, c.GroupHandler.Join)
	router.DELETE("/me/groups/:name", band, c.GroupHandler.Leave)

	// Profiles
	router.GET("/profile", band, c.ProfileHandler.GetSelf)
	router.PUT("/profile", band, c.ProfileHandler.Update)
	router.POST("/profile/photo-upload", band, c.ProfileHandler.PhotoUploadURL)
	router.GET("/profile/:identifier", c.ProfileHandler.Lookup)

	// Admin
	adminRoutes := router.Group("/admin", admin)
	{
		adminRoutes.GET("/users", c.ProfileHandler.AdminListUsers)
		adminRoutes.POST("/users/:id/groups", c.GroupHandler.AdminAddMember)
		adminRoutes.DELETE("/users/:id/groups/:name", c.GroupHandler.AdminRemoveMember)

		adminRoutes.GET("/groups", c.GroupHandler.AdminList)
		adminRoutes.POST("/groups", c.GroupHandler.AdminCreate)
		adminRoutes.PUT("/groups/:name", c.GroupHandler.AdminUpdate)
		adminRoutes.DELETE("/groups/:name", c.GroupHandler.AdminDelete)

		adminRoutes.GET("/api-keys", c.APIKeyHandler.List)
		adminRoutes.POST("/api-keys", c.APIKeyHandler.Create)
		adminRoutes.DELETE("/api-keys", c.APIKeyHandler.Delete)
	}

	// Embed, API-key gated
	embedKey := middleware.RequireAPIKey(c.APIKeyService, apikey.ScopeEmbed)
	router.GET("/embed/shows", embedKey, c.EmbedHandler.Shows)
	router.GET("/embed/updates", embedKey, c.EmbedHandler.Updates)

	// Collaborator callbacks
	router.POST("/webhooks/transcode", c.MediaHandler.TranscodeWebhook)

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})
	router.NoMethod(func(ctx *gin.Context) {
		response.ErrorResponse(ctx, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	router.HandleMethodNotAllowed = true

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.HealthCheck(ctx.Request.Context())
		healthy := status["database"] == "ok" && status["redis"] == "ok"

		code := http.StatusOK
		overall := "ok"
		if !healthy {
			code = http.StatusServiceUnavailable
			overall = "degraded"
		}
		ctx.JSON(code, gin.H{
			"status":   overall,
			"service":  c.Config.App.Name,
			"version":  c.Config.App.Version,
			"database": status["database"],
			"redis":    status["redis"],
		})
	}
}
