package api

import (
	"net/http"

	"lifedash-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Webhook endpoint (no auth, HMAC-verified)
		api.POST("/webhooks/notion", h.webhookHandler.HandleWebhook)

		// SSE endpoint
		api.GET("/events", delivery.AuthMiddleware(h.authUsecase), func(c *gin.Context) {
			userID := c.GetString("userID")
			h.sseManager.ServeHTTP(c, userID)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/refresh", h.authHandler.RefreshToken)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(h.authUsecase), h.authHandler.Me)
			auth.PUT("/integrations", delivery.AuthMiddleware(h.authUsecase), h.authHandler.SetIntegrationTokens)
		}

		// Device token routes (protected)
		devices := api.Group("/devices")
		devices.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			devices.POST("/register", h.authHandler.RegisterDeviceToken)
			devices.DELETE("/:token", h.authHandler.UnregisterDeviceToken)
		}

		// Database binding routes (protected)
		databases := api.Group("/databases")
		databases.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			databases.POST("/connect", h.syncHandler.ConnectDatabase)
			databases.GET("", h.syncHandler.ListDatabases)
			databases.DELETE("/:database_id", h.syncHandler.DisconnectDatabase)
		}

		// Sync trigger routes (protected)
		syncGroup := api.Group("/sync")
		syncGroup.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			syncGroup.POST("/:domain", h.syncHandler.SyncDomain)
		}

		// Record read routes (protected), local mirror only
		records := api.Group("/records")
		records.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			records.GET("/:domain", h.syncHandler.ListRecords)
		}

		// Search routes (protected)
		if h.searchHandler != nil {
			search := api.Group("/search")
			search.Use(delivery.AuthMiddleware(h.authUsecase))
			{
				search.POST("/semantic", h.searchHandler.SemanticSearch)
			}
		}

		// Calendar proxy (protected)
		calendarGroup := api.Group("/calendar")
		calendarGroup.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			calendarGroup.GET("/events", h.calendarHandler.ListEvents)
		}
	}
}
