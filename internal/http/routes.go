package http

import (
	"os"
	"strconv"
	"time"

	"fapbot/internal/config"
	"fapbot/internal/http/handlers"
	"fapbot/internal/http/middleware"
	"fapbot/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API, health checks and the websocket
// endpoint on the engine.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, hub *ws.Hub, cfg *config.Config) {
	// read limits from env, with safe defaults
	apiRateLimit := 20
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)

	fapRL := middleware.FapRateLimit(cfg.FapRateLimit, time.Duration(cfg.FapRateWindow)*time.Second)

	api := r.Group("/api/v1")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	{
		api.POST("/auth", middleware.RedisRateLimit(authRateLimit, apiRateWindow), h.AuthLogin)

		api.GET("/me", middleware.JWT(), h.Me)
		api.GET("/balance", middleware.JWT(), h.Balance)

		api.GET("/scoreboard", h.GetScoreboard)
		api.POST("/fap", middleware.JWT(), fapRL, h.Fap)
		api.POST("/daily", middleware.JWT(), h.ClaimDaily)

		api.GET("/store", h.GetStore)
		api.POST("/store/buy", middleware.JWT(), h.Buy)

		api.GET("/items", middleware.JWT(), h.GetItems)
		api.POST("/items/use", middleware.JWT(), h.UseItem)

		api.GET("/succubus", h.GetCatalog)
		api.GET("/succubus/:name", h.GetSuccubusInfo)
		api.POST("/succubus/activate", middleware.JWT(), h.Activate)
		api.POST("/succubus/ritual", middleware.JWT(), h.Ritual)
		api.POST("/fairtrade", middleware.JWT(), h.FairTrade)

		admin := api.Group("/admin")
		admin.Use(middleware.JWT())
		{
			admin.POST("/grant", h.AdminGrant)
			admin.POST("/coins", h.AdminAdjustCoins)
			admin.POST("/score", h.AdminAdjustScore)
		}
	}

	// live scoreboard pushes + loot box claims
	r.GET("/ws", ws.HandleWS(hub))
}
