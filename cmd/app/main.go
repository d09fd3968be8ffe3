package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fapbot/internal/config"
	"fapbot/internal/db"
	httpServer "fapbot/internal/http"
	"fapbot/internal/http/handlers"
	"fapbot/internal/http/middleware"
	"fapbot/internal/logger"
	"fapbot/internal/notify"
	"fapbot/internal/repository"
	"fapbot/internal/service"
	"fapbot/internal/succubus"
	"fapbot/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	store := repository.NewStore(dbPool)
	hub := ws.NewHub()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.BotToken != "" {
		tg, err := notify.NewTelegram(cfg.BotToken, store, cfg.AnnounceChatID)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		notifier = tg
	}

	sched := succubus.NewScheduler()
	registry := succubus.NewRegistry(succubus.Deps{
		Store:    store,
		Notifier: notifier,
		Loot:     hub,
		Sched:    sched,
	})

	economy := service.NewEconomyService(store, registry, notifier, cfg.DailyReward)
	gacha := service.NewGachaService(store)
	auth := service.NewAuthService(store, cfg.BotToken)

	// resume background effects for users who already had a succubus
	// active before the restart
	rearmCtx, rearmCancel := context.WithTimeout(context.Background(), 10*time.Second)
	rows, err := store.ActiveUsers(rearmCtx)
	rearmCancel()
	if err != nil {
		log.Fatalf("load active users: %v", err)
	}
	registry.Rearm(context.Background(), rows)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandler(economy, gacha, auth, store, hub, cfg.AdminTgIDs)
	health := handlers.NewHealthHandler(dbPool, version)
	httpServer.RegisterRoutes(r, h, health, hub, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Println("server started on port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}
	sched.Shutdown()

	log.Println("server exited")
}
