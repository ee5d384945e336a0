package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ruralbankph/loan_inquiry_relay/graph"
	"github.com/ruralbankph/loan_inquiry_relay/inits"
	"github.com/ruralbankph/loan_inquiry_relay/middleware"
	"github.com/ruralbankph/loan_inquiry_relay/models"
	"github.com/ruralbankph/loan_inquiry_relay/relay"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug("no .env file, relying on process environment")
	}

	cfg, err := inits.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	inits.LoggerInit(cfg.LogLevel, cfg.LogJSON)
	inits.DBInit(cfg.DuplicateCooldown)

	rel := relay.New(cfg, graph.NewClient(cfg))

	router := setupRouter(cfg, rel)
	slog.Info("listening", "addr", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func setupRouter(cfg *inits.Config, rel *relay.Relay) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = cfg.MaxMultipartMemory

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{Message: "Method not allowed."})
	})

	if len(cfg.AllowedHosts) > 0 {
		router.Use(middleware.HostWhitelistMiddleware(cfg.AllowedHosts))
	}
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	router.Use(middleware.MetricsMiddleware())

	router.POST("/submit", relay.Handler(rel))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.Ack{OK: true})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
