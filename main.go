package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"littlelemon-api/config"
	"littlelemon-api/handlers"
	"littlelemon-api/middleware"
	"littlelemon-api/models"
	"littlelemon-api/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config.InitDB(cfg.DBPath)

	// Built-in groups exist before any membership call needs them
	for _, name := range []string{models.GroupManager, models.GroupDeliveryCrew} {
		if _, err := handlers.EnsureGroup(name); err != nil {
			log.Fatal("Failed to ensure group:", err)
		}
	}

	r := gin.Default()
	r.Use(middleware.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Little Lemon Restaurant API",
			"version": "1.0.0",
		})
	})

	routes.SetupRoutes(r)

	logger.Info("server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
