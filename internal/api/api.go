package api

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	health_module "github.com/isitmyturn/isitmyturn/internal/api/modules/health"
	session_module "github.com/isitmyturn/isitmyturn/internal/api/modules/session"
	"github.com/isitmyturn/isitmyturn/pkg/session"
	"github.com/isitmyturn/isitmyturn/pkg/utils"
)

func Start(cfg *utils.Config, store session.Store) {
	// Initialized configuration settings
	port := cfg.GetWithDefault("API_PORT", "8080")

	// Add app level settings/routes
	engine := gin.Default()

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup)

	session_module.RegisterRoutes(baseGroup)
	session_module.Init(store)

	// Then after performing initial setup, start the server
	if err := engine.Run(":" + port); err != nil {
		log.Fatal("[API-MAIN]: Failed to start server: ", err)
	}
}
