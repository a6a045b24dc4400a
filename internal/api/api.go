// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/datareplica/internal/api/handlers"
	"github.com/andresuchdata/datareplica/internal/api/middleware"
)

func NewRouter(invoker handlers.Invoker, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
	if allowAll || len(normalizedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = normalizedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if invoker != nil {
		invokeHandler := handlers.NewInvokeHandler(invoker)
		invokeGroup := router.Group("/api/v1/invoke")
		{
			invokeGroup.POST("/replicator", invokeHandler.Replicator)
			invokeGroup.POST("/backup", invokeHandler.Backup)
			invokeGroup.POST("/seed", invokeHandler.Seed)
			invokeGroup.GET("/list", invokeHandler.List)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
