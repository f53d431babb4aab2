// Package router assembles the Gin engine from the registered domain modules.
package router

import (
	"context"
	"net/http"

	apphttp "ausmass_backend/internal/http"
	"ausmass_backend/platform/config"
	"ausmass_backend/platform/httpkit"
	"ausmass_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New builds the HTTP engine, wires global middleware and registers every
// module's routes under /api/v1.
func New(cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger, modules []apphttp.Module) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(cfg))

	engine.GET("/api/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "ok"}
		if err := pool.Ping(context.Background()); err != nil {
			status = http.StatusServiceUnavailable
			body = gin.H{"status": "degraded", "error": err.Error()}
		}
		c.JSON(status, body)
	})

	ctx := &apphttp.RouterContext{
		Engine:          engine,
		V1:              engine.Group("/api/v1"),
		SyncRateLimiter: httpkit.NewIPRateLimiter(cfg.SyncRatePerMinute, cfg.SyncRateBurst, log),
		Logger:          log,
	}

	for _, m := range modules {
		m.RegisterRoutes(ctx)
		log.Info("module routes registered", "module", m.Name())
	}

	return engine
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if cfg.CORSAllowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	return cors.New(corsConfig)
}
