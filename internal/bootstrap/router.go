package bootstrap

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/reagent-systems/site-backend/internal/api/http"
	"github.com/reagent-systems/site-backend/internal/api/http/middleware"
	"github.com/reagent-systems/site-backend/internal/backgrounds"
	projectshttp "github.com/reagent-systems/site-backend/internal/projects/http"
	projectsservice "github.com/reagent-systems/site-backend/internal/projects/service"
	"github.com/reagent-systems/site-backend/internal/reviews"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Logger      *zap.Logger
	Redis       *redis.Client
	CORSOrigins []string
	StaticDir   string

	Backgrounds *backgrounds.Lister
	Projects    *projectsservice.ProjectService
	Reviews     reviews.Lister
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health", "/healthz", "/metrics"},
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("request_id", c.GetString(middleware.ContextKeyRequestID))}
		},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	backgrounds.NewHandler(dep.Backgrounds).Register(api)
	projectshttp.New(dep.Projects, logger).Register(api)
	reviews.NewHandler(dep.Reviews, logger).Register(api)

	// Static assets of the same deployment; the reviews proxy reads /reviews.json from here.
	if dir, err := dep.Backgrounds.Dir(); err == nil {
		r.Static(backgrounds.PublicPrefix, dir)
	}
	if dep.StaticDir != "" {
		r.StaticFile("/reviews.json", filepath.Join(dep.StaticDir, "reviews.json"))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
