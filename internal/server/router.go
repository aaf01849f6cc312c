package server

import (
	"github.com/abzal/photovault/internal/annotation"
	"github.com/abzal/photovault/internal/asset"
	"github.com/abzal/photovault/internal/config"
	"github.com/abzal/photovault/internal/logger"
	"github.com/abzal/photovault/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config            config.Config
	DB                *pgxpool.Pool
	ObjectStore       *minio.Client
	Cache             *redis.Client
	AssetService      *asset.Service
	AnnotationService *annotation.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/api")
	if deps.AssetService != nil {
		asset.RegisterRoutes(api, deps.AssetService)
	}
	if deps.AnnotationService != nil {
		annotation.RegisterRoutes(api, deps.AnnotationService)
	}

	return router
}
