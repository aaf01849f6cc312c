package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abzal/photovault/internal/annotation"
	"github.com/abzal/photovault/internal/asset"
	"github.com/abzal/photovault/internal/config"
	"github.com/abzal/photovault/internal/imgproc"
	"github.com/abzal/photovault/internal/logger"
	"github.com/abzal/photovault/internal/metrics"
	"github.com/abzal/photovault/internal/server"
	"github.com/abzal/photovault/internal/storage"
	"github.com/abzal/photovault/internal/tracing"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.Init()
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer logg.Sync()

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.Init(ctx, cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint)
		if err != nil {
			logg.Fatal("init tracing", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(shutdownCtx); err != nil {
				logg.Error("shutdown tracer", zap.Error(err))
			}
		}()
	}

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logg.Fatal("connect postgres", zap.Error(err))
	}
	defer dbPool.Close()

	if err := storage.EnsureSchema(ctx, dbPool); err != nil {
		logg.Fatal("ensure schema", zap.Error(err))
	}

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		logg.Fatal("connect minio", zap.Error(err))
	}

	if err := storage.EnsureBuckets(ctx, minioClient, cfg.MinIO); err != nil {
		logg.Fatal("ensure buckets", zap.Error(err))
	}

	cache, err := storage.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logg.Warn("redis unavailable, hash lookups run uncached", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
	}

	metrics.InitMetrics()

	catalogRepo := asset.NewRepository(dbPool)
	hashIndex := asset.NewHashIndex(dbPool, cache)
	objectStore := asset.NewMinIOStore(minioClient, cfg.MinIO.OriginalsBucket, cfg.MinIO.ThumbnailsBucket)
	codec := imgproc.NewCodec(cfg.Upload.ThumbMaxWidth, cfg.Upload.ThumbMaxHeight)

	annotationRepo := annotation.NewRepository(dbPool)
	annotationService := annotation.NewService(annotationRepo)

	assetService := asset.NewService(catalogRepo, hashIndex, objectStore, codec, annotationService, cfg.Upload.MaxUploadSize, logg)

	router := server.NewRouter(server.Dependencies{
		Config:            cfg,
		DB:                dbPool,
		ObjectStore:       minioClient,
		Cache:             cache,
		AssetService:      assetService,
		AnnotationService: annotationService,
	})

	var handler http.Handler = router
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(router, "http.server")
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("PhotoVault API listening", zap.String("address", cfg.Server.Address()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown error", zap.Error(err))
	}
}
