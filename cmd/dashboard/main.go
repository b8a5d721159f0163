package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mr1hm/go-disaster-dashboard/internal/api"
	"github.com/mr1hm/go-disaster-dashboard/internal/config"
	"github.com/mr1hm/go-disaster-dashboard/internal/dashboard"
	internalgrpc "github.com/mr1hm/go-disaster-dashboard/internal/grpc"
	"github.com/mr1hm/go-disaster-dashboard/internal/ingestion"
	"github.com/mr1hm/go-disaster-dashboard/internal/logging"
	"github.com/mr1hm/go-disaster-dashboard/internal/observability"
	"github.com/mr1hm/go-disaster-dashboard/internal/repository"
	"github.com/mr1hm/go-disaster-dashboard/internal/session"
	"github.com/mr1hm/go-disaster-dashboard/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
		logging.Fatalf("Failed to create database directory: %v", err)
	}
	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	// Health reports NOT_SERVING until the store below is loaded.
	grpcServer := internalgrpc.NewServer()
	go func() {
		grpcAddr := fmt.Sprintf(":%d", cfg.GRPC.Port)
		if err := grpcServer.Start(grpcAddr); err != nil {
			logging.Fatalf("gRPC server error: %v", err)
		}
	}()

	if err := importIfEmpty(ctx, cfg, db, metrics); err != nil {
		logging.Fatalf("Failed to import %s: %v", cfg.Data.File, err)
	}

	records, err := store.Load(ctx, db)
	if err != nil {
		logging.Fatalf("Failed to load records: %v", err)
	}
	metrics.RecordsLoaded.Set(float64(records.Len()))
	slog.Info("record store loaded", "records", records.Len(), "years", records.YearBounds())

	pipeline := dashboard.NewPipeline(records, metrics)

	criteria, closeCriteria := newCriteriaStore(cfg)
	defer closeCriteria()

	broadcaster := session.NewBroadcaster()
	sessions := session.NewManager(pipeline, criteria, broadcaster, session.Options{
		TTL:     cfg.Session.TTL,
		Metrics: metrics,
	})
	go sessions.Run(ctx, time.Minute)

	grpcServer.SetServing(true)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.RateLimit.RPS))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := api.NewHandler(sessions, pipeline, metrics)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	broadcaster.Close() // Close all streams gracefully
	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

// importIfEmpty loads DATA_FILE into a fresh database.
func importIfEmpty(ctx context.Context, cfg *config.Config, db *repository.SQLiteDB, metrics *observability.Metrics) error {
	if cfg.Data.File == "" {
		return nil
	}
	n, err := db.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("database already populated, skipping import", "records", n)
		return nil
	}

	_, err = ingestion.NewManager(cfg, db, metrics).Import(ctx, cfg.Data.File, cfg.Data.Sheet)
	return err
}

func newCriteriaStore(cfg *config.Config) (session.CriteriaStore, func()) {
	if cfg.Session.RedisURL == "" {
		slog.Info("using in-memory session store", "ttl", cfg.Session.TTL)
		return session.NewMemoryStore(nil), func() {}
	}

	opts, err := redis.ParseURL(cfg.Session.RedisURL)
	if err != nil {
		logging.Fatalf("Invalid REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logging.Fatalf("Failed to connect to redis: %v", err)
	}

	slog.Info("using redis session store", "addr", opts.Addr, "ttl", cfg.Session.TTL)
	return session.NewRedisStore(client), func() { client.Close() }
}
