package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resilient-bharat/prashikshan/internal/api"
	"resilient-bharat/prashikshan/internal/common"
	"resilient-bharat/prashikshan/internal/config"
	"resilient-bharat/prashikshan/internal/db"
	"resilient-bharat/prashikshan/internal/hub"
	"resilient-bharat/prashikshan/internal/logging"
	"resilient-bharat/prashikshan/internal/metrics"
	"resilient-bharat/prashikshan/internal/routes"
)

// @title Prashikshan API
// @version 1.0
// @description Disaster-preparedness training management backend.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Prashikshan starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with sqlx (analytics read side)
	if err := db.InitPostgres(cfg); err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM (write model) and migrate
	if _, err := db.InitPostgresORM(cfg.PostgresDSN()); err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err.Error())
	}
	logging.Info("Connected to Postgres (GORM)")

	// Cache: Redis when reachable, in-memory otherwise.
	var cache common.CacheInterface
	if redisClient, err := common.NewRedisClient(cfg); err != nil {
		logging.Warn("Redis unavailable, using in-memory cache", "error", err.Error())
		cache = common.NewCacheService(time.Minute, 10*time.Minute)
	} else {
		cache = common.NewRedisCacheService(redisClient)
	}
	defer cache.Close()

	metricsReg := metrics.NewMetricsRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notify := hub.NewHub(metricsReg)
	go notify.Run(ctx)

	deps := api.InitDependencies(cfg, db.PgDB, db.DB, cache, notify, metricsReg)

	upSince := time.Now()
	router := routes.RegisterRoutes(cfg, deps, db.DB, upSince)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error("graceful shutdown failed", "error", err.Error())
	}
}
