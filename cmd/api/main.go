package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callcenter-dashboard/internal/auth"
	"callcenter-dashboard/internal/config"
	"callcenter-dashboard/internal/httpapi"
	"callcenter-dashboard/internal/imports"
	"callcenter-dashboard/internal/reanimation"
	"callcenter-dashboard/internal/reporting"
	"callcenter-dashboard/pkg/logger"
	"callcenter-dashboard/pkg/telemetry"
	"callcenter-dashboard/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{MaxOpenConns: cfg.DB.MaxOpenConns})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	metrics := telemetry.New()
	pageSize := utils.PageSize(cfg.Reports.PageSize)

	var cache reporting.Cache
	if cfg.Reports.CacheTTL > 0 {
		cache = reporting.NewRedisCache(rdb, cfg.Reports.CacheTTL)
	}
	reports := reporting.NewService(reporting.NewPostgresRepo(db, pageSize), reporting.Options{
		Cache:   cache,
		Metrics: metrics,
	})

	handlers := httpapi.Handlers{
		Reports: reports,
		Imports: imports.NewService(imports.NewPostgresStore(db, pageSize), imports.Options{
			Invalidator: reports,
			Metrics:     metrics,
		}),
		Reanimation: reanimation.NewService(reanimation.NewPostgresStore(db, pageSize), reanimation.Options{
			EarlyHangupSeconds: cfg.Reports.EarlyHangupSeconds,
		}),
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(metrics.Middleware())

	registerRoutes(r, routeDeps{
		Handlers:    handlers,
		AuthMW:      auth.RequireAccessToken(authManager),
		ReportSlots: httpapi.RequireReportSlot(rdb, cfg.Reports.MaxConcurrent, reportSlotTTL),
		Metrics:     metrics,
		Ready: func(ctx context.Context) error {
			if err := utils.HealthCheck(ctx, db, 2*time.Second); err != nil {
				return err
			}
			return rdb.Ping(ctx).Err()
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env,
			"report_cache_ttl", cfg.Reports.CacheTTL.String(), "page_size", pageSize)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
