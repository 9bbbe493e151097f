package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/reagent-systems/site-backend/config"
	"github.com/reagent-systems/site-backend/internal/backgrounds"
	"github.com/reagent-systems/site-backend/internal/bootstrap"
	"github.com/reagent-systems/site-backend/internal/logging"
	cronjob "github.com/reagent-systems/site-backend/internal/projects/cron"
	"github.com/reagent-systems/site-backend/internal/projects/repository"
	"github.com/reagent-systems/site-backend/internal/projects/service"
	"github.com/reagent-systems/site-backend/internal/reviews"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		rdb   *redis.Client
		cache service.ProjectCache
	)
	if cfg.Redis.Enabled() {
		rdb, err = bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn("redis unavailable, project cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			cache = repository.NewCacheRepository(rdb, cfg.ProjectsCache.TTL)
		}
	}

	github := service.NewGitHubClient(service.GitHubOptions{
		BaseURL:   cfg.GitHub.APIURL,
		Org:       cfg.GitHub.Org,
		UserAgent: cfg.GitHub.UserAgent,
		Token:     cfg.GitHub.Token,
		Timeout:   cfg.GitHub.Timeout,
	}, logger)
	projects := service.NewProjectService(github, cache, logger)

	if cache != nil {
		scheduler := cronjob.NewScheduler(cfg.ProjectsCache.RefreshSchedule, projects, service.RefreshTimeout, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error("project refresher not started", zap.Error(err))
		} else {
			defer scheduler.Stop(context.Background())
		}
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: cfg.App.ServiceName,
		Version:     cfg.App.Version,
		Logger:      logger,
		Redis:       rdb,
		CORSOrigins: cfg.Server.CORSOrigins,
		StaticDir:   cfg.Static.Dir,
		Backgrounds: backgrounds.NewLister(backgrounds.CandidateDirs(cfg.Static.BackgroundsDir), logger),
		Projects:    projects,
		Reviews:     reviews.NewSource(cfg.Reviews.URL, cfg.Reviews.Timeout),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
