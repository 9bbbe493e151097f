package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/reagent-systems/site-backend/config"
	"github.com/reagent-systems/site-backend/internal/backgrounds"
	"github.com/reagent-systems/site-backend/internal/bootstrap"
	"github.com/reagent-systems/site-backend/internal/logging"
	"github.com/reagent-systems/site-backend/internal/projects/repository"
	"github.com/reagent-systems/site-backend/internal/projects/service"
	"github.com/reagent-systems/site-backend/internal/reviews"
)

var errNoRedis = errors.New("REDIS_ADDR is not set")

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func githubClient(cfg *config.Config, logger *zap.Logger) *service.GitHubClient {
	return service.NewGitHubClient(service.GitHubOptions{
		BaseURL:   cfg.GitHub.APIURL,
		Org:       cfg.GitHub.Org,
		UserAgent: cfg.GitHub.UserAgent,
		Token:     cfg.GitHub.Token,
		Timeout:   cfg.GitHub.Timeout,
	}, logger)
}

// runRefreshProjects fetches the organization's repositories once and
// overwrites the cached project list.
func runRefreshProjects() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Redis.Enabled() {
		return errNoRedis
	}

	ctx, cancel := context.WithTimeout(context.Background(), service.RefreshTimeout)
	defer cancel()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	cache := repository.NewCacheRepository(rdb, cfg.ProjectsCache.TTL)
	svc := service.NewProjectService(githubClient(cfg, logger), cache, logger)
	if err := svc.Refresh(ctx); err != nil {
		return err
	}
	list, err := cache.Get(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("cached %d projects for %s\n", len(list), cfg.GitHub.Org)
	return nil
}

func runProjects() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), service.RefreshTimeout)
	defer cancel()

	list, err := service.NewProjectService(githubClient(cfg, logger), nil, logger).List(ctx)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"projects": list})
}

func runBackgrounds() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	lister := backgrounds.NewLister(backgrounds.CandidateDirs(cfg.Static.BackgroundsDir), logger)
	return printJSON(map[string]any{"images": lister.List(context.Background())})
}

func runReviews() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	list, err := reviews.NewSource(cfg.Reviews.URL, cfg.Reviews.Timeout).List(context.Background())
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"reviews": list})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
