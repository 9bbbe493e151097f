package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/reagent-systems/site-backend/internal/logging"
	"github.com/reagent-systems/site-backend/internal/metrics"
	"github.com/reagent-systems/site-backend/internal/projects/domain"
)

// RepoFetcher lists the organization's repositories
type RepoFetcher interface {
	ListOrgRepos(ctx context.Context) ([]domain.Repository, error)
}

// ProjectCache stores the reshaped project list. Get returns domain.ErrCacheMiss
// when nothing is stored.
type ProjectCache interface {
	Get(ctx context.Context) ([]domain.ProjectSummary, error)
	Set(ctx context.Context, projects []domain.ProjectSummary) error
}

// ProjectService builds the project list served to the site
type ProjectService struct {
	fetcher RepoFetcher
	cache   ProjectCache
	logger  *zap.Logger
}

// NewProjectService creates a new ProjectService. cache may be nil.
func NewProjectService(fetcher RepoFetcher, cache ProjectCache, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
}

// List returns the cached project list when present, otherwise fetches it
// from the upstream and stores it.
func (s *ProjectService) List(ctx context.Context) ([]domain.ProjectSummary, error) {
	logger := logging.FromContext(ctx, s.logger)

	if s.cache != nil {
		projects, err := s.cache.Get(ctx)
		switch {
		case err == nil:
			metrics.RecordCacheLookup("hit")
			return projects, nil
		case errors.Is(err, domain.ErrCacheMiss):
			metrics.RecordCacheLookup("miss")
		default:
			metrics.RecordCacheLookup("error")
			logger.Warn("project cache read failed, calling upstream", zap.Error(err))
		}
	}

	projects, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, projects); err != nil {
			logger.Warn("project cache write failed", zap.Error(err))
		}
	}
	return projects, nil
}

// Refresh re-fetches the upstream and overwrites the cache.
func (s *ProjectService) Refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	projects, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, projects); err != nil {
		return fmt.Errorf("store projects: %w", err)
	}
	return nil
}

func (s *ProjectService) fetch(ctx context.Context) ([]domain.ProjectSummary, error) {
	repos, err := s.fetcher.ListOrgRepos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list org repos: %w", err)
	}
	return Summarize(repos), nil
}

// Summarize drops administrative repositories, reshapes the rest and orders
// them by stars, most first. Ties keep upstream order.
func Summarize(repos []domain.Repository) []domain.ProjectSummary {
	out := make([]domain.ProjectSummary, 0, len(repos))
	for _, r := range repos {
		if strings.Contains(r.Name, domain.ExcludedNameFragment) {
			continue
		}
		out = append(out, toSummary(r))
	}

	slices.SortStableFunc(out, func(a, b domain.ProjectSummary) int {
		return cmp.Compare(b.Stars, a.Stars)
	})
	return out
}

func toSummary(r domain.Repository) domain.ProjectSummary {
	description := domain.DefaultDescription
	if r.Description != nil && *r.Description != "" {
		description = *r.Description
	}

	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	return domain.ProjectSummary{
		ID:          r.ID,
		Name:        r.Name,
		FullName:    r.FullName,
		Description: description,
		URL:         r.HTMLURL,
		Homepage:    r.Homepage,
		Language:    r.Language,
		Stars:       r.StargazersCount,
		Forks:       r.ForksCount,
		Topics:      topics,
		UpdatedAt:   r.UpdatedAt,
	}
}
