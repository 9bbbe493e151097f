package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reagent-systems/site-backend/internal/projects/domain"
)

const (
	projectsKey = "site:projects" // reshaped project list as JSON
	DefaultTTL  = time.Hour
)

// CacheRepository keeps the project list in Redis
type CacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheRepository creates a new CacheRepository
func NewCacheRepository(client *redis.Client, ttl time.Duration) *CacheRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CacheRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached project list
func (r *CacheRepository) Get(ctx context.Context) ([]domain.ProjectSummary, error) {
	data, err := r.client.Get(ctx, projectsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}

	var projects []domain.ProjectSummary
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal projects: %w", err)
	}
	if projects == nil {
		projects = []domain.ProjectSummary{}
	}

	return projects, nil
}

// Set stores the project list, replacing any previous value
func (r *CacheRepository) Set(ctx context.Context, projects []domain.ProjectSummary) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}

	if err := r.client.Set(ctx, projectsKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store projects: %w", err)
	}
	return nil
}

// Invalidate removes the cached project list
func (r *CacheRepository) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, projectsKey).Err(); err != nil {
		return fmt.Errorf("failed to delete projects: %w", err)
	}
	return nil
}
