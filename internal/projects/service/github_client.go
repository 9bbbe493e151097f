package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/reagent-systems/site-backend/internal/logging"
	"github.com/reagent-systems/site-backend/internal/metrics"
	"github.com/reagent-systems/site-backend/internal/projects/domain"
)

// GitHubOptions configures a GitHubClient
type GitHubOptions struct {
	BaseURL   string
	Org       string
	UserAgent string
	Token     string // optional; raises the API quota
	Timeout   time.Duration
}

// GitHubClient lists an organization's public repositories
type GitHubClient struct {
	baseURL    string
	org        string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGitHubClient creates a new GitHub client
func NewGitHubClient(opts GitHubOptions, logger *zap.Logger) *GitHubClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = opts.Timeout
	}

	return &GitHubClient{
		baseURL:    opts.BaseURL,
		org:        opts.Org,
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *GitHubClient) reposURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	u = u.JoinPath("orgs", c.org, "repos")

	q := u.Query()
	q.Set("type", "public")
	q.Set("sort", "updated")
	q.Set("per_page", "100")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// ListOrgRepos fetches up to 100 public repositories, most recently updated first
func (c *GitHubClient) ListOrgRepos(ctx context.Context) ([]domain.Repository, error) {
	logger := logging.FromContext(ctx, c.logger)
	start := time.Now()

	reqURL, err := c.reposURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", githubAccept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamCall(upstreamTarget, time.Since(start), err)
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("%w: %d", domain.ErrUpstreamStatus, resp.StatusCode)
		metrics.RecordUpstreamCall(upstreamTarget, time.Since(start), err)
		logger.Warn("github returned non-success status", zap.Int("status", resp.StatusCode))
		return nil, err
	}

	var repos []domain.Repository
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		metrics.RecordUpstreamCall(upstreamTarget, time.Since(start), err)
		return nil, fmt.Errorf("%w: decode repositories: %v", domain.ErrUnexpectedPayload, err)
	}
	if repos == nil {
		err := fmt.Errorf("%w: null repository list", domain.ErrUnexpectedPayload)
		metrics.RecordUpstreamCall(upstreamTarget, time.Since(start), err)
		return nil, err
	}

	metrics.RecordUpstreamCall(upstreamTarget, time.Since(start), nil)
	logger.Debug("fetched github repositories", zap.Int("count", len(repos)), zap.Duration("took", time.Since(start)))
	return repos, nil
}
