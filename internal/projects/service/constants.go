package service

import "time"

const (
	// DefaultTimeout bounds a single GitHub listing call
	DefaultTimeout = 10 * time.Second

	// RefreshTimeout bounds a scheduled cache refresh
	RefreshTimeout = 30 * time.Second

	githubAccept = "application/vnd.github.v3+json"

	// upstreamTarget labels GitHub calls in metrics
	upstreamTarget = "github"
)
