package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reagent-systems/site-backend/internal/logging"
	"github.com/reagent-systems/site-backend/internal/metrics"
	"github.com/reagent-systems/site-backend/internal/projects/domain"
	"github.com/reagent-systems/site-backend/internal/projects/service"
)

const (
	cacheControlSuccess = "public, max-age=3600"
	cacheControlFailure = "no-store"
)

// Handler serves the GitHub project list
type Handler struct {
	projects *service.ProjectService
	logger   *zap.Logger
}

// New creates a new Handler
func New(projects *service.ProjectService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{projects: projects, logger: logger}
}

// ListProjects always answers 200; failures yield an empty, uncacheable list.
func (h *Handler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()

	projects, err := h.projects.List(ctx)
	if err != nil {
		logging.FromContext(ctx, h.logger).Error("failed to fetch github projects", zap.Error(err))
		metrics.RecordFallback(metrics.EndpointProjects, fallbackReason(err))

		c.Header("Cache-Control", cacheControlFailure)
		c.JSON(http.StatusOK, gin.H{"projects": []domain.ProjectSummary{}})
		return
	}

	c.Header("Cache-Control", cacheControlSuccess)
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstreamStatus):
		return metrics.ReasonStatus
	case errors.Is(err, domain.ErrUnexpectedPayload):
		return metrics.ReasonDecode
	default:
		return metrics.ReasonUpstream
	}
}
